package inventory

import (
	"fmt"
	"strings"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/movimientos/importar (multipart, field "file")
func ImportStockHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo leer el archivo: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se aceptan archivos .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo abrir el archivo")
		}
		defer file.Close()

		userID, userName := auth.CurrentUser(c)
		res, err := svc.ImportStockIn(file, userName)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Archivo Excel inválido: "+err.Error())
		}

		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProduct,
			EntityKey:   fileHeader.Filename,
			Action:      models.AuditActionImport,
			Description: fmt.Sprintf("Importación: %d filas aplicadas, %d con error", res.Applied, len(res.Errors)),
			After:       res.Results,
		})

		return c.JSON(res)
	}
}
