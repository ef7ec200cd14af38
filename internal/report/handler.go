package report

import (
	"bytes"
	"fmt"
	"time"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/inventory"
	"inventario-backend/internal/models"
	"inventario-backend/internal/search"
	"inventario-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
)

func movementRows(inv *inventory.Service, query string) []Row {
	return search.Filter(Rows(inv.Movements()), query, Row.SearchFields)
}

// GET /api/reportes?q=
func ListReportHandler(inv *inventory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(movementRows(inv, c.Query("q")))
	}
}

// GET /api/reportes/historial?fecha=&accion=
func HistoryHandler(trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(trail.History(audit.FilterFromQuery(c)))
	}
}

// GET /api/reportes/exportar?q=
func ExportReportHandler(inv *inventory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := WriteMovements(&buf, movementRows(inv, c.Query("q"))); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el archivo")
		}
		return sendXLSX(c, "reportes", buf.Bytes())
	}
}

// GET /api/reportes/historial/exportar?fecha=&accion=
func ExportHistoryHandler(trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := WriteHistory(&buf, trail.History(audit.FilterFromQuery(c))); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el archivo")
		}
		return sendXLSX(c, "historial", buf.Bytes())
	}
}

func sendXLSX(c *fiber.Ctx, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format(models.DateLayout)))
	return c.Send(data)
}

// GET /api/proveedores/:index/informe
func ProviderReportHandler(providers *supplier.Service, inv *inventory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Índice inválido")
		}
		p, err := providers.Get(index)
		if err != nil {
			return err
		}
		return c.JSON(ForProvider(p, inv.Movements()))
	}
}
