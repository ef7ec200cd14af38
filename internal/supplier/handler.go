package supplier

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityProvider = "provider"

type DeleteRequest struct {
	Indexes []int `json:"indexes"`
}

// GET /api/proveedores?q=
func ListProvidersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Search(c.Query("q")))
	}
}

// POST /api/proveedores
func CreateProviderHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProviderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		e, err := svc.Create(body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProvider,
			EntityKey:   e.Name,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Proveedor registrado: %s", e.Name),
			After:       e.Provider,
		})

		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// PUT /api/proveedores/:index
func UpdateProviderHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Índice inválido")
		}

		var body ProviderPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := svc.Get(index)
		if err != nil {
			return err
		}
		e, err := svc.Update(index, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProvider,
			EntityKey:   e.Name,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Proveedor actualizado: %s", e.Name),
			Before:      before,
			After:       e.Provider,
		})

		return c.JSON(e)
	}
}

// DELETE /api/proveedores {"indexes": [...]}
func DeleteProvidersHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeleteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if len(body.Indexes) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Debe indicar al menos un índice")
		}

		removed := make([]models.Provider, 0, len(body.Indexes))
		seen := map[int]bool{}
		for _, i := range body.Indexes {
			if p, err := svc.Get(i); err == nil && !seen[i] {
				seen[i] = true
				removed = append(removed, p)
			}
		}
		n := svc.Delete(body.Indexes...)

		userID, userName := auth.CurrentUser(c)
		for _, p := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityProvider,
				EntityKey:   p.Name,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Proveedor eliminado: %s", p.Name),
				Before:      p,
			})
		}

		return c.JSON(fiber.Map{"deleted": n})
	}
}
