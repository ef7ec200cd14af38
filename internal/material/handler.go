package material

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityMaterial = "material"

type DeleteRequest struct {
	Keys []int `json:"keys"`
}

// GET /api/materiales?q=&tipo=
func ListMaterialsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Search(c.Query("q"), c.Query("tipo")))
	}
}

// GET /api/materiales/tipos
func ListTypesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Types())
	}
}

// GET /api/materiales/:id
func GetMaterialHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		m, err := svc.Get(id)
		if err != nil {
			return err
		}
		return c.JSON(m)
	}
}

// POST /api/materiales
func CreateMaterialHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MaterialInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		m, err := svc.Create(body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityMaterial,
			EntityKey:   fmt.Sprint(m.ID),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Material creado: %s (%s)", m.Name, m.Type),
			After:       m,
		})

		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// PUT /api/materiales/:id
func UpdateMaterialHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body MaterialPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := svc.Get(id)
		if err != nil {
			return err
		}
		m, err := svc.Update(id, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityMaterial,
			EntityKey:   fmt.Sprint(m.ID),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Material actualizado: %s", m.Name),
			Before:      before,
			After:       m,
		})

		return c.JSON(m)
	}
}

// DELETE /api/materiales/:id and DELETE /api/materiales {"keys": [...]}
func DeleteMaterialsHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var keys []int
		if c.Params("id") != "" {
			id, err := c.ParamsInt("id")
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
			}
			keys = []int{id}
		} else {
			var body DeleteRequest
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
			}
			keys = body.Keys
		}
		if len(keys) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Debe indicar al menos un material")
		}

		removed := make([]models.Material, 0, len(keys))
		for _, id := range keys {
			if m, err := svc.Get(id); err == nil {
				removed = append(removed, m)
			}
		}
		n := svc.Delete(keys...)

		userID, userName := auth.CurrentUser(c)
		for _, m := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityMaterial,
				EntityKey:   fmt.Sprint(m.ID),
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Material eliminado: %s", m.Name),
				Before:      m,
			})
		}

		return c.JSON(fiber.Map{"deleted": n})
	}
}

// POST /api/materiales/:id/asignar/:userId
func AssignMaterialHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		assignee, err := c.ParamsInt("userId")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID de usuario inválido")
		}

		before, err := svc.Get(id)
		if err != nil {
			return err
		}
		m, err := svc.Assign(id, assignee)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityMaterial,
			EntityKey:   fmt.Sprint(m.ID),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Material %s asignado al usuario %d", m.Name, assignee),
			Before:      before,
			After:       m,
		})

		return c.JSON(m)
	}
}

// GET /api/materiales/:id/usuarios-asignados
func AssignedUsersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		list, err := svc.AssignedUsers(id)
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}
