package admin

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"
	"inventario-backend/internal/users"

	"github.com/gofiber/fiber/v2"
)

const entityUser = "user"

type DeleteUsersRequest struct {
	Keys []int `json:"keys"`
}

// ----------------------------------------
// USER MANAGEMENT (admin)
// ----------------------------------------

// GET /api/usuarios?q=
func ListUsersHandler(svc *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(users.Public(svc.Search(c.Query("q"))))
	}
}

// POST /api/usuarios
func CreateUserHandler(svc *users.Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body users.RegisterInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		u, err := svc.Register(body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityUser,
			EntityKey:   fmt.Sprint(u.ID),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Usuario creado: %s (%s)", u.Name, u.Role),
			After:       u.Public(),
		})

		return c.Status(fiber.StatusCreated).JSON(u.Public())
	}
}

// PUT /api/usuarios/:id
func UpdateUserHandler(svc *users.Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body users.UserPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := svc.Get(id)
		if err != nil {
			return err
		}
		u, err := svc.Update(id, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		desc := fmt.Sprintf("Usuario actualizado: %s", u.Name)
		if body.Password != nil {
			desc += " (contraseña cambiada)"
		}
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityUser,
			EntityKey:   fmt.Sprint(u.ID),
			Action:      models.AuditActionUpdate,
			Description: desc,
			Before:      before.Public(),
			After:       u.Public(),
		})

		return c.JSON(u.Public())
	}
}

// DELETE /api/usuarios {"keys": [...]}
func DeleteUsersHandler(svc *users.Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeleteUsersRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if len(body.Keys) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Debe indicar al menos un usuario")
		}

		userID, userName := auth.CurrentUser(c)
		for _, id := range body.Keys {
			if id == userID {
				return fiber.NewError(fiber.StatusBadRequest, "No puede eliminar su propio usuario")
			}
		}

		removed := make([]models.User, 0, len(body.Keys))
		for _, id := range body.Keys {
			if u, err := svc.Get(id); err == nil {
				removed = append(removed, u.Public())
			}
		}
		n := svc.Delete(body.Keys...)

		for _, u := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityUser,
				EntityKey:   fmt.Sprint(u.ID),
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Usuario eliminado: %s", u.Name),
				Before:      u,
			})
		}

		return c.JSON(fiber.Map{"deleted": n})
	}
}
