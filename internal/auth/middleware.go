package auth

import (
	"strings"

	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
)

// UserLookup resolves the account a token was issued for.
type UserLookup interface {
	Get(id int) (models.User, error)
}

// JWTMiddleware checks the bearer token and then loads its account, so role
// changes and deactivations apply to tokens that were already issued.
func JWTMiddleware(secret string, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el encabezado Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato de Authorization debe ser 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		user, err := users.Get(claims.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario no encontrado")
		}
		if user.Status == models.StatusInactive {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario inactivo")
		}

		c.Locals(CtxUserIDKey, user.ID)
		c.Locals(CtxUserNameKey, user.Name)
		c.Locals(CtxUserRoleKey, user.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo leer el rol")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tiene permiso para esta operación")
	}
}

// CurrentUser returns the id and name stored by JWTMiddleware, or zero values
// on routes it does not guard.
func CurrentUser(c *fiber.Ctx) (int, string) {
	id, _ := c.Locals(CtxUserIDKey).(int)
	name, _ := c.Locals(CtxUserNameKey).(string)
	return id, name
}
