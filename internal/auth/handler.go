package auth

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/config"
	"inventario-backend/internal/models"
	"inventario-backend/internal/users"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Document string `json:"document"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	User      models.User `json:"user"`
}

// POST /api/auth/register
func RegisterHandler(svc *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body users.RegisterInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de solicitud inválido")
		}

		user, err := svc.Register(body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(user.Public())
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, svc *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de solicitud inválido")
		}
		if body.Document == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Documento y contraseña son obligatorios")
		}

		user, err := svc.Authenticate(body.Document, body.Password)
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTExpiration, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(LoginResponse{
			Token:     token,
			TokenType: "bearer",
			ExpiresIn: int64(cfg.JWTExpiration.Seconds()),
			User:      user.Public(),
		})
	}
}

// GET /api/auth/me
func MeHandler(svc *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := CurrentUser(c)
		user, err := svc.Get(id)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario no encontrado")
		}
		return c.JSON(user.Public())
	}
}

// PUT /api/auth/me/password
func ChangePasswordHandler(svc *users.Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de solicitud inválido")
		}

		id, name := CurrentUser(c)
		if err := svc.ChangePassword(id, body.CurrentPassword, body.NewPassword); err != nil {
			return err
		}

		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      id,
			UserName:    name,
			EntityType:  "user",
			EntityKey:   fmt.Sprint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Contraseña cambiada: %s", name),
		})
		return c.JSON(fiber.Map{"message": "Contraseña actualizada"})
	}
}
