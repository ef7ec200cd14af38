package server

import (
	"errors"
	"fmt"

	"inventario-backend/internal/inventory"
	"inventario-backend/internal/logger"
	"inventario-backend/internal/store"
	"inventario-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"error": message}. Domain errors
// returned by handlers are mapped to their status code here.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := classify(err)
	if code >= fiber.StatusInternalServerError {
		logger.FromCtx(c).Error("unexpected error", zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func classify(err error) (int, string) {
	var (
		fe   *fiber.Error
		verr *store.ValidationError
		serr *inventory.InsufficientStockError
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Error()
	case errors.As(err, &serr):
		return fiber.StatusConflict, fmt.Sprintf("No hay suficiente stock de %s. Disponible: %d, solicitado: %d",
			serr.Product, serr.Available, serr.Requested)
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, store.ErrDuplicate):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, users.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Documento o contraseña incorrectos"
	case errors.Is(err, users.ErrInactiveUser):
		return fiber.StatusForbidden, "Usuario inactivo"
	case errors.Is(err, users.ErrWrongPassword):
		return fiber.StatusBadRequest, "Contraseña actual incorrecta"
	case errors.Is(err, users.ErrAdminExists):
		return fiber.StatusForbidden, "Ya existe un administrador"
	}
	return fiber.StatusInternalServerError, "Error interno del servidor"
}
