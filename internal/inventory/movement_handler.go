package inventory

import (
	"fmt"
	"strings"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMovementRequest is a stock-in or a stock-out depending on Type.
// "entrada" and "salida" are accepted as aliases.
type CreateMovementRequest struct {
	Type        string `json:"type"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	Expiry      string `json:"expiry"`
	Batch       string `json:"batch"`
	Provider    string `json:"provider"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	Responsible string `json:"responsible"`
}

func movementType(s string) (models.MovementType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "entrada":
		return models.MovementIn, true
	case "out", "salida":
		return models.MovementOut, true
	}
	return "", false
}

// GET /api/movimientos?q=&type=
func ListMovementsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := svc.SearchMovements(c.Query("q"))
		if t, ok := movementType(c.Query("type")); ok {
			filtered := make([]models.Movement, 0, len(list))
			for _, m := range list {
				if m.Type == t {
					filtered = append(filtered, m)
				}
			}
			list = filtered
		}
		return c.JSON(list)
	}
}

// POST /api/movimientos
func CreateMovementHandler(svc *Service, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		kind, ok := movementType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "El tipo debe ser 'in' o 'out'")
		}

		userID, userName := auth.CurrentUser(c)
		if body.Responsible == "" {
			body.Responsible = userName
		}

		before, _ := svc.Product(strings.TrimSpace(body.Product))

		var (
			res    StockResult
			err    error
			action models.AuditAction
			desc   string
		)
		if kind == models.MovementIn {
			res, err = svc.StockIn(StockInInput{
				Product:     body.Product,
				Quantity:    body.Quantity,
				Expiry:      body.Expiry,
				Batch:       body.Batch,
				Provider:    body.Provider,
				Notes:       body.Notes,
				Responsible: body.Responsible,
			})
			action = models.AuditActionStockIn
			desc = fmt.Sprintf("Entrada de %d %s", body.Quantity, strings.TrimSpace(body.Product))
		} else {
			res, err = svc.StockOut(StockOutInput{
				Product:     body.Product,
				Quantity:    body.Quantity,
				Reason:      body.Reason,
				Notes:       body.Notes,
				Responsible: body.Responsible,
			})
			action = models.AuditActionStockOut
			desc = fmt.Sprintf("Salida de %d %s", body.Quantity, strings.TrimSpace(body.Product))
		}
		if err != nil {
			return err
		}

		opts := audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityProduct,
			EntityKey:   res.Product.Name,
			Action:      action,
			Description: desc,
			After:       res.Product,
		}
		if !res.Created {
			opts.Before = before
		}
		_, _ = trail.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
