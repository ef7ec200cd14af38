package inventory

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityOrder = "order"

// GET /api/ordenes?q=
func ListOrdersHandler(o *Orders) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(o.Search(c.Query("q")))
	}
}

// GET /api/ordenes/resumen
func OrderSummaryHandler(o *Orders) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(o.Summary())
	}
}

// POST /api/ordenes
func CreateOrderHandler(o *Orders, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OrderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		userID, userName := auth.CurrentUser(c)
		if body.Responsible == "" {
			body.Responsible = userName
		}

		order, err := o.Create(body)
		if err != nil {
			return err
		}

		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityOrder,
			EntityKey:   order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Orden creada: %s - %s x%d", order.ID, order.Product, order.Quantity),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// PUT /api/ordenes/:id
func UpdateOrderHandler(o *Orders, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body OrderPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := o.Get(id)
		if err != nil {
			return err
		}
		order, err := o.Update(id, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityOrder,
			EntityKey:   order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Orden actualizada: %s (%s)", order.ID, order.Status),
			Before:      before,
			After:       order,
		})

		return c.JSON(order)
	}
}

// DELETE /api/ordenes/:id and DELETE /api/ordenes {"keys": [...]}
func DeleteOrdersHandler(o *Orders, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := deleteKeys(c)
		if err != nil {
			return err
		}

		removed := make([]models.Order, 0, len(keys))
		for _, k := range keys {
			if order, err := o.Get(k); err == nil {
				removed = append(removed, order)
			}
		}
		n := o.Delete(keys...)

		userID, userName := auth.CurrentUser(c)
		for _, order := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityOrder,
				EntityKey:   order.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Orden eliminada: %s", order.ID),
				Before:      order,
			})
		}

		return c.JSON(DeleteResponse{Deleted: n})
	}
}
