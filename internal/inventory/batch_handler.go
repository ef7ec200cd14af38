package inventory

import (
	"fmt"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const entityBatch = "batch"

// GET /api/lotes?q=
func ListBatchesHandler(b *Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(b.Search(c.Query("q")))
	}
}

// GET /api/lotes/proximos-vencer?dias=30
func ExpiringBatchesHandler(b *Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("dias", DefaultAlertWindowDays)
		if days < 1 || days > 365 {
			return fiber.NewError(fiber.StatusBadRequest, "dias debe estar entre 1 y 365")
		}
		return c.JSON(b.Expiring(days))
	}
}

// GET /api/lotes/vencidos
func ExpiredBatchesHandler(b *Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(b.Expired())
	}
}

// POST /api/lotes/actualizar-estados
func RefreshBatchStatesHandler(b *Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"updated": b.RefreshExpiryStates()})
	}
}

// POST /api/lotes
func CreateBatchHandler(b *Batches, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		userID, userName := auth.CurrentUser(c)
		if body.Responsible == "" {
			body.Responsible = userName
		}

		batch, err := b.Create(body)
		if err != nil {
			return err
		}

		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityBatch,
			EntityKey:   batch.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lote creado: %s - %s", batch.ID, batch.Product),
			After:       batch,
		})

		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

// PUT /api/lotes/:id
func UpdateBatchHandler(b *Batches, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body BatchPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before, err := b.Get(id)
		if err != nil {
			return err
		}
		batch, err := b.Update(id, body)
		if err != nil {
			return err
		}

		userID, userName := auth.CurrentUser(c)
		_, _ = trail.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityBatch,
			EntityKey:   batch.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lote actualizado: %s", batch.ID),
			Before:      before,
			After:       batch,
		})

		return c.JSON(batch)
	}
}

// DELETE /api/lotes/:id and DELETE /api/lotes {"keys": [...]}
func DeleteBatchesHandler(b *Batches, trail *audit.Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := deleteKeys(c)
		if err != nil {
			return err
		}

		removed := make([]models.Batch, 0, len(keys))
		for _, k := range keys {
			if batch, err := b.Get(k); err == nil {
				removed = append(removed, batch)
			}
		}
		n := b.Delete(keys...)

		userID, userName := auth.CurrentUser(c)
		for _, batch := range removed {
			_, _ = trail.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  entityBatch,
				EntityKey:   batch.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Lote eliminado: %s", batch.ID),
				Before:      batch,
			})
		}

		return c.JSON(DeleteResponse{Deleted: n})
	}
}
