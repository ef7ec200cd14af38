package audit

import (
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/auditoria?fecha=&accion=&entity_type=&entity_key=&user_id=&q=
func ListAuditLogsHandler(trail *Trail) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries := trail.History(FilterFromQuery(c))

		// newest first
		res := make([]models.AuditEntry, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			res = append(res, entries[i])
		}
		return c.JSON(res)
	}
}

func FilterFromQuery(c *fiber.Ctx) HistoryFilter {
	return HistoryFilter{
		Date:       c.Query("fecha"),
		Action:     c.Query("accion"),
		EntityType: c.Query("entity_type"),
		EntityKey:  c.Query("entity_key"),
		UserID:     c.QueryInt("user_id"),
		Query:      c.Query("q"),
	}
}
