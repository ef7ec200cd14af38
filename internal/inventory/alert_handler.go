package inventory

import "github.com/gofiber/fiber/v2"

// GET /api/alertas?tipo=&nivel=
func ListAlertsHandler(svc *Service, windowDays int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts := svc.Alerts(windowDays)
		return c.JSON(FilterAlerts(alerts, AlertType(c.Query("tipo")), AlertLevel(c.Query("nivel"))))
	}
}
