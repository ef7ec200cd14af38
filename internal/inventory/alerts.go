package inventory

import (
	"fmt"
	"time"

	"inventario-backend/internal/models"
)

const DefaultAlertWindowDays = 30

type AlertType string

const (
	AlertLowStock AlertType = "low_stock"
	AlertExpiring AlertType = "expiring"
	AlertExpired  AlertType = "expired"
)

type AlertLevel string

const (
	LevelWarning AlertLevel = "warning"
	LevelError   AlertLevel = "error"
)

type Alert struct {
	Type    AlertType  `json:"type"`
	Level   AlertLevel `json:"level"`
	Product string     `json:"product"`
	Message string     `json:"message"`
	Stock   int        `json:"stock"`
	Expiry  string     `json:"expiry,omitempty"`
}

// ClassifyExpiry places an expiry date relative to today: expired before
// today, expiring from today up to windowDays ahead, valid otherwise or when
// there is no date.
func ClassifyExpiry(expiry string, today time.Time, windowDays int) string {
	if expiry == "" {
		return models.ExpiryValid
	}
	switch {
	case expiry < today.Format(models.DateLayout):
		return models.ExpiryExpired
	case expiry <= today.AddDate(0, 0, windowDays).Format(models.DateLayout):
		return models.ExpiryExpiring
	}
	return models.ExpiryValid
}

// Alerts derives stock and expiry alerts from the current products. Inactive
// products raise none. A product can raise one stock and one expiry alert.
func Alerts(products []models.Product, today time.Time, windowDays int) []Alert {
	out := []Alert{}
	for _, p := range products {
		if p.Status == models.StatusInactive {
			continue
		}
		switch {
		case p.Stock == 0:
			out = append(out, Alert{
				Type: AlertLowStock, Level: LevelError, Product: p.Name, Stock: p.Stock,
				Message: fmt.Sprintf("%s sin stock", p.Name),
			})
		case p.MinStock > 0 && p.Stock <= p.MinStock:
			out = append(out, Alert{
				Type: AlertLowStock, Level: LevelWarning, Product: p.Name, Stock: p.Stock,
				Message: fmt.Sprintf("%s con stock bajo: %d (mínimo %d)", p.Name, p.Stock, p.MinStock),
			})
		}

		switch ClassifyExpiry(p.Expiry, today, windowDays) {
		case models.ExpiryExpired:
			out = append(out, Alert{
				Type: AlertExpired, Level: LevelError, Product: p.Name, Stock: p.Stock, Expiry: p.Expiry,
				Message: fmt.Sprintf("%s vencido desde %s", p.Name, p.Expiry),
			})
		case models.ExpiryExpiring:
			out = append(out, Alert{
				Type: AlertExpiring, Level: LevelWarning, Product: p.Name, Stock: p.Stock, Expiry: p.Expiry,
				Message: fmt.Sprintf("%s vence el %s", p.Name, p.Expiry),
			})
		}
	}
	return out
}

// FilterAlerts keeps the alerts of the given type and level; empty values match all.
func FilterAlerts(alerts []Alert, kind AlertType, level AlertLevel) []Alert {
	if kind == "" && level == "" {
		return alerts
	}
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if (kind == "" || a.Type == kind) && (level == "" || a.Level == level) {
			out = append(out, a)
		}
	}
	return out
}

// Alerts evaluates the current products against today's date.
func (s *Service) Alerts(windowDays int) []Alert {
	return Alerts(s.products.List(), s.now(), windowDays)
}
