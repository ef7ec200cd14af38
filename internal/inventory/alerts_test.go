package inventory

import (
	"testing"
	"time"

	"inventario-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAlerts(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	products := []models.Product{
		{Name: "Vacío", Stock: 0, Status: models.StatusActive},
		{Name: "Bajo", Stock: 2, MinStock: 5, Status: models.StatusActive},
		{Name: "Justo", Stock: 5, MinStock: 5, Status: models.StatusActive},
		{Name: "Sobra", Stock: 9, MinStock: 5, Status: models.StatusActive},
		{Name: "Vencido", Stock: 9, Expiry: "2024-05-31", Status: models.StatusActive},
		{Name: "Hoy", Stock: 9, Expiry: "2024-06-01", Status: models.StatusActive},
		{Name: "Pronto", Stock: 9, Expiry: "2024-07-01", Status: models.StatusActive},
		{Name: "Lejos", Stock: 9, Expiry: "2024-07-02", Status: models.StatusActive},
		{Name: "Inactivo", Stock: 0, Expiry: "2020-01-01", Status: models.StatusInactive},
	}

	got := Alerts(products, today, 30)

	type key struct {
		Product string
		Type    AlertType
		Level   AlertLevel
	}
	keys := make([]key, 0, len(got))
	for _, a := range got {
		keys = append(keys, key{a.Product, a.Type, a.Level})
	}
	assert.Equal(t, []key{
		{"Vacío", AlertLowStock, LevelError},
		{"Bajo", AlertLowStock, LevelWarning},
		{"Justo", AlertLowStock, LevelWarning},
		{"Vencido", AlertExpired, LevelError},
		{"Hoy", AlertExpiring, LevelWarning},
		{"Pronto", AlertExpiring, LevelWarning},
	}, keys)
}

func TestAlertsEmpty(t *testing.T) {
	got := Alerts(nil, time.Now(), 30)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterAlerts(t *testing.T) {
	alerts := []Alert{
		{Type: AlertLowStock, Level: LevelError},
		{Type: AlertLowStock, Level: LevelWarning},
		{Type: AlertExpired, Level: LevelError},
	}
	assert.Len(t, FilterAlerts(alerts, "", ""), 3)
	assert.Len(t, FilterAlerts(alerts, AlertLowStock, ""), 2)
	assert.Len(t, FilterAlerts(alerts, "", LevelError), 2)
	assert.Len(t, FilterAlerts(alerts, AlertExpired, LevelWarning), 0)
}

func TestClassifyExpiry(t *testing.T) {
	today := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		expiry string
		want   string
	}{
		{"", models.ExpiryValid},
		{"2024-05-31", models.ExpiryExpired},
		{"2024-06-01", models.ExpiryExpiring},
		{"2024-07-01", models.ExpiryExpiring},
		{"2024-07-02", models.ExpiryValid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyExpiry(tt.expiry, today, 30), tt.expiry)
	}
}
