// Package seed holds the demo data loaded on a fresh start.
package seed

import (
	"time"

	"inventario-backend/internal/models"
)

func Products() []models.Product {
	return []models.Product{
		{Name: "Producto A", Category: "Medicamento", Stock: 150, Expiry: "2023-12-31", Status: models.StatusActive, Unit: "unidad", MinStock: 20},
		{Name: "Producto B", Category: "Material", Stock: 75, Expiry: "2024-06-30", Status: models.StatusActive, Unit: "unidad", MinStock: 10},
	}
}

func Batches() []models.Batch {
	return []models.Batch{
		{
			ID: "ORD-001", Product: "Mora", IntakeDate: "2025-09-15", Expiry: "2025-12-01",
			Status: models.StatusActive, Responsible: "Juan Pérez", Orders: "ORD-MORA-12", Supplies: "Cajas, Etiquetas",
		},
		{
			ID: "ORD-002", Product: "Cacao", IntakeDate: "2025-09-18", Expiry: "2025-12-15",
			Status: models.StatusInactive, Responsible: "María López", Orders: "ORD-CACAO-08", Supplies: "Sacos, Sellos",
		},
	}
}

func Orders() []models.Order {
	return []models.Order{
		{ID: "ORD-001", Product: "Cacao", Responsible: "Juan Pérez", Quantity: 100, Status: models.StatusPending},
		{ID: "ORD-002", Product: "Mora", Responsible: "María García", Quantity: 50, Status: models.StatusCompleted},
	}
}

func Providers() []models.Provider {
	return []models.Provider{
		{Name: "Juan Pérez", Phone: "3203828345", Email: "juan@example.com", Address: "Av. Siempre Viva 123, Ciudad", Status: models.StatusActive},
		{Name: "María García", Phone: "3192374583", Email: "maria@example.com", Address: "Calle Falsa 456, Pueblo", Status: models.StatusActive},
	}
}

// Users have no password; an admin sets one before they can log in.
func Users(now time.Time) []models.User {
	return []models.User{
		{ID: 1, Name: "Juan Pérez", Document: "123456789", Role: models.RoleAdmin, Status: models.StatusActive, CreatedAt: now},
		{ID: 2, Name: "María Gómez", Document: "987654321", Role: models.RoleUser, Status: models.StatusInactive, CreatedAt: now},
		{ID: 3, Name: "Carlos Ramírez", Document: "456123789", Role: models.RoleSupervisor, Status: models.StatusActive, CreatedAt: now},
		{ID: 4, Name: "Laura Torres", Document: "741852963", Role: models.RoleUser, Status: models.StatusActive, CreatedAt: now},
		{ID: 5, Name: "Andrés López", Document: "852963741", Role: models.RoleModerator, Status: models.StatusInactive, CreatedAt: now},
	}
}

func Materials() []models.Material {
	return []models.Material{
		{ID: 1, Name: "Cartón", Type: "Empaque", Quantity: 200, Unit: "unidades"},
		{ID: 2, Name: "Plástico", Type: "Botellas", Quantity: 500, Unit: "kg"},
		{ID: 3, Name: "Vidrio", Type: "Botellas", Quantity: 100, Unit: "kg"},
	}
}
