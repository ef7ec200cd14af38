package inventory

import (
	"strings"

	"inventario-backend/internal/models"
	"inventario-backend/internal/store"
)

const batchIDPrefix = "ORD"

type (
	ProductStore  = store.Collection[string, models.Product]
	BatchStore    = store.Collection[string, models.Batch]
	OrderStore    = store.Collection[string, models.Order]
	MovementStore = store.Collection[int, models.Movement]
)

func NewProductStore() *ProductStore {
	return store.New("products", func(p models.Product) string { return p.Name }).
		WithValidator(validateProduct)
}

func validateProduct(p models.Product) error {
	if err := store.Required("name", p.Name); err != nil {
		return err
	}
	// names are path segments in /api/productos/:name
	if strings.Contains(p.Name, "/") {
		return store.Invalid("name", "must not contain '/'")
	}
	if p.Status != models.StatusActive && p.Status != models.StatusInactive {
		return store.Invalid("status", "must be Active or Inactive")
	}
	if p.Stock < 0 {
		return store.Invalid("stock", "must not be negative")
	}
	if p.MinStock < 0 {
		return store.Invalid("min_stock", "must not be negative")
	}
	return validDate("expiry", p.Expiry)
}

// NewBatchStore and NewOrderStore share the ORD-NNN id format; each keeps its
// own sequence.
func NewBatchStore() *BatchStore {
	return store.New("batches", func(b models.Batch) string { return b.ID }).
		WithValidator(func(b models.Batch) error {
			if err := store.Required("product", b.Product); err != nil {
				return err
			}
			if err := validDate("intake_date", b.IntakeDate); err != nil {
				return err
			}
			return validDate("expiry", b.Expiry)
		}).
		WithSequence(
			func(b *models.Batch, n int) { b.ID = store.FormatID(batchIDPrefix, n) },
			func(b models.Batch) int { return store.ParseID(b.ID) },
		)
}

func NewOrderStore() *OrderStore {
	return store.New("orders", func(o models.Order) string { return o.ID }).
		WithValidator(func(o models.Order) error {
			if err := store.Required("product", o.Product); err != nil {
				return err
			}
			if err := validQuantity(o.Quantity); err != nil {
				return err
			}
			return validDate("estimated_date", o.EstimatedDate)
		}).
		WithSequence(
			func(o *models.Order, n int) { o.ID = store.FormatID(batchIDPrefix, n) },
			func(o models.Order) int { return store.ParseID(o.ID) },
		)
}

func NewMovementStore() *MovementStore {
	return store.New("movements", func(m models.Movement) int { return m.ID }).
		WithSequence(
			func(m *models.Movement, n int) { m.ID = n },
			func(m models.Movement) int { return m.ID },
		)
}
