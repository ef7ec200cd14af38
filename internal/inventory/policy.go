package inventory

import (
	"errors"
	"fmt"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/store"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError is returned when a stock-out asks for more than the
// product holds. The product is left untouched.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.Product, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// MergeExpiry keeps the later of two ISO dates. An empty incoming date keeps
// the current one.
func MergeExpiry(current, incoming string) string {
	if incoming > current {
		return incoming
	}
	return current
}

func applyStockIn(p *models.Product, quantity int, expiry string) {
	p.Stock += quantity
	p.Expiry = MergeExpiry(p.Expiry, expiry)
}

func applyStockOut(p *models.Product, quantity int) error {
	if p.Stock-quantity < 0 {
		return &InsufficientStockError{Product: p.Name, Available: p.Stock, Requested: quantity}
	}
	p.Stock -= quantity
	return nil
}

// validStockQuantity accepts zero; moving zero units leaves the stock as it is.
func validStockQuantity(q int) error {
	if q < 0 {
		return store.Invalid("quantity", "must not be negative")
	}
	return nil
}

func validQuantity(q int) error {
	if q <= 0 {
		return store.Invalid("quantity", "must be greater than zero")
	}
	return nil
}

// validDate accepts an empty value or a YYYY-MM-DD calendar date.
func validDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return store.Invalid(field, "must be a YYYY-MM-DD date")
	}
	return nil
}
