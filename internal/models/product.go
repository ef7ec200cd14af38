package models

import "strconv"

// DateLayout is the ISO calendar date used for expiry and intake dates.
// Dates are kept as strings so lexicographic order equals chronological order.
const DateLayout = "2006-01-02"

const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// Product is an inventory line, identified by its name.
type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Expiry   string `json:"expiry"`
	Status   string `json:"status"`
	Unit     string `json:"unit"`      // kg, unidad, caja...
	MinStock int    `json:"min_stock"` // 0 disables the low stock alert
}

func (p Product) SearchFields() []string {
	return []string{
		p.Name,
		p.Category,
		strconv.Itoa(p.Stock),
		p.Expiry,
		p.Status,
		p.Unit,
		strconv.Itoa(p.MinStock),
	}
}
