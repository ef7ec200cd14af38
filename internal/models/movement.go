package models

import (
	"strconv"
	"time"
)

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Movement records one stock-in or stock-out applied to a product.
type Movement struct {
	ID          int          `json:"id"`
	Type        MovementType `json:"type"`
	Product     string       `json:"product"`
	Quantity    int          `json:"quantity"`
	StockBefore int          `json:"stock_before"`
	StockAfter  int          `json:"stock_after"`
	Expiry      string       `json:"expiry"`
	Batch       string       `json:"batch"`
	Provider    string       `json:"provider"`
	Reason      string       `json:"reason"`
	Responsible string       `json:"responsible"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (m Movement) SearchFields() []string {
	return []string{
		strconv.Itoa(m.ID),
		string(m.Type),
		m.Product,
		strconv.Itoa(m.Quantity),
		m.Expiry,
		m.Batch,
		m.Provider,
		m.Reason,
		m.Responsible,
		m.Notes,
		m.CreatedAt.Format(DateLayout),
	}
}
