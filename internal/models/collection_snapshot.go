package models

import "time"

// CollectionSnapshot holds the last written state of one in-memory collection.
type CollectionSnapshot struct {
	Name      string `gorm:"primaryKey;size:50"`
	Data      string `gorm:"type:jsonb;not null"`
	Sequence  int    `gorm:"not null;default:0"` // last generated id number
	UpdatedAt time.Time
}
