package database

import (
	"inventario-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Append(entry models.AuditEntry) error {
	return r.db.Create(&entry).Error
}

// List returns every stored entry, oldest first.
func (r *AuditRepo) List() ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := r.db.Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
