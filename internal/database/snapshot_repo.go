package database

import (
	"errors"
	"time"

	"inventario-backend/internal/models"
	"inventario-backend/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepo keeps one row per collection holding its JSON contents and
// id sequence.
type SnapshotRepo struct {
	db *gorm.DB
}

var _ store.Persister = (*SnapshotRepo)(nil)

func NewSnapshotRepo(db *gorm.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func (r *SnapshotRepo) Load(name string) ([]byte, int, bool, error) {
	var snap models.CollectionSnapshot
	err := r.db.First(&snap, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	return []byte(snap.Data), snap.Sequence, true, nil
}

func (r *SnapshotRepo) Save(name string, data []byte, sequence int) error {
	snap := models.CollectionSnapshot{
		Name:      name,
		Data:      string(data),
		Sequence:  sequence,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error
}
