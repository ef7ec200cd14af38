package server

import (
	"fmt"
	"time"

	"inventario-backend/internal/audit"
	"inventario-backend/internal/config"
	"inventario-backend/internal/database"
	"inventario-backend/internal/inventory"
	"inventario-backend/internal/material"
	"inventario-backend/internal/metrics"
	"inventario-backend/internal/seed"
	"inventario-backend/internal/supplier"
	"inventario-backend/internal/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. Each collection has exactly one
// owner, reached through the services here.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Inventory *inventory.Service
	Batches   *inventory.Batches
	Orders    *inventory.Orders
	Providers *supplier.Service
	Materials *material.Service
	Users     *users.Service
	Audit     *audit.Trail
}

type loader interface {
	Name() string
	Load() error
}

// Build creates the stores, seeds them when configured, and, with a
// database, restores their last snapshots and persists every change.
func Build(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*Deps, error) {
	if log == nil {
		log = zap.NewNop()
	}

	products := inventory.NewProductStore()
	movements := inventory.NewMovementStore()
	batches := inventory.NewBatchStore()
	orders := inventory.NewOrderStore()
	providers := supplier.NewStore()
	materials := material.NewStore()
	accounts := users.NewStore()

	if cfg.SeedDemoData {
		products.Seed(seed.Products())
		batches.Seed(seed.Batches())
		orders.Seed(seed.Orders())
		providers.Seed(seed.Providers())
		materials.Seed(seed.Materials())
		accounts.Seed(seed.Users(time.Now()))
	}

	var sink audit.Sink
	if db != nil {
		snapshots := database.NewSnapshotRepo(db)
		loaders := []loader{
			products.WithPersister(snapshots, log),
			movements.WithPersister(snapshots, log),
			batches.WithPersister(snapshots, log),
			orders.WithPersister(snapshots, log),
			providers.WithPersister(snapshots, log),
			materials.WithPersister(snapshots, log),
			accounts.WithPersister(snapshots, log),
		}
		for _, l := range loaders {
			if err := l.Load(); err != nil {
				return nil, fmt.Errorf("restore %s: %w", l.Name(), err)
			}
		}
		sink = database.NewAuditRepo(db)
	}

	trail := audit.NewTrail(sink, log)
	if repo, ok := sink.(*database.AuditRepo); ok {
		entries, err := repo.List()
		if err != nil {
			return nil, fmt.Errorf("restore audit: %w", err)
		}
		trail.Restore(entries)
	}

	m := metrics.New("inventario")
	accountSvc := users.NewService(accounts)
	return &Deps{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		Inventory: inventory.NewService(products, movements,
			inventory.WithDefaultCategory(cfg.DefaultCategory),
			inventory.WithRecorder(m),
		),
		Batches:   inventory.NewBatches(batches, nil).WithWindow(cfg.AlertWindowDays),
		Orders:    inventory.NewOrders(orders),
		Providers: supplier.NewService(providers),
		Materials: material.NewService(materials, accountSvc),
		Users:     accountSvc,
		Audit:     trail,
	}, nil
}
