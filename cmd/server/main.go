package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventario-backend/internal/config"
	"inventario-backend/internal/database"
	"inventario-backend/internal/logger"
	"inventario-backend/internal/server"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.Init(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	var db *gorm.DB
	if cfg.DatabaseDSN != "" {
		db, err = database.Open(cfg.DatabaseDSN, zl)
		if err != nil {
			zl.Fatal("database connection failed", zap.Error(err))
		}
		zl.Info("database connected, collections are persisted")
	} else {
		zl.Warn("DATABASE_DSN not set, data lives in memory only")
	}

	deps, err := server.Build(cfg, zl, db)
	if err != nil {
		zl.Fatal("startup failed", zap.Error(err))
	}
	app := server.New(deps)

	go func() {
		zl.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zl.Error("shutdown failed", zap.Error(err))
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
