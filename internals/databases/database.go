package database

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"eventhub_backend/internals/configs"
)

// Connect opens the postgres pool described by cfg.
func Connect(cfg *configs.Config, log *slog.Logger) (*gorm.DB, error) {
	log.Info("connecting to PostgreSQL", "host", cfg.Database.Host, "db", cfg.Database.Name)

	level := gormLogger.Warn
	if cfg.IsDevelopment() {
		level = gormLogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling friendly
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(log, level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := TunePool(db); err != nil {
		return nil, err
	}
	log.Info("✅ DB connected")
	return db, nil
}

func TunePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// WarmUp pings the pool in the background so the first request does not pay
// for the initial connection.
func WarmUp(db *gorm.DB, log *slog.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Warn("warm-up ping failed", "err", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
