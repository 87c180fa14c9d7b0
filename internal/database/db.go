package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"nirvana/internal/config"
)

type Database struct {
	*sql.DB
}

func NewPostgresDatabase(cfg config.DatabaseConfig) (Database, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool for better stability
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(time.Minute * 10)

	// Test the connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if err := db.Close(); err != nil {
			return Database{}, fmt.Errorf("failed to close database: %w", err)
		}
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to database successfully")
	return Database{DB: db}, nil
}
