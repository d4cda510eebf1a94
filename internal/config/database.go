package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"PicadeBackend/migrations"
)

type PostgresConfig struct {
	DSN string
}

func NewPostgresConfig() *PostgresConfig {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN not set")
	}
	return &PostgresConfig{DSN: dsn}
}

// NewPostgresDB opens the connection pool, verifies it, and runs the embedded
// goose migrations (schema plus the authoritative stored operations).
func NewPostgresDB(lc fx.Lifecycle, config *PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	log.Println("Connected to Postgres")

	if err := runMigrations(ctx, db); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			log.Println("Closing Postgres connection ...")
			return db.Close()
		},
	})
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}
	log.Println("Database migrations applied")
	return nil
}
