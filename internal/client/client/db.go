package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/Rajgupta764/legal-saarthi/internal/client/migrations"
	"github.com/Rajgupta764/legal-saarthi/internal/client/repositories/metadata"
)

// Repositories bundles the durable stores opened by InitDatabase.
type Repositories struct {
	Metadata metadata.Repository
	DB       *sql.DB
}

// Close releases the underlying database, if any.
func (r *Repositories) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}

// InitMemory returns repositories with nothing persisted across runs.
func InitMemory() *Repositories {
	return &Repositories{Metadata: metadata.NewMemoryRepository()}
}
