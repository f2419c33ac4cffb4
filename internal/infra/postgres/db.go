package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"mock-exam-service/internal/domain"
	"mock-exam-service/internal/infra/postgres/migrations"
)

// OpenDB opens a bun handle for migrations and catalog imports.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}
	return nil
}

// UpsertRounds writes rounds as JSONB in a single transaction.
func UpsertRounds(ctx context.Context, db *bun.DB, rounds []domain.Round) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, round := range rounds {
			data, err := json.Marshal(round)
			if err != nil {
				return fmt.Errorf("marshal round %d: %w", round.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO rounds (id, data) VALUES (?, ?::jsonb)
				 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
				round.ID, string(data))
			if err != nil {
				return fmt.Errorf("upsert round %d: %w", round.ID, err)
			}
		}
		return nil
	})
}
