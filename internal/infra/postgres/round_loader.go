package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"mock-exam-service/internal/domain"
)

// RoundLoader loads round JSONB from Postgres.
type RoundLoader struct {
	pool *pgxpool.Pool
}

func NewRoundLoader(pool *pgxpool.Pool) *RoundLoader {
	return &RoundLoader{pool: pool}
}

func (l *RoundLoader) LoadRound(ctx context.Context, id int) (domain.Round, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM rounds WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Round{}, domain.ErrRoundNotFound
	}
	if err != nil {
		return domain.Round{}, fmt.Errorf("load round: %w", err)
	}
	var round domain.Round
	if err := json.Unmarshal(raw, &round); err != nil {
		return domain.Round{}, fmt.Errorf("unmarshal round: %w", err)
	}
	round.ID = id
	return round, nil
}

func (l *RoundLoader) LoadRoundIDs(ctx context.Context) ([]int, error) {
	rows, err := l.pool.Query(ctx, `SELECT id FROM rounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan round id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
