// Package store persists games and their weekly summaries in Postgres. Game
// state travels as one JSONB document; the committed turn is the unit of
// durability, so state and summary land in a single transaction.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backbeat/internal/sim"
)

var ErrDuplicateTurn = errors.New("turn already committed for idempotency key")

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, log: logger}
}

func (s *Store) CreateGame(ctx context.Context, st *sim.GameState) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, week, state, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		st.ID, st.Week, body)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// LoadGame fetches a game and runs the load-time repair pass before handing
// the state out. Repairs are logged but not written back; the next committed
// turn persists the corrected state.
func (s *Store) LoadGame(ctx context.Context, gameID string) (*sim.GameState, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM games WHERE id = $1`, gameID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", sim.ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	var st sim.GameState
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("unmarshal game %s: %w", gameID, err)
	}
	if repairs := sim.RepairState(&st); len(repairs) > 0 {
		s.log.Warn("state repaired on load", "game", gameID, "repairs", len(repairs))
	}
	return &st, nil
}

// SaveTurn commits a resolved week: the new state, its summary row, and the
// idempotency key, all or nothing. A replayed key aborts with
// ErrDuplicateTurn before anything is written.
func (s *Store) SaveTurn(ctx context.Context, st *sim.GameState, sum *sim.WeekSummary, idemKey string) error {
	stateBody, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	sumBody, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin turn tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if idemKey != "" {
		tag, err := tx.Exec(ctx, `
			INSERT INTO turn_keys (game_id, idempotency_key, week)
			VALUES ($1, $2, $3)
			ON CONFLICT (game_id, idempotency_key) DO NOTHING`,
			st.ID, idemKey, sum.Week)
		if err != nil {
			return fmt.Errorf("record turn key: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateTurn, idemKey)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE games SET week = $2, state = $3, updated_at = now()
		WHERE id = $1`,
		st.ID, st.Week, stateBody)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", sim.ErrGameNotFound, st.ID)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO week_summaries (game_id, week, summary, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (game_id, week) DO UPDATE SET summary = EXCLUDED.summary`,
		st.ID, sum.Week, sumBody); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}
	return nil
}

// Summaries returns up to limit recent week summaries, newest first.
func (s *Store) Summaries(ctx context.Context, gameID string, limit int) ([]sim.WeekSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT summary FROM week_summaries
		WHERE game_id = $1
		ORDER BY week DESC
		LIMIT $2`,
		gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []sim.WeekSummary
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		var sum sim.WeekSummary
		if err := json.Unmarshal(body, &sum); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Summary returns a single week's summary.
func (s *Store) Summary(ctx context.Context, gameID string, week int) (*sim.WeekSummary, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `
		SELECT summary FROM week_summaries WHERE game_id = $1 AND week = $2`,
		gameID, week).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s week %d", sim.ErrGameNotFound, gameID, week)
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	var sum sim.WeekSummary
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &sum, nil
}
