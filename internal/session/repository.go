package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Result is a finished game ready for archiving.
type Result struct {
	Record   *Record
	MovesSAN []string
	PGN      string
	Result   string // 1-0 | 0-1
	Method   string
}

// Archiver stores finished games.
type Archiver interface {
	SaveResult(ctx context.Context, res *Result) error
}

// Repository archives finished games into postgres.
type Repository struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS chess_games (
	game_id       TEXT PRIMARY KEY,
	result        TEXT NOT NULL,
	result_method TEXT NOT NULL,
	moves_uci     JSONB NOT NULL,
	moves_san     JSONB NOT NULL,
	pgn           TEXT NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	ended_at      TIMESTAMPTZ NOT NULL,
	duration_ms   BIGINT NOT NULL
)`

func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts a finished game; replaying a branch that ends in a new
// mate overwrites the earlier row.
func (r *Repository) SaveResult(ctx context.Context, res *Result) error {
	if r == nil || r.db == nil || res == nil || res.Record == nil {
		return nil
	}
	rec := res.Record
	uci := make([]string, 0, rec.Cursor)
	for _, m := range rec.Moves[:rec.Cursor] {
		uci = append(uci, m.UCI())
	}
	movesUCI, err := json.Marshal(uci)
	if err != nil {
		return fmt.Errorf("marshal moves_uci: %w", err)
	}
	movesSAN, err := json.Marshal(res.MovesSAN)
	if err != nil {
		return fmt.Errorf("marshal moves_san: %w", err)
	}
	duration := rec.UpdatedAt.Sub(rec.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	const q = `INSERT INTO chess_games (
		game_id, result, result_method, moves_uci, moves_san, pgn,
		started_at, ended_at, duration_ms
	) VALUES ($1,$2,$3,$4::jsonb,$5::jsonb,$6,$7,$8,$9)
	ON CONFLICT (game_id) DO UPDATE SET
		result=EXCLUDED.result,
		result_method=EXCLUDED.result_method,
		moves_uci=EXCLUDED.moves_uci,
		moves_san=EXCLUDED.moves_san,
		pgn=EXCLUDED.pgn,
		ended_at=EXCLUDED.ended_at,
		duration_ms=EXCLUDED.duration_ms`

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, res.Result, res.Method, string(movesUCI), string(movesSAN), res.PGN,
		rec.CreatedAt, rec.UpdatedAt, duration,
	)
	return err
}
