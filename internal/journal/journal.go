// internal/journal/journal.go
//
// Results journal: one row per finished game.
// The journal is write-mostly history for the /results endpoint. It is never
// read back into a live session, so a reload always starts fresh.

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robalobadob/brailledle/internal/game"
)

// Result is a finished game.
type Result struct {
	GameID     string    `json:"gameId"`
	Target     string    `json:"target"`
	Outcome    string    `json:"outcome"` // "won" | "lost"
	Turns      int       `json:"turns"`
	Guesses    []string  `json:"guesses"`
	Policy     string    `json:"policy"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Summary aggregates every recorded result.
type Summary struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
}

// Journal wraps the results table.
type Journal struct{ db *sql.DB }

// Open opens the SQLite file at dsn and applies migrations.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle.
func (j *Journal) Close() error { return j.db.Close() }

// FromSession builds a Result from a finished session.
func FromSession(s *game.Session) (Result, error) {
	if !s.State().Terminal() {
		return Result{}, fmt.Errorf("journal: session %s is still %s", s.ID, s.State())
	}
	return Result{
		GameID:     s.ID,
		Target:     s.TargetText(),
		Outcome:    string(s.State()),
		Turns:      s.Turn(),
		Guesses:    s.Guesses(),
		Policy:     s.Policy().String(),
		FinishedAt: time.Now().UTC(),
	}, nil
}

// Record inserts r. A second record for the same game is ignored.
func (j *Journal) Record(ctx context.Context, r Result) error {
	guesses, err := json.Marshal(r.Guesses)
	if err != nil {
		return err
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	_, err = j.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, target, outcome, turns, guesses, policy, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Target, r.Outcome, r.Turns, string(guesses), r.Policy,
		r.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Recent returns the newest results first. Default limit is 20.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
        SELECT game_id, target, outcome, turns, guesses, policy, finished_at
        FROM results
        ORDER BY finished_at DESC, game_id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r        Result
			guesses  string
			finished string
		)
		if err := rows.Scan(&r.GameID, &r.Target, &r.Outcome, &r.Turns, &guesses, &r.Policy, &finished); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(guesses), &r.Guesses); err != nil {
			return nil, fmt.Errorf("decode guesses for %s: %w", r.GameID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("decode finished_at for %s: %w", r.GameID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary counts results by outcome.
func (j *Journal) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := j.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(CASE WHEN outcome='won'  THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN outcome='lost' THEN 1 ELSE 0 END), 0)
        FROM results`,
	).Scan(&s.Played, &s.Won, &s.Lost)
	return s, err
}
