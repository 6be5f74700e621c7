package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRecord is a persisted session row. Payload carries the full
// serialized session state; status and current_turn are denormalized for
// listing without decoding payloads.
type SessionRecord struct {
	ID          string
	Status      string
	CurrentTurn int
	Payload     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveSession inserts or replaces a session row.
func (s *Store) SaveSession(ctx context.Context, rec SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, status, current_turn, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			current_turn = excluded.current_turn,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Status, rec.CurrentTurn, rec.Payload,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// LoadSession fetches one session row by id.
func (s *Store) LoadSession(ctx context.Context, id string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, current_turn, payload, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("load session %s: %w", id, err)
	}
	return rec, nil
}

// ListSessions returns sessions newest first, up to limit.
// A non-positive limit returns everything.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, current_turn, payload, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var created, updated string
	if err := row.Scan(&rec.ID, &rec.Status, &rec.CurrentTurn, &rec.Payload, &created, &updated); err != nil {
		return SessionRecord{}, err
	}
	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return SessionRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return SessionRecord{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, nil
}
