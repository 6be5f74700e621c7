package store

import (
	"context"
	"fmt"
	"time"
)

// CorpusRecord is one persisted training example. Payload holds the full
// JSON record; passage_id, label and gen_mode are denormalized for
// filtering and counting.
type CorpusRecord struct {
	ID        int64
	PassageID string
	Label     string
	GenMode   string
	Payload   []byte
	CreatedAt time.Time
}

// AppendCorpus inserts one record and returns its row id.
func (s *Store) AppendCorpus(ctx context.Context, rec CorpusRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO corpus_records (passage_id, label, gen_mode, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.PassageID, rec.Label, rec.GenMode, rec.Payload,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("append corpus record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append corpus record: %w", err)
	}
	return id, nil
}

// ListCorpus returns records insertion-ordered. An empty label matches all.
func (s *Store) ListCorpus(ctx context.Context, label string) ([]CorpusRecord, error) {
	query := `
		SELECT id, passage_id, label, gen_mode, payload, created_at
		FROM corpus_records`
	args := []any{}
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}
	defer rows.Close()

	var out []CorpusRecord
	for rows.Next() {
		var rec CorpusRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.PassageID, &rec.Label, &rec.GenMode, &rec.Payload, &created); err != nil {
			return nil, fmt.Errorf("list corpus: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountCorpusByLabel returns record counts keyed by label.
func (s *Store) CountCorpusByLabel(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, COUNT(*) FROM corpus_records GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("count corpus: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("count corpus: %w", err)
		}
		out[label] = n
	}
	return out, rows.Err()
}
