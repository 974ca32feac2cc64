package store

import (
	"database/sql"
	"errors"
	"time"
)

// Result is a solved puzzle.
type Result struct {
	ID         string
	Discs      int
	Moves      int
	Duration   time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
}

// ResultRepository provides access to finished game results.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

const resultColumns = `id, discs, moves, duration_ms, started_at, finished_at`

// Create inserts a result.
func (r *ResultRepository) Create(res *Result) error {
	_, err := r.db.Exec(
		`INSERT INTO results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.Discs, res.Moves, res.Duration.Milliseconds(), res.StartedAt.UTC(), res.FinishedAt.UTC(),
	)
	return err
}

// GetByID retrieves a result by its ID.
func (r *ResultRepository) GetByID(id string) (*Result, error) {
	row := r.db.QueryRow(`SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	res, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// List returns the most recently finished results first. A non-positive
// limit returns all of them.
func (r *ResultRepository) List(limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT `+resultColumns+` FROM results ORDER BY finished_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Best returns the best result for a disc count: fewest moves, then fastest.
func (r *ResultRepository) Best(discs int) (*Result, error) {
	row := r.db.QueryRow(
		`SELECT `+resultColumns+` FROM results WHERE discs = ?
		 ORDER BY moves ASC, duration_ms ASC LIMIT 1`,
		discs,
	)
	res, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// Count returns the number of stored results.
func (r *ResultRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}

// Delete removes a result by its ID.
func (r *ResultRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*Result, error) {
	res := &Result{}
	var durationMs int64
	if err := s.Scan(&res.ID, &res.Discs, &res.Moves, &durationMs, &res.StartedAt, &res.FinishedAt); err != nil {
		return nil, err
	}
	res.Duration = time.Duration(durationMs) * time.Millisecond
	return res, nil
}
