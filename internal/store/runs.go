package store

import (
	"fmt"
	"time"
)

// Run is the persisted summary of one reconciliation request.
type Run struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	DataInicio    string    `json:"data_inicio"`
	DataFim       string    `json:"data_fim"`
	Sellers       int       `json:"sellers"`
	Contadores    int       `json:"contadores"`
	TotalVendas   float64   `json:"total_vendas"`
	TotalComissao float64   `json:"total_comissao"`
	RowsTotal     int       `json:"rows_total"`
	RowsDropped   int       `json:"rows_dropped"`
	DurationMs    int64     `json:"duration_ms"`
}

// InsertRun records a completed run.
func (s *Store) InsertRun(run Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			id, created_at, data_inicio, data_fim,
			sellers, contadores, total_vendas, total_comissao,
			rows_total, rows_dropped, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.DataInicio, run.DataFim,
		run.Sellers, run.Contadores, run.TotalVendas, run.TotalComissao,
		run.RowsTotal, run.RowsDropped, run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, data_inicio, data_fim,
		       sellers, contadores, total_vendas, total_comissao,
		       rows_total, rows_dropped, duration_ms
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(
			&run.ID, &createdAt, &run.DataInicio, &run.DataFim,
			&run.Sellers, &run.Contadores, &run.TotalVendas, &run.TotalComissao,
			&run.RowsTotal, &run.RowsDropped, &run.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			run.CreatedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountRuns returns the total number of recorded runs and the timestamp of
// the newest one.
func (s *Store) CountRuns() (int, time.Time, error) {
	var count int
	var last string
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(created_at), '') FROM runs`).Scan(&count, &last)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count runs: %w", err)
	}

	var lastAt time.Time
	if last != "" {
		if t, err := time.Parse(time.RFC3339, last); err == nil {
			lastAt = t
		}
	}
	return count, lastAt, nil
}
