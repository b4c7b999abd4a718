package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

// RunSummary describes one persisted classification run.
type RunSummary struct {
	CreatedAt time.Time
	Source    string
	Counts    map[model.Persona]int
	ID        int64
	RowCount  int
	Q75       float64
	Median    float64
}

// SaveRun persists a classification run: metadata, per-persona
// aggregates, and every classified record. The progress callback, when
// non-nil, is invoked per record saved.
func (s *SQLiteStorage) SaveRun(ctx context.Context, source string, records []model.Record, th model.Thresholds, progress func(done, total int)) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, row_count, q75, median) VALUES (?, ?, ?, ?)`,
		source, len(records), th.Q75, th.Median)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, p := range model.AllPersonas() {
		avg := view.PersonaAverages(records, p)
		if avg.Count == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_personas (run_id, persona, count, avg_engagement, avg_persistence, avg_exposure)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, string(p), avg.Count, avg.Engagement, avg.Persistence, avg.Exposure); err != nil {
			return 0, fmt.Errorf("failed to insert persona aggregate: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_records (run_id, row_idx, campaign, previous, duration, housing, loan,
		                          engagement, persistence, exposure, persona)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Row, r.Campaign, r.Previous, r.Duration,
			r.Housing, r.Loan, r.Engagement, r.Persistence, r.Exposure, string(r.Persona)); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", r.Row, err)
		}
		if progress != nil {
			progress(i+1, len(records))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all persisted runs, newest first, with their
// per-persona counts.
func (s *SQLiteStorage) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, row_count, q75, median, created_at FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Source, &r.RowCount, &r.Q75, &r.Median, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range out {
		counts, err := s.runCounts(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Counts = counts
	}
	return out, nil
}

// GetRun loads one persisted run by id.
func (s *SQLiteStorage) GetRun(ctx context.Context, runID int64) (*RunSummary, error) {
	var r RunSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, row_count, q75, median, created_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.Source, &r.RowCount, &r.Q75, &r.Median, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d: %w", runID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", runID, err)
	}

	counts, err := s.runCounts(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Counts = counts
	return &r, nil
}

// GetRunRecords loads the classified records of one run, in row order.
// An unknown run id yields ErrNotFound.
func (s *SQLiteStorage) GetRunRecords(ctx context.Context, runID int64) ([]model.Record, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_idx, campaign, previous, duration, housing, loan,
		        engagement, persistence, exposure, persona
		 FROM run_records WHERE run_id = ? ORDER BY row_idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		var r model.Record
		var persona string
		if err := rows.Scan(&r.Row, &r.Campaign, &r.Previous, &r.Duration, &r.Housing, &r.Loan,
			&r.Engagement, &r.Persistence, &r.Exposure, &persona); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Persona = model.Persona(persona)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return out, nil
}

func (s *SQLiteStorage) runCounts(ctx context.Context, runID int64) (map[model.Persona]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT persona, count FROM run_personas WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query persona counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Persona]int, 4)
	for rows.Next() {
		var persona string
		var count int
		if err := rows.Scan(&persona, &count); err != nil {
			return nil, fmt.Errorf("failed to scan persona count: %w", err)
		}
		counts[model.Persona(persona)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persona counts: %w", err)
	}
	return counts, nil
}
