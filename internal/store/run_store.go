package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RenderRun records one estimate-then-render pass.
type RenderRun struct {
	RunID         string `json:"run_id"`
	SlideID       string `json:"slide_id"`
	SourcePath    string `json:"source_path"`
	Pitch         int    `json:"pitch"`
	Indeterminate bool   `json:"indeterminate"`
	Candidates    int    `json:"candidates"`
	PointCount    int    `json:"point_count"`
	Mode          string `json:"mode"`
	Padding       int    `json:"padding"`
	TablePath     string `json:"table_path,omitempty"`
	ImagePath     string `json:"image_path,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// RunStore provides persistence for render runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a run. If RunID is empty, a UUID is generated.
func (s *RunStore) Insert(run *RenderRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO render_runs (
			run_id, slide_id, source_path, pitch, indeterminate, candidates,
			point_count, mode, padding, table_path, image_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SlideID, run.SourcePath, run.Pitch, run.Indeterminate, run.Candidates,
		run.PointCount, run.Mode, run.Padding, run.TablePath, run.ImagePath, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert render run: %w", err)
	}
	return nil
}

// Get returns the run with the given id, or nil if it does not exist.
func (s *RunStore) Get(runID string) (*RenderRun, error) {
	row := s.db.QueryRow(runSelect+` WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get render run: %w", err)
	}
	return run, nil
}

// ListBySlide returns runs for a slide, newest first.
func (s *RunStore) ListBySlide(slideID string) ([]*RenderRun, error) {
	rows, err := s.db.Query(runSelect+` WHERE slide_id = ? ORDER BY created_at DESC`, slideID)
	if err != nil {
		return nil, fmt.Errorf("list render runs: %w", err)
	}
	defer rows.Close()

	var runs []*RenderRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan render run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const runSelect = `
	SELECT run_id, slide_id, source_path, pitch, indeterminate, candidates,
	       point_count, mode, padding, table_path, image_path, created_at
	FROM render_runs`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(r rowScanner) (*RenderRun, error) {
	var run RenderRun
	err := r.Scan(
		&run.RunID, &run.SlideID, &run.SourcePath, &run.Pitch, &run.Indeterminate, &run.Candidates,
		&run.PointCount, &run.Mode, &run.Padding, &run.TablePath, &run.ImagePath, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
