package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// ErrSlideNotFound is returned when a slide id has no stored coordinates.
var ErrSlideNotFound = errors.New("slide not found")

// Slide describes one stored coordinate set.
type Slide struct {
	SlideID    string `json:"slide_id"`
	SourcePath string `json:"source_path"`
	PointCount int    `json:"point_count"`
	CreatedAt  int64  `json:"created_at"`
}

// CoordinateStore persists patch coordinates per slide, preserving input order.
type CoordinateStore struct {
	db *sql.DB
}

// NewCoordinateStore creates a CoordinateStore on a migrated database.
func NewCoordinateStore(db *sql.DB) *CoordinateStore {
	return &CoordinateStore{db: db}
}

// Save replaces the coordinates stored for slideID.
func (s *CoordinateStore) Save(slideID, sourcePath string, cs grid.CoordinateSet) (err error) {
	if slideID == "" {
		return fmt.Errorf("slide id is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM patch_coords WHERE slide_id = ?`, slideID); err != nil {
		return fmt.Errorf("clear coordinates: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO slides (slide_id, source_path, point_count, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slide_id) DO UPDATE SET
			source_path = excluded.source_path,
			point_count = excluded.point_count,
			created_at  = excluded.created_at`,
		slideID, sourcePath, len(cs), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert slide: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO patch_coords (slide_id, idx, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cs {
		if _, err = stmt.Exec(slideID, i, c.X, c.Y); err != nil {
			return fmt.Errorf("insert coordinate %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns the coordinates for slideID in the order they were saved.
func (s *CoordinateStore) Load(slideID string) (grid.CoordinateSet, error) {
	var count int
	err := s.db.QueryRow(`SELECT point_count FROM slides WHERE slide_id = ?`, slideID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
	}
	if err != nil {
		return nil, fmt.Errorf("query slide: %w", err)
	}

	rows, err := s.db.Query(`SELECT x, y FROM patch_coords WHERE slide_id = ? ORDER BY idx`, slideID)
	if err != nil {
		return nil, fmt.Errorf("query coordinates: %w", err)
	}
	defer rows.Close()

	cs := make(grid.CoordinateSet, 0, count)
	for rows.Next() {
		var c grid.Coordinate
		if err := rows.Scan(&c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("scan coordinate: %w", err)
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// Slides lists stored slides ordered by id.
func (s *CoordinateStore) Slides() ([]Slide, error) {
	rows, err := s.db.Query(`SELECT slide_id, source_path, point_count, created_at FROM slides ORDER BY slide_id`)
	if err != nil {
		return nil, fmt.Errorf("query slides: %w", err)
	}
	defer rows.Close()

	var slides []Slide
	for rows.Next() {
		var sl Slide
		if err := rows.Scan(&sl.SlideID, &sl.SourcePath, &sl.PointCount, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		slides = append(slides, sl)
	}
	return slides, rows.Err()
}

// Delete removes a slide and its coordinates.
func (s *CoordinateStore) Delete(slideID string) error {
	res, err := s.db.Exec(`DELETE FROM slides WHERE slide_id = ?`, slideID)
	if err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
	}
	return nil
}
