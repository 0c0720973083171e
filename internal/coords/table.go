package coords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/monitoring"
)

// TableHeader is the coordinate table's column row.
var TableHeader = []string{"x", "y"}

// WriteTable writes cs as a two-column x,y table in input order.
func WriteTable(w io.Writer, cs grid.CoordinateSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader); err != nil {
		return err
	}
	for _, c := range cs {
		if err := cw.Write([]string{strconv.Itoa(c.X), strconv.Itoa(c.Y)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable parses a table written by WriteTable. Columns are located by
// header name, so extra columns are ignored.
func ReadTable(r io.Reader) (grid.CoordinateSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	xi, yi := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "x":
			xi = i
		case "y":
			yi = i
		}
	}
	if xi < 0 || yi < 0 {
		return nil, fmt.Errorf("header %q lacks x and y columns", header)
	}

	var cs grid.CoordinateSet
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= max(xi, yi) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(xi, yi)+1, len(rec))
		}
		x, err := strconv.Atoi(strings.TrimSpace(rec[xi]))
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(rec[yi]))
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		cs = append(cs, grid.Coordinate{X: x, Y: y})
	}
	return cs, nil
}

// SaveTable writes the coordinate table to path, creating parent directories.
// A table that fails part way is removed. Failures wrap grid.ErrOutputWrite.
func SaveTable(fsys fsutil.FileSystem, path string, cs grid.CoordinateSet) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, err)
	}

	err = WriteTable(f, cs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		return nil
	}
	if rerr := fsys.Remove(path); rerr != nil {
		monitoring.Logf("coords: remove partial table %s: %v", path, rerr)
	}
	return fmt.Errorf("%w: %s: %w", grid.ErrOutputWrite, path, err)
}

// TableSource reads a coordinate table as a source.
type TableSource struct {
	FS fsutil.FileSystem
}

// Load implements Source.
func (s *TableSource) Load(path string) (grid.CoordinateSet, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	defer f.Close()

	cs, err := ReadTable(f)
	if err != nil {
		return nil, unreadable(path, err)
	}
	return cs, nil
}
