// Package coords reads patch coordinates from the containers the extraction
// pipeline produces and writes the flat x,y coordinate table.
//
// Every reader honours the same contract: an (N, 2) integer array stored
// under a field named "coords". Failures wrap grid.ErrSourceUnreadable.
package coords

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
)

// FieldName is the key the coordinate array is stored under.
const FieldName = "coords"

// Source loads a coordinate set from a path.
type Source interface {
	Load(path string) (grid.CoordinateSet, error)
}

// SourceFor picks a reader from the path's extension. For SQLite stores the
// path may carry a "#slide" suffix naming the slide to read.
func SourceFor(fsys fsutil.FileSystem, path string) (Source, error) {
	file, _ := StorePath(path)
	if isStore(file) {
		return &StoreSource{FS: fsys}, nil
	}
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".json":
		return &JSONSource{FS: fsys}, nil
	case ".csv":
		return &TableSource{FS: fsys}, nil
	case ".h5", ".hdf5":
		return HDF5Source{}, nil
	default:
		return nil, unreadable(path, fmt.Errorf("unsupported source extension %q", ext))
	}
}

// Load reads path with the reader SourceFor selects.
func Load(fsys fsutil.FileSystem, path string) (grid.CoordinateSet, error) {
	src, err := SourceFor(fsys, path)
	if err != nil {
		return nil, err
	}
	return src.Load(path)
}

func unreadable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", grid.ErrSourceUnreadable, path, err)
}

// StorePath splits a "file.db#slide" store path into the database file and
// the slide id. Only SQLite store paths carry a slide; any other path,
// including one with '#' in a directory or file name, is returned whole.
func StorePath(path string) (file, slide string) {
	if i := strings.LastIndexByte(path, '#'); i >= 0 && isStore(path[:i]) {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func isStore(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// fromRows validates an (N, 2) array.
func fromRows(rows [][]int) (grid.CoordinateSet, error) {
	cs := make(grid.CoordinateSet, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("row %d has %d values, want 2", i, len(row))
		}
		cs = append(cs, grid.Coordinate{X: row[0], Y: row[1]})
	}
	return cs, nil
}
