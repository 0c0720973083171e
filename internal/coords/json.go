package coords

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
)

// JSONSource reads {"coords": [[x, y], ...]} documents.
type JSONSource struct {
	FS fsutil.FileSystem
}

// Load implements Source.
func (s *JSONSource) Load(path string) (grid.CoordinateSet, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	defer f.Close()

	var doc map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, unreadable(path, fmt.Errorf("decode: %w", err))
	}
	raw, ok := doc[FieldName]
	if !ok {
		return nil, unreadable(path, errors.New(`missing "coords" field`))
	}

	var rows [][]int
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, unreadable(path, fmt.Errorf("decode coords: %w", err))
	}
	cs, err := fromRows(rows)
	if err != nil {
		return nil, unreadable(path, err)
	}
	return cs, nil
}
