package coords

import (
	"fmt"
	"io/fs"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/store"
)

// StoreSource reads coordinates from a SQLite store written by
// "patchgrid import". The path is "file.db#slide"; the slide may be omitted
// when the store holds exactly one.
type StoreSource struct {
	FS fsutil.FileSystem
}

// Load implements Source.
func (s *StoreSource) Load(path string) (grid.CoordinateSet, error) {
	file, slide := StorePath(path)
	// sqlite would happily create a missing file.
	if !s.FS.Exists(file) {
		return nil, unreadable(path, fs.ErrNotExist)
	}

	db, err := store.OpenReadOnly(file)
	if err != nil {
		return nil, unreadable(path, err)
	}
	defer db.Close()

	cstore := store.NewCoordinateStore(db.DB)
	if slide == "" {
		slides, err := cstore.Slides()
		if err != nil {
			return nil, unreadable(path, err)
		}
		if len(slides) != 1 {
			return nil, unreadable(path, fmt.Errorf("store holds %d slides, name one with #<slide>", len(slides)))
		}
		slide = slides[0].SlideID
	}

	cs, err := cstore.Load(slide)
	if err != nil {
		return nil, unreadable(path, err)
	}
	return cs, nil
}
