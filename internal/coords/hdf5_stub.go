//go:build !hdf5

package coords

import (
	"errors"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// HDF5Source reads HDF5 patch files. This build was compiled without the
// hdf5 tag, so every load fails.
type HDF5Source struct{}

// Load implements Source.
func (HDF5Source) Load(path string) (grid.CoordinateSet, error) {
	return nil, unreadable(path, errors.New("HDF5 support not compiled in; rebuild with -tags hdf5 or convert to .json/.csv"))
}
