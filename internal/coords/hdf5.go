//go:build hdf5

package coords

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/banshee-data/patchgrid/internal/grid"
)

// HDF5Source reads the "coords" dataset of an HDF5 patch file.
type HDF5Source struct{}

// Load implements Source.
func (HDF5Source) Load(path string) (grid.CoordinateSet, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, unreadable(path, err)
	}
	defer f.Close()

	dset, err := f.OpenDataset(FieldName)
	if err != nil {
		return nil, unreadable(path, fmt.Errorf("open dataset %q: %w", FieldName, err))
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, unreadable(path, err)
	}
	if len(dims) != 2 || dims[1] != 2 {
		return nil, unreadable(path, fmt.Errorf("dataset %q has shape %v, want (N, 2)", FieldName, dims))
	}

	flat := make([]int64, dims[0]*dims[1])
	if err := dset.Read(&flat); err != nil {
		return nil, unreadable(path, fmt.Errorf("read dataset %q: %w", FieldName, err))
	}

	cs := make(grid.CoordinateSet, dims[0])
	for i := range cs {
		cs[i] = grid.Coordinate{X: int(flat[2*i]), Y: int(flat[2*i+1])}
	}
	return cs, nil
}
