//go:build !hdf5

package coords

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
)

func TestHDF5Source_NotCompiled(t *testing.T) {
	_, err := Load(fsutil.NewMemoryFileSystem(), "patches/22811he.h5")
	assert.True(t, errors.Is(err, grid.ErrSourceUnreadable))
	assert.Contains(t, err.Error(), "-tags hdf5")
}
