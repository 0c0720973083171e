package coords

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/patchgrid/internal/fixtures"
	"github.com/banshee-data/patchgrid/internal/fsutil"
	"github.com/banshee-data/patchgrid/internal/grid"
	"github.com/banshee-data/patchgrid/internal/monitoring"
	"github.com/banshee-data/patchgrid/internal/store"
)

func TestJSONSource_Fixture(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	mem.Put("/data/sample.json", fixtures.SamplePointsJSON())

	cs, err := Load(mem, "/data/sample.json")
	require.NoError(t, err)
	if diff := cmp.Diff(fixtures.MustSamplePoints(), cs); diff != "" {
		t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_HashInNonStorePath(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	mem.Put("/data/run#2/coords.json", fixtures.SamplePointsJSON())
	mem.Put("/data/run#2/coords.csv", []byte("x,y\n1,2\n"))

	cs, err := Load(mem, "/data/run#2/coords.json")
	require.NoError(t, err)
	assert.Len(t, cs, 34)

	cs, err = Load(mem, "/data/run#2/coords.csv")
	require.NoError(t, err)
	assert.Equal(t, grid.CoordinateSet{{X: 1, Y: 2}}, cs)
}

func TestStorePath(t *testing.T) {
	tests := []struct {
		in, file, slide string
	}{
		{"coords.db#s1", "coords.db", "s1"},
		{"/a/b.SQLITE#x#y", "/a/b.SQLITE#x#y", ""},
		{"/a/b.sqlite3#x", "/a/b.sqlite3", "x"},
		{"coords.db", "coords.db", ""},
		{"/data/run#2/coords.json", "/data/run#2/coords.json", ""},
		{"/data/run#2.db/c.csv", "/data/run#2.db/c.csv", ""},
	}
	for _, tt := range tests {
		file, slide := StorePath(tt.in)
		assert.Equal(t, tt.file, file, tt.in)
		assert.Equal(t, tt.slide, slide, tt.in)
	}
}

func TestJSONSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"points": [[1, 2]]}`},
		{"wrong shape", `{"coords": [[1, 2, 3]]}`},
		{"not integers", `{"coords": [["a", "b"]]}`},
		{"not json", `coords: 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := fsutil.NewMemoryFileSystem()
			mem.Put("c.json", []byte(tt.body))

			_, err := Load(mem, "c.json")
			assert.True(t, errors.Is(err, grid.ErrSourceUnreadable), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(fsutil.NewMemoryFileSystem(), "/nope/coords.json")
	assert.True(t, errors.Is(err, grid.ErrSourceUnreadable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSourceFor_UnsupportedExtension(t *testing.T) {
	_, err := SourceFor(fsutil.NewMemoryFileSystem(), "coords.npy")
	assert.True(t, errors.Is(err, grid.ErrSourceUnreadable))
}

func TestSourceFor_Dispatch(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	cases := map[string]interface{}{
		"a.JSON":         &JSONSource{},
		"a.csv":          &TableSource{},
		"a.db#slide":     &StoreSource{},
		"a.sqlite":       &StoreSource{},
		"patches/a.h5":   HDF5Source{},
		"patches/a.hdf5": HDF5Source{},
	}
	for path, want := range cases {
		src, err := SourceFor(mem, path)
		require.NoError(t, err, path)
		assert.IsType(t, want, src, path)
	}
}

func TestTable_RoundTrip(t *testing.T) {
	cs := fixtures.MustSamplePoints()
	cs = append(cs, cs[0]) // duplicates survive

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, cs))

	assert.True(t, strings.HasPrefix(buf.String(), "x,y\n160,20778\n"))

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(cs, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_EmptySet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, nil))
	assert.Equal(t, "x,y\n", buf.String())

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadTable_ColumnsByName(t *testing.T) {
	got, err := ReadTable(strings.NewReader("idx,y,x\n0,20,10\n1,40,30\n"))
	require.NoError(t, err)
	assert.Equal(t, grid.CoordinateSet{{X: 10, Y: 20}, {X: 30, Y: 40}}, got)
}

func TestReadTable_Errors(t *testing.T) {
	for name, body := range map[string]string{
		"empty":      "",
		"no y":       "x,z\n1,2\n",
		"bad x":      "x,y\nfoo,2\n",
		"bad y":      "x,y\n1,bar\n",
		"short line": "x,y\n1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestSaveTable(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	cs := grid.CoordinateSet{{X: 1, Y: 2}, {X: 3, Y: 4}}

	require.NoError(t, SaveTable(mem, "/out/coords.csv", cs))
	assert.True(t, mem.Exists("/out"))

	got, err := Load(mem, "/out/coords.csv")
	require.NoError(t, err)
	assert.Equal(t, cs, got)
}

func TestSaveTable_WriteFailure(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	mem.CreateErr = fs.ErrPermission

	err := SaveTable(mem, "/ro/coords.csv", grid.CoordinateSet{{X: 1, Y: 2}})
	assert.True(t, errors.Is(err, grid.ErrOutputWrite))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

// failingFS creates files whose writes fail after the file exists.
type failingFS struct {
	*fsutil.MemoryFileSystem
}

func (f failingFS) Create(name string) (io.WriteCloser, error) {
	w, err := f.MemoryFileSystem.Create(name)
	if err != nil {
		return nil, err
	}
	return failingWriter{w}, nil
}

type failingWriter struct {
	io.WriteCloser
}

func (failingWriter) Write([]byte) (int, error) { return 0, fs.ErrClosed }

func TestSaveTable_RemovesPartialTable(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()

	err := SaveTable(failingFS{mem}, "/out/coords.csv", grid.CoordinateSet{{X: 1, Y: 2}})
	assert.True(t, errors.Is(err, grid.ErrOutputWrite))
	assert.True(t, errors.Is(err, fs.ErrClosed))
	assert.False(t, mem.Exists("/out/coords.csv"))
}

func TestStoreSource(t *testing.T) {
	_, restore := monitoring.Capture()
	defer restore()

	path := filepath.Join(t.TempDir(), "coords.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	cstore := store.NewCoordinateStore(db.DB)
	require.NoError(t, cstore.Save("only", "", fixtures.MustSamplePoints()))
	require.NoError(t, db.Close())

	var osfs fsutil.OSFileSystem

	cs, err := Load(osfs, path)
	require.NoError(t, err)
	assert.Len(t, cs, 34)

	cs, err = Load(osfs, path+"#only")
	require.NoError(t, err)
	assert.Len(t, cs, 34)

	_, err = Load(osfs, path+"#other")
	assert.True(t, errors.Is(err, grid.ErrSourceUnreadable))
	assert.True(t, errors.Is(err, store.ErrSlideNotFound))
}

func TestStoreSource_AmbiguousAndMissing(t *testing.T) {
	_, restore := monitoring.Capture()
	defer restore()

	path := filepath.Join(t.TempDir(), "coords.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	cstore := store.NewCoordinateStore(db.DB)
	require.NoError(t, cstore.Save("a", "", grid.CoordinateSet{{X: 1, Y: 1}}))
	require.NoError(t, cstore.Save("b", "", grid.CoordinateSet{{X: 2, Y: 2}}))
	require.NoError(t, db.Close())

	var osfs fsutil.OSFileSystem
	_, err = Load(osfs, path)
	assert.True(t, errors.Is(err, grid.ErrSourceUnreadable))

	missing := filepath.Join(t.TempDir(), "absent.db")
	_, err = Load(osfs, missing)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, osfs.Exists(missing), "reading must not create the database")
}
