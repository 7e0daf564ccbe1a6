package palettedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/pal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *DB {
	db, err := Open(filepath.Join(t.TempDir(), "palettes.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func colorMap(t *testing.T, colors ...gifalloc.Color) *gifalloc.ColorMap {
	cm, err := gifalloc.MakeColorMap(len(colors), colors)
	require.NoError(t, err)
	return cm
}

func TestPutGet(t *testing.T) {
	db := open(t)

	a := colorMap(t, gifalloc.Color{R: 1}, gifalloc.Color{G: 2})
	b := colorMap(t, gifalloc.Color{R: 3}, gifalloc.Color{G: 4}, gifalloc.Color{B: 5}, gifalloc.Color{})

	id1, err := db.Put("first", a)
	require.NoError(t, err)
	id2, err := db.Put("second", a)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	n, err := db.Palettes()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cm, err := db.Get("second")
	require.NoError(t, err)
	assert.Equal(t, a, cm)

	// Rebinding a name
	_, err = db.Put("second", b)
	require.NoError(t, err)
	cm, err = db.Get("second")
	require.NoError(t, err)
	assert.Equal(t, b, cm)

	n, err = db.Palettes()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names)

	cm, err = db.Get("missing")
	assert.NoError(t, err)
	assert.Nil(t, cm)
}

func TestImportPAL(t *testing.T) {
	db := open(t)

	a := colorMap(t, gifalloc.Color{R: 1}, gifalloc.Color{G: 2})
	b := colorMap(t, gifalloc.Color{B: 3}, gifalloc.Color{R: 4})

	file := filepath.Join(t.TempDir(), "test.pal")
	f, err := os.Create(file)
	require.NoError(t, err)
	_, err = pal.Write(f, a, b)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	n, err := db.ImportPAL("test", file)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"test.0", "test.1"}, names)

	cm, err := db.Get("test.1")
	require.NoError(t, err)
	assert.Equal(t, b, cm)

	_, err = db.ImportPAL("missing", filepath.Join(t.TempDir(), "missing.pal"))
	assert.Error(t, err)
}
