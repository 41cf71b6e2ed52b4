package kasten

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/kasten/internal/apperr"
	"github.com/starford/kasten/internal/storage"
	"github.com/starford/kasten/internal/testutil"
	"github.com/starford/kasten/internal/zettel"
)

func TestToDir_FromDir_Scenario(t *testing.T) {
	_, store := testutil.TestKasten(t)

	s := New()
	root := zettel.New("Root")
	child := zettel.New("Child")
	require.NoError(t, s.AddZettel(root, nil))
	require.NoError(t, s.AddZettel(child, []uuid.UUID{root.ID}))
	require.NoError(t, s.ToDir(store))

	s2, err := FromDir(store)
	require.NoError(t, err)

	assert.Equal(t, [][2]uuid.UUID{{root.ID, child.ID}}, s2.Edges())

	titles := make(map[uuid.UUID]string)
	for _, m := range s2.MetaData() {
		titles[m.ID] = m.Title
	}
	assert.Equal(t, map[uuid.UUID]string{root.ID: "Root", child.ID: "Child"}, titles)
}

func TestToDir_Layout(t *testing.T) {
	dir, store := testutil.TestKasten(t)

	k := New()
	z := zettel.New("Layout")
	require.NoError(t, k.AddZettel(z, nil))
	require.NoError(t, k.ToDir(store))

	names, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{IndexFile, z.ID.String()}, names)

	data, err := os.ReadFile(filepath.Join(dir, z.ID.String()))
	require.NoError(t, err)
	got, err := zettel.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "Layout", got.Body)
}

func TestToDir_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", ".zettelkasten")
	store, err := storage.NewFS(root)
	require.NoError(t, err)

	require.NoError(t, New().ToDir(store))
	assert.FileExists(t, filepath.Join(root, IndexFile))
}

func TestToDir_OnlyDirtyZettels(t *testing.T) {
	_, fsStore := testutil.TestKasten(t)
	store := testutil.NewRecorder(fsStore)

	k := New()
	a, b := zettel.New("A"), zettel.New("B")
	require.NoError(t, k.AddZettel(a, nil))
	require.NoError(t, k.AddZettel(b, []uuid.UUID{a.ID}))
	require.NoError(t, k.ToDir(store))
	assert.ElementsMatch(t, []string{IndexFile, a.ID.String(), b.ID.String()}, store.Writes())

	// Nothing changed: only the index is rewritten.
	store.Reset()
	require.NoError(t, k.ToDir(store))
	assert.Equal(t, []string{IndexFile}, store.Writes())

	// One zettel changed.
	store.Reset()
	got, err := k.GetZettel(b.ID)
	require.NoError(t, err)
	got.UpdateBody("B, revised")
	k.UpdateZettel(&got)
	require.NoError(t, k.ToDir(store))
	assert.Equal(t, []string{IndexFile, b.ID.String()}, store.Writes())
}

func TestLoad_UntouchedZettelIsNotRewritten(t *testing.T) {
	_, fsStore := testutil.TestKasten(t)

	k := New()
	z := zettel.New("Persisted")
	require.NoError(t, k.AddZettel(z, nil))
	require.NoError(t, k.ToDir(fsStore))

	store := testutil.NewRecorder(fsStore)
	loaded, err := FromDir(store)
	require.NoError(t, err)
	got, err := loaded.Load(store, z.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Body)
	assert.False(t, got.Dirty())

	require.NoError(t, loaded.ToDir(store))
	assert.Equal(t, []string{IndexFile}, store.Writes())
}

func TestLoad_TwoTier(t *testing.T) {
	_, store := testutil.TestKasten(t)

	k := New()
	z := zettel.New("Lazy\nbody")
	require.NoError(t, k.AddZettel(z, nil))
	require.NoError(t, k.ToDir(store))

	loaded, err := FromDir(store)
	require.NoError(t, err)

	// Known to the index but not loaded: GetZettel misses, Load reads it.
	_, err = loaded.GetZettel(z.ID)
	require.ErrorIs(t, err, apperr.ErrNoteNotFound)

	got, err := loaded.Load(store, z.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lazy\nbody", got.Body)

	cached, err := loaded.GetZettel(z.ID)
	require.NoError(t, err)
	assert.Equal(t, z.ID, cached.ID)
}

func TestLoad_UnknownID(t *testing.T) {
	_, store := testutil.TestKasten(t)
	_, err := New().Load(store, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
}

func TestLoad_MissingFile(t *testing.T) {
	_, store := testutil.TestKasten(t)

	k := New()
	z := zettel.New("Unsaved")
	require.NoError(t, k.AddZettel(z, nil))
	// Persist only the index.
	clean := New()
	clean.index = k.index
	clean.metaData = k.metaData
	require.NoError(t, clean.ToDir(store))

	_, err := clean.Load(store, z.ID)
	var ioErr *apperr.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_MismatchedFile(t *testing.T) {
	_, store := testutil.TestKasten(t)

	k := New()
	z := zettel.New("Real")
	require.NoError(t, k.AddZettel(z, nil))
	require.NoError(t, k.ToDir(store))

	other, err := zettel.New("Impostor").Marshal()
	require.NoError(t, err)
	require.NoError(t, store.Write(z.ID.String(), other))

	loaded, err := FromDir(store)
	require.NoError(t, err)
	_, err = loaded.Load(store, z.ID)
	assert.ErrorIs(t, err, apperr.ErrSerialization)
}

func TestFromDir_Missing(t *testing.T) {
	_, store := testutil.TestKasten(t)
	_, err := FromDir(store)
	var ioErr *apperr.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestFromDir_Corrupt(t *testing.T) {
	_, store := testutil.TestKasten(t)
	require.NoError(t, store.Write(IndexFile, []byte("{not json")))
	_, err := FromDir(store)
	assert.ErrorIs(t, err, apperr.ErrSerialization)
}

func TestPath(t *testing.T) {
	dir, store := testutil.TestKasten(t)
	k := New()
	z := zettel.New("Where")
	require.NoError(t, k.AddZettel(z, nil))

	p, err := k.Path(store, z.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, z.ID.String()), p)

	_, err = k.Path(store, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
}
