package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Load(ctx, "game")
	require.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, b.Save(ctx, "game", []byte(`{"version":1}`)))
	require.NoError(t, b.Save(ctx, "quests", []byte(`{"active":[]}`)))
	require.NoError(t, b.Save(ctx, "game", []byte(`{"version":2}`)))

	raw, err := b.Load(ctx, "game")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(raw))

	raw, err = b.Load(ctx, "quests")
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":[]}`, string(raw))

	assert.Error(t, b.Save(ctx, "  ", []byte(`{}`)))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bizdom.sqlite")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseBackend(t, s)

	slots, err := s.Slots(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"game", "quests"}, slots)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())

	exerciseBackend(t, f)
	assert.Error(t, f.Save(context.Background(), "game", []byte("not json")))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestFileStoreUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	f, err := NewFile(path)
	require.NoError(t, err)
	_, err = f.Load(context.Background(), "game")
	require.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, f.Save(context.Background(), "game", []byte(`{"ok":true}`)))
	raw, err := f.Load(context.Background(), "game")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := Open(ctx, Options{Kind: "FILE", FilePath: filepath.Join(dir, "save.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, b)
	require.NoError(t, b.Close())

	b, err = Open(ctx, Options{Kind: "", SQLitePath: filepath.Join(dir, "db.sqlite")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Kind: "redis"})
	assert.ErrorContains(t, err, "unsupported store kind")

	_, err = Open(ctx, Options{Kind: KindPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
