package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.json")

	require.NoError(t, WriteFileAtomic(context.Background(), p, []byte("[]\n")))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(got))

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerm, fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFileAtomicKeepsPerm(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))

	require.NoError(t, WriteFileAtomic(context.Background(), p, []byte("new")))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestWriteFileAtomicFailures(t *testing.T) {
	dir := t.TempDir()

	err := WriteFileAtomic(context.Background(), filepath.Join(dir, "missing", "out.json"), []byte("x"))
	require.Error(t, err)

	err = WriteFileAtomic(context.Background(), dir, []byte("x"))
	require.ErrorContains(t, err, "is a directory")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := filepath.Join(dir, "out.json")
	require.ErrorIs(t, WriteFileAtomic(ctx, p, []byte("x")), context.Canceled)
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}
