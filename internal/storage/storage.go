// Package storage writes command outputs to the local filesystem.
//
// Every write goes through WriteFileAtomic: data lands in a temp file in the
// destination directory and is renamed over the destination only after a
// successful sync, so a failed run leaves the previous file intact.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPerm is used when the destination does not exist yet.
const DefaultPerm fs.FileMode = 0o644

// Sink is a destination for one JSON document per run.
type Sink interface {
	// Encode marshals v and writes it.
	Encode(ctx context.Context, v any) error
	// WriteDocument writes an already encoded document.
	WriteDocument(ctx context.Context, doc []byte) error
	// Path names the destination for log lines.
	Path() string
}

// WriteFileAtomic replaces path with data. An existing destination keeps its
// permission bits.
func WriteFileAtomic(ctx context.Context, path string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := DefaultPerm
	if fi, statErr := os.Stat(path); statErr == nil {
		if fi.IsDir() {
			return fmt.Errorf("write %s: is a directory", path)
		}
		perm = fi.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, statErr)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpName, path, err)
	}
	return nil
}
