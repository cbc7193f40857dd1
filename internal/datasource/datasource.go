// Package datasource defines where the munging commands read their inputs
// from. A Source is opened once per run and read fully into memory.
package datasource

import (
	"context"
	"fmt"
	"io"
)

// Source opens an input stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ReadAll opens src and returns its full contents.
func ReadAll(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return b, nil
}
