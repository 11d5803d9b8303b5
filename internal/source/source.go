// Package source produces process snapshots for the tree builder.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// ErrEmptySnapshot is returned when a source yields no records at all. An
// operating system always has at least one process, so an empty list means
// the enumeration failed.
var ErrEmptySnapshot = errors.New("snapshot contains no processes")

// Source yields the current process list. Implementations must return a
// fresh slice on every call.
type Source interface {
	Snapshot(ctx context.Context) ([]proctree.Record, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) ([]proctree.Record, error)

func (f Func) Snapshot(ctx context.Context) ([]proctree.Record, error) { return f(ctx) }

// Acquire takes one snapshot from src and turns an empty result into
// ErrEmptySnapshot.
func Acquire(ctx context.Context, src Source) ([]proctree.Record, error) {
	records, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptySnapshot
	}
	return records, nil
}
