package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// Static replays a fixed sequence of snapshots. Once the sequence is
// exhausted the last snapshot is repeated.
type Static struct {
	mu        sync.Mutex
	snapshots [][]proctree.Record
	next      int
}

// NewStatic returns a Static source over snapshots.
func NewStatic(snapshots ...[]proctree.Record) *Static {
	return &Static{snapshots: snapshots}
}

func (s *Static) Snapshot(ctx context.Context) ([]proctree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil, nil
	}
	i := s.next
	if i >= len(s.snapshots) {
		i = len(s.snapshots) - 1
	} else {
		s.next++
	}
	out := make([]proctree.Record, len(s.snapshots[i]))
	copy(out, s.snapshots[i])
	return out, nil
}

// Len returns the number of distinct snapshots.
func (s *Static) Len() int { return len(s.snapshots) }

// LoadReplay reads a replay file: a JSON array of snapshots, each an array
// of records. A file holding a single array of records is one snapshot.
func LoadReplay(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	snaps, err := parseReplay(data)
	if err != nil {
		return nil, fmt.Errorf("parse replay %s: %w", path, err)
	}
	return NewStatic(snaps...), nil
}

func parseReplay(data []byte) ([][]proctree.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no snapshots")
	}
	if t := bytes.TrimSpace(raw[0]); len(t) > 0 && t[0] == '{' {
		var one []proctree.Record
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, err
		}
		return [][]proctree.Record{one}, nil
	}
	var many [][]proctree.Record
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, err
	}
	return many, nil
}
