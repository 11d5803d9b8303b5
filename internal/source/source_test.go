package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

func TestAcquire(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		src     Source
		wantErr error
		wantLen int
	}{
		{"records", NewStatic([]proctree.Record{{PID: 1}}), nil, 1},
		{"empty", NewStatic([]proctree.Record{}), ErrEmptySnapshot, 0},
		{"no snapshots", NewStatic(), ErrEmptySnapshot, 0},
		{"error", Func(func(context.Context) ([]proctree.Record, error) { return nil, boom }), boom, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Acquire(ctx, tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestStaticSequenceRepeatsLast(t *testing.T) {
	s := NewStatic(
		[]proctree.Record{{PID: 1}},
		[]proctree.Record{{PID: 1}, {PID: 2}},
	)
	ctx := context.Background()
	want := []int{1, 2, 2, 2}
	for i, n := range want {
		got, err := s.Snapshot(ctx)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if len(got) != n {
			t.Errorf("call %d: len = %d, want %d", i, len(got), n)
		}
	}
}

func TestStaticReturnsCopies(t *testing.T) {
	s := NewStatic([]proctree.Record{{PID: 1, Label: "init"}})
	got, _ := s.Snapshot(context.Background())
	got[0].Label = "changed"
	again, _ := s.Snapshot(context.Background())
	if again[0].Label != "init" {
		t.Errorf("Label = %q, want %q", again[0].Label, "init")
	}
}

func TestStaticCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStatic([]proctree.Record{{PID: 1}}).Snapshot(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadReplay(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"sequence", `[[{"pid":1,"ppid":0,"footprint":100,"label":"init"}],[{"pid":1,"ppid":0,"footprint":120}]]`, 2, false},
		{"single", `[{"pid":1,"ppid":0,"footprint":100},{"pid":2,"ppid":1,"footprint":5}]`, 1, false},
		{"empty array", `[]`, 0, true},
		{"not json", `{{`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			s, err := LoadReplay(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadReplay: %v", err)
			}
			if s.Len() != tt.want {
				t.Errorf("Len = %d, want %d", s.Len(), tt.want)
			}
		})
	}

	if _, err := LoadReplay(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", MetricRSS, false},
		{"rss", MetricRSS, false},
		{"RSS", MetricRSS, false},
		{"swap", MetricSwap, false},
		{"rss+swap", MetricRSSSwap, false},
		{"pss", MetricRSS, true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMetric(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := MetricRSSSwap.pick(10, 5); got != 15 {
		t.Errorf("pick(10, 5) = %d, want 15", got)
	}
}

func TestPSSnapshotIncludesSelf(t *testing.T) {
	if testing.Short() {
		t.Skip("reads the live process table")
	}
	ps := &PS{}
	records, err := ps.Snapshot(context.Background())
	if err != nil {
		t.Skipf("process table unavailable: %v", err)
	}
	self := os.Getpid()
	for _, r := range records {
		if r.PID == self {
			if r.PPID != os.Getppid() {
				t.Errorf("PPID = %d, want %d", r.PPID, os.Getppid())
			}
			return
		}
	}
	t.Errorf("own pid %d not in snapshot of %d processes", self, len(records))
}
