package display

import (
	"strings"
	"testing"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

func TestNewBar(t *testing.T) {
	tests := []struct {
		name                 string
		self, total, sibling int64
		want                 Bar
	}{
		{"half self half children", 50, 100, 100, Bar{Self: 10, Children: 10}},
		{"quarter of siblings", 25, 25, 100, Bar{Self: 5, Empty: 15}},
		{"zero siblings", 0, 0, 0, Bar{Empty: 20}},
		{"unknown self", -1, 40, 100, Bar{Children: 8, Empty: 12}},
		{"overflow clamps", 300, 300, 100, Bar{Self: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBar(tt.self, tt.total, tt.sibling, 20)
			if got != tt.want {
				t.Errorf("NewBar = %+v, want %+v", got, tt.want)
			}
			if got.Width() != 20 {
				t.Errorf("Width = %d, want 20", got.Width())
			}
		})
	}
}

func TestBarPlain(t *testing.T) {
	b := Bar{Self: 2, Children: 3, Empty: 1}
	if got := b.Plain(); got != "[##=== ]" {
		t.Errorf("Plain = %q, want %q", got, "[##=== ]")
	}
	if visibleLen(b.ANSI()) != len(b.Plain()) {
		t.Errorf("ANSI width %d differs from plain %d", visibleLen(b.ANSI()), len(b.Plain()))
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		depth  int
		last   bool
		guides []bool
		want   string
	}{
		{0, false, nil, ""},
		{1, false, []bool{true}, "├─ "},
		{1, true, []bool{false}, "└─ "},
		{2, true, []bool{true, true}, "│  └─ "},
		{3, false, []bool{false, false, true}, "   │  ├─ "},
	}
	for _, tt := range tests {
		if got := Prefix(tt.depth, tt.last, tt.guides); got != tt.want {
			t.Errorf("Prefix(%d, %v, %v) = %q, want %q", tt.depth, tt.last, tt.guides, got, tt.want)
		}
	}
}

func sampleForest() *proctree.Forest {
	return proctree.Build([]proctree.Record{
		{PID: 1, Footprint: 100, Label: "init", User: "root"},
		{PID: 2, PPID: 1, Footprint: 50, Label: "sshd"},
		{PID: 3, PPID: 2, Footprint: 30, Label: "bash"},
		{PID: 4, PPID: 1, Footprint: 10, Label: "cron"},
		{PID: 9, Footprint: 5, Label: "kthreadd"},
	})
}

func pidsOf(f *proctree.Forest, opts TreeOptions) []int {
	var out []int
	for _, r := range TreeRows(f, opts) {
		out = append(out, r.Node.PID)
	}
	return out
}

func TestTreeRows(t *testing.T) {
	f := sampleForest()
	tests := []struct {
		name string
		opts TreeOptions
		want []int
	}{
		{"all", TreeOptions{Depth: -1}, []int{1, 2, 3, 4, 9}},
		{"roots only", TreeOptions{Depth: 0}, []int{1, 9}},
		{"one level", TreeOptions{Depth: 1}, []int{1, 2, 4, 9}},
		{"top root", TreeOptions{Depth: -1, Top: 1}, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pidsOf(f, tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("rows = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("rows = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSiblingTotal(t *testing.T) {
	f := sampleForest()
	n2, _ := f.Node(2)
	if got := SiblingTotal(f, n2); got != 90 {
		t.Errorf("SiblingTotal(2) = %d, want 90", got)
	}
	n1, _ := f.Node(1)
	if got := SiblingTotal(f, n1); got != 195 {
		t.Errorf("SiblingTotal(1) = %d, want 195", got)
	}
}

func TestRenderTree(t *testing.T) {
	f := proctree.Build([]proctree.Record{
		{PID: 5, PPID: 5, Footprint: 42, Label: "loop"},
		{PID: 6, PPID: 5, Footprint: 1, Label: "child"},
	})
	var buf strings.Builder
	RenderTree(&buf, f, TreeOptions{Depth: -1})
	out := buf.String()

	for _, want := range []string{"loop", "└─", "child", "Usage", "cycle detected at 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf strings.Builder
	RenderSummary(&buf, sampleForest())
	out := buf.String()
	if !strings.Contains(out, "5") || !strings.Contains(out, "processes") {
		t.Errorf("summary = %q", out)
	}
}
