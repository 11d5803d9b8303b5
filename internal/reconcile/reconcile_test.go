package reconcile

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/viewstate"
)

func scenarioA() *proctree.Forest {
	return proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Footprint: 100, Label: "init"},
		{PID: 2, PPID: 1, Footprint: 50, Label: "shell"},
		{PID: 3, PPID: 2, Footprint: 30, Label: "vim"},
	})
}

func TestFirstReconcileAddsEverything(t *testing.T) {
	r := &Reconciler{Strict: true}
	st := viewstate.State{Selected: 42, Expanded: map[int]struct{}{42: {}}}
	p := r.Reconcile(nil, scenarioA(), &st)

	if !reflect.DeepEqual(p.Added, []int{1, 2, 3}) {
		t.Errorf("Added = %v, want [1 2 3]", p.Added)
	}
	if len(p.Removed) != 0 || len(p.Updated) != 0 {
		t.Errorf("unexpected patch %+v", p)
	}
	if st.Selected != 1 {
		t.Errorf("Selected = %d, want 1", st.Selected)
	}
	if len(st.Expanded) != 0 {
		t.Errorf("Expanded = %v, want empty", st.ExpandedIDs())
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r := &Reconciler{Strict: true}
	f := scenarioA()
	st := viewstate.New(f)
	st.Expand(1)
	st.Selected = 2
	st.Scroll = 1
	before := st.Clone()

	p := r.Reconcile(f, scenarioA(), &st)
	if !p.Empty() {
		t.Errorf("patch = %+v, want empty", p)
	}
	if !st.Equal(before) {
		t.Errorf("state changed: got %+v, want %+v", st, before)
	}
}

func TestReconcileKeepsHiddenSelectionWhenUnmoved(t *testing.T) {
	r := &Reconciler{Strict: true}
	f := scenarioA()
	st := viewstate.New(f)
	st.Selected = 3 // ancestors collapsed

	r.Reconcile(f, scenarioA(), &st)
	if len(st.Expanded) != 0 {
		t.Errorf("Expanded = %v, want empty", st.ExpandedIDs())
	}
}

func TestReconcileScenarioB(t *testing.T) {
	r := &Reconciler{Strict: true}
	prev := scenarioA()
	next := proctree.Build([]proctree.Record{{PID: 1, PPID: 0, Footprint: 100, Label: "init"}})
	st := viewstate.New(prev)
	st.Expand(1)
	st.Expand(2)
	st.Selected = 2

	p := r.Reconcile(prev, next, &st)

	if !reflect.DeepEqual(p.Removed, []int{2, 3}) {
		t.Errorf("Removed = %v, want [2 3]", p.Removed)
	}
	if !reflect.DeepEqual(p.Updated, []int{1}) {
		t.Errorf("Updated = %v, want [1]", p.Updated)
	}
	if n, _ := next.Node(1); n.Total != 100 {
		t.Errorf("pid 1 Total = %d, want 100", n.Total)
	}
	if st.Selected != 1 {
		t.Errorf("Selected = %d, want 1", st.Selected)
	}
	if !reflect.DeepEqual(st.ExpandedIDs(), []int{1}) {
		t.Errorf("Expanded = %v, want [1]", st.ExpandedIDs())
	}
}

func TestReconcileSelectionFallsBackToNearestSurvivor(t *testing.T) {
	r := &Reconciler{Strict: true}
	prev := scenarioA()
	next := proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Footprint: 100},
		{PID: 2, PPID: 1, Footprint: 50},
	})
	st := viewstate.New(prev)
	st.Selected = 3

	r.Reconcile(prev, next, &st)
	if st.Selected != 2 {
		t.Errorf("Selected = %d, want 2", st.Selected)
	}
	if !st.IsExpanded(1) {
		t.Errorf("fallback selection should be revealed, Expanded = %v", st.ExpandedIDs())
	}
}

func TestReconcileScenarioD(t *testing.T) {
	r := &Reconciler{Strict: true}
	prev := scenarioA()
	next := proctree.Build([]proctree.Record{
		{PID: 2, PPID: 1, Footprint: 50},
		{PID: 3, PPID: 2, Footprint: 30},
	})
	st := viewstate.New(prev)
	st.Expand(1)
	st.Expand(2)
	st.Selected = 1

	p := r.Reconcile(prev, next, &st)

	n, ok := next.Node(2)
	if !ok || !n.IsRoot() {
		t.Fatalf("pid 2 should be a root")
	}
	if !reflect.DeepEqual(p.Removed, []int{1}) {
		t.Errorf("Removed = %v, want [1]", p.Removed)
	}
	if !reflect.DeepEqual(st.ExpandedIDs(), []int{2}) {
		t.Errorf("Expanded = %v, want [2]", st.ExpandedIDs())
	}
	if st.Selected != 2 {
		t.Errorf("Selected = %d, want 2", st.Selected)
	}
}

func TestReconcileRevealsReparentedSelection(t *testing.T) {
	r := &Reconciler{Strict: true}
	prev := proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Footprint: 10},
		{PID: 4, PPID: 0, Footprint: 10},
		{PID: 9, PPID: 1, Footprint: 10},
	})
	next := proctree.Build([]proctree.Record{
		{PID: 1, PPID: 0, Footprint: 10},
		{PID: 4, PPID: 0, Footprint: 10},
		{PID: 9, PPID: 4, Footprint: 10},
	})
	st := viewstate.New(prev)
	st.Expand(1)
	st.Selected = 9

	r.Reconcile(prev, next, &st)
	if !st.IsExpanded(4) {
		t.Errorf("new parent 4 should be expanded, got %v", st.ExpandedIDs())
	}
	if viewstate.IndexOf(viewstate.Visible(next, &st), 9) < 0 {
		t.Errorf("selection 9 is not visible")
	}
}

func TestReconcileKeepsDisplayPosition(t *testing.T) {
	base := []proctree.Record{
		{PID: 1, PPID: 0, Footprint: 10, Label: "init"},
		{PID: 2, PPID: 1, Footprint: 500, Label: "db"},
		{PID: 5, PPID: 2, Footprint: 20, Label: "worker"},
		{PID: 3, PPID: 1, Footprint: 300, Label: "web"},
		{PID: 4, PPID: 1, Footprint: 100, Label: "cron"},
	}
	with := func(changes map[int]int64, extra ...proctree.Record) []proctree.Record {
		out := make([]proctree.Record, 0, len(base)+len(extra))
		for _, r := range base {
			if fp, ok := changes[r.PID]; ok {
				r.Footprint = fp
			}
			out = append(out, r)
		}
		return append(out, extra...)
	}

	tests := []struct {
		name  string
		next  []proctree.Record
		want3 int
	}{
		{"unrelated footprints", with(map[int]int64{1: 20, 5: 40, 4: 150}), 3},
		{"hidden child added", with(nil, proctree.Record{PID: 6, PPID: 4, Footprint: 50}), 3},
		{"sibling overtakes", with(map[int]int64{4: 400}), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reconciler{Strict: true}
			prev := proctree.Build(base)
			st := viewstate.New(prev)
			st.Expand(1)
			st.Expand(2)
			st.Selected = 3
			if got := viewstate.IndexOf(viewstate.Visible(prev, &st), 3); got != 3 {
				t.Fatalf("initial index of 3 = %d, want 3", got)
			}

			next := proctree.Build(tt.next)
			r.Reconcile(prev, next, &st)
			if st.Selected != 3 {
				t.Errorf("Selected = %d, want 3", st.Selected)
			}
			rows := viewstate.Visible(next, &st)
			if got := viewstate.IndexOf(rows, 3); got != tt.want3 {
				t.Errorf("index of 3 = %d, want %d", got, tt.want3)
			}
			if got := viewstate.IndexOf(rows, 2); got != 1 {
				t.Errorf("index of 2 = %d, want 1", got)
			}
		})
	}
}

func TestReconcileMinDelta(t *testing.T) {
	prev := proctree.Build([]proctree.Record{{PID: 1, Footprint: 1000}, {PID: 2, Footprint: 1000}})
	next := proctree.Build([]proctree.Record{{PID: 1, Footprint: 1004}, {PID: 2, Footprint: 1100}})

	tests := []struct {
		delta int64
		want  []int
	}{
		{0, []int{1, 2}},
		{1, []int{1, 2}},
		{5, []int{2}},
		{101, nil},
	}
	for _, tt := range tests {
		r := &Reconciler{MinDelta: tt.delta, Strict: true}
		st := viewstate.New(prev)
		p := r.Reconcile(prev, next, &st)
		if !reflect.DeepEqual(p.Updated, tt.want) {
			t.Errorf("MinDelta=%d: Updated = %v, want %v", tt.delta, p.Updated, tt.want)
		}
	}
}

func TestReconcileToEmptyForest(t *testing.T) {
	r := &Reconciler{Strict: true}
	prev := scenarioA()
	st := viewstate.New(prev)
	st.Expand(1)

	p := r.Reconcile(prev, proctree.Build(nil), &st)
	if len(p.Removed) != 3 {
		t.Errorf("Removed = %v, want 3 ids", p.Removed)
	}
	if st.Selected != viewstate.NoSelection || len(st.Expanded) != 0 {
		t.Errorf("state = %+v, want empty", st)
	}
}

func TestVerify(t *testing.T) {
	f := scenarioA()
	ok := viewstate.New(f)
	if err := Verify(f, &ok); err != nil {
		t.Errorf("Verify(valid) = %v", err)
	}

	bad := viewstate.New(f)
	bad.Selected = 99
	if err := Verify(f, &bad); !errors.Is(err, ErrDanglingState) {
		t.Errorf("Verify(selected 99) = %v, want ErrDanglingState", err)
	}

	bad = viewstate.New(f)
	bad.Expand(77)
	if err := Verify(f, &bad); !errors.Is(err, ErrDanglingState) {
		t.Errorf("Verify(expanded 77) = %v, want ErrDanglingState", err)
	}
}

func randomRecords(rng *rand.Rand) []proctree.Record {
	n := rng.Intn(25)
	recs := make([]proctree.Record, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, proctree.Record{
			PID:       rng.Intn(30) + 1,
			PPID:      rng.Intn(31),
			Footprint: int64(rng.Intn(500)),
		})
	}
	return recs
}

func TestReconcileRandomSnapshotsKeepStateValid(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := &Reconciler{Strict: true}
	var prev *proctree.Forest
	var st viewstate.State

	for round := 0; round < 300; round++ {
		next := proctree.Build(randomRecords(rng))
		p := r.Reconcile(prev, next, &st)

		if err := Verify(next, &st); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		for _, id := range p.Added {
			if prev.Has(id) || !next.Has(id) {
				t.Fatalf("round %d: bad Added id %d", round, id)
			}
		}
		for _, id := range p.Removed {
			if !prev.Has(id) || next.Has(id) {
				t.Fatalf("round %d: bad Removed id %d", round, id)
			}
		}

		// random navigation between polls
		if next.Len() > 0 {
			rows := viewstate.Visible(next, &st)
			pick := rows[rng.Intn(len(rows))].Node
			st.Selected = pick.PID
			if pick.HasChildren() && rng.Intn(2) == 0 {
				st.Expand(pick.PID)
			}
		}
		prev = next
	}
}
