// Package reconcile correlates consecutive forests by process identity and
// carries the display state across polls.
package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/viewstate"
)

// ErrDanglingState reports a display state that references an identity the
// forest does not contain.
var ErrDanglingState = errors.New("display state references missing process")

// Patch lists the differences between two forests for one poll.
type Patch struct {
	Added   []int
	Removed []int
	Updated []int // footprint moved by at least MinDelta
}

// Empty reports whether the patch carries no change.
func (p Patch) Empty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0 && len(p.Updated) == 0
}

// Reconciler rewrites a display state against a new forest.
type Reconciler struct {
	// MinDelta is the smallest footprint change, in bytes, reported as
	// Updated. Values below 1 mean any change.
	MinDelta int64

	// Strict panics on an invariant violation instead of resetting the
	// state. Tests and --debug turn it on.
	Strict bool
}

// Reconcile diffs prev against next and rewrites st in place. prev may be
// nil on the first poll. The pass is linear in the size of both forests.
func (r *Reconciler) Reconcile(prev, next *proctree.Forest, st *viewstate.State) Patch {
	var p Patch

	if prev == nil {
		next.Walk(func(n *proctree.Node, _ int) bool {
			p.Added = append(p.Added, n.PID)
			return true
		})
		sort.Ints(p.Added)
		st.Reset(next)
		return p
	}

	minDelta := r.MinDelta
	if minDelta < 1 {
		minDelta = 1
	}

	prev.Walk(func(old *proctree.Node, _ int) bool {
		cur, ok := next.Node(old.PID)
		if !ok {
			p.Removed = append(p.Removed, old.PID)
			return true
		}
		if abs(cur.Self-old.Self) >= minDelta || abs(cur.Total-old.Total) >= minDelta {
			p.Updated = append(p.Updated, old.PID)
		}
		return true
	})
	next.Walk(func(n *proctree.Node, _ int) bool {
		if !prev.Has(n.PID) {
			p.Added = append(p.Added, n.PID)
		}
		return true
	})
	sort.Ints(p.Added)
	sort.Ints(p.Removed)
	sort.Ints(p.Updated)

	for id := range st.Expanded {
		if !next.Has(id) {
			st.Collapse(id)
		}
	}

	before := st.Selected
	st.Selected = r.reselect(prev, next, st.Selected)
	if st.Selected != before || !slices.Equal(prev.Ancestors(before), next.Ancestors(before)) {
		reveal(next, st)
	}

	if err := Verify(next, st); err != nil {
		if r.Strict {
			panic(err)
		}
		slog.Error("display state reset", "error", err)
		st.Reset(next)
	}
	return p
}

// reselect keeps a surviving selection, otherwise falls back to the nearest
// ancestor that survived in next, otherwise to next's first root.
func (r *Reconciler) reselect(prev, next *proctree.Forest, selected int) int {
	if next.Has(selected) {
		return selected
	}
	if selected != viewstate.NoSelection {
		for _, a := range prev.Ancestors(selected) {
			if next.Has(a) {
				return a
			}
		}
	}
	if pid, ok := next.FirstRoot(); ok {
		return pid
	}
	return viewstate.NoSelection
}

// reveal expands the ancestors of the selection in next so that a process
// that moved or fell back under a collapsed node stays in view. Revealing the
// selection takes precedence over added identities entering collapsed.
func reveal(next *proctree.Forest, st *viewstate.State) {
	if st.Selected == viewstate.NoSelection {
		return
	}
	for _, a := range next.Ancestors(st.Selected) {
		st.Expand(a)
	}
}

// Verify checks that every identity held by st exists in f.
func Verify(f *proctree.Forest, st *viewstate.State) error {
	if st.Selected == viewstate.NoSelection {
		if f.Len() > 0 {
			return fmt.Errorf("%w: nothing selected in a forest of %d", ErrDanglingState, f.Len())
		}
	} else if !f.Has(st.Selected) {
		return fmt.Errorf("%w: selected pid %d", ErrDanglingState, st.Selected)
	}
	for id := range st.Expanded {
		if !f.Has(id) {
			return fmt.Errorf("%w: expanded pid %d", ErrDanglingState, id)
		}
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
