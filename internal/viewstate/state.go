// Package viewstate holds the operator's navigation context: which nodes are
// expanded, which one is selected and how far the tree is scrolled. It
// outlives every individual forest.
package viewstate

import (
	"sort"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// NoSelection is the Selected value when the forest is empty.
const NoSelection = -1

// State is the persistent display state.
type State struct {
	Expanded map[int]struct{}
	Selected int
	Scroll   int
}

// New returns the initial state for f: everything collapsed, the first root
// selected, no scroll.
func New(f *proctree.Forest) State {
	s := State{Expanded: make(map[int]struct{}), Selected: NoSelection}
	if pid, ok := f.FirstRoot(); ok {
		s.Selected = pid
	}
	return s
}

// Reset puts s back into its initial state for f.
func (s *State) Reset(f *proctree.Forest) { *s = New(f) }

// IsExpanded reports whether pid is in the expansion set.
func (s *State) IsExpanded(pid int) bool {
	_, ok := s.Expanded[pid]
	return ok
}

// Expand adds pid to the expansion set.
func (s *State) Expand(pid int) {
	if s.Expanded == nil {
		s.Expanded = make(map[int]struct{})
	}
	s.Expanded[pid] = struct{}{}
}

// Collapse removes pid from the expansion set.
func (s *State) Collapse(pid int) { delete(s.Expanded, pid) }

// ExpandedIDs returns the expansion set in ascending order.
func (s *State) ExpandedIDs() []int {
	ids := make([]int, 0, len(s.Expanded))
	for id := range s.Expanded {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := State{Selected: s.Selected, Scroll: s.Scroll, Expanded: make(map[int]struct{}, len(s.Expanded))}
	for id := range s.Expanded {
		c.Expanded[id] = struct{}{}
	}
	return c
}

// Equal reports whether two states hold the same selection, scroll and
// expansion set.
func (s State) Equal(o State) bool {
	if s.Selected != o.Selected || s.Scroll != o.Scroll || len(s.Expanded) != len(o.Expanded) {
		return false
	}
	for id := range s.Expanded {
		if _, ok := o.Expanded[id]; !ok {
			return false
		}
	}
	return true
}
