package proctree

// Forest is the tree built from one snapshot. It owns its nodes; parent
// links are identities resolved through the index, so a Forest can be
// dropped without any teardown.
type Forest struct {
	Roots       []*Node
	Diagnostics []Diagnostic

	nodes             map[int]*Node
	cycles            int
	inflationReported bool
}

// Node returns the node with the given identity.
func (f *Forest) Node(pid int) (*Node, bool) {
	if f == nil {
		return nil, false
	}
	n, ok := f.nodes[pid]
	return n, ok
}

// Has reports whether pid is present in the forest.
func (f *Forest) Has(pid int) bool {
	_, ok := f.Node(pid)
	return ok
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Cycles returns how many cycle members were demoted to roots.
func (f *Forest) Cycles() int { return f.cycles }

// FirstRoot returns the identity of the first root in display order.
func (f *Forest) FirstRoot() (int, bool) {
	if f == nil || len(f.Roots) == 0 {
		return 0, false
	}
	return f.Roots[0].PID, true
}

// TotalFootprint sums the aggregated footprint of every root.
func (f *Forest) TotalFootprint() int64 {
	if f == nil {
		return 0
	}
	var total int64
	for _, r := range f.Roots {
		total += r.Total
	}
	return total
}

// DiagnosticStrings returns the diagnostics as plain advisory messages.
func (f *Forest) DiagnosticStrings() []string {
	out := make([]string, len(f.Diagnostics))
	for i, d := range f.Diagnostics {
		out[i] = d.Message
	}
	return out
}

// Ancestors returns the parent chain of pid, nearest first.
func (f *Forest) Ancestors(pid int) []int {
	n, ok := f.Node(pid)
	if !ok {
		return nil
	}
	var chain []int
	for n.Parent != NoParent {
		chain = append(chain, n.Parent)
		n = f.nodes[n.Parent]
	}
	return chain
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips the node's children.
func (f *Forest) Walk(fn func(n *Node, depth int) bool) {
	if f == nil {
		return
	}
	type item struct {
		n     *Node
		depth int
	}
	stack := make([]item, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, item{f.Roots[i], 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.n, it.depth) {
			continue
		}
		for i := len(it.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.n.Children[i], it.depth + 1})
		}
	}
}
