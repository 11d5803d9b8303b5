package viewstate

import "github.com/ncmu-dev/ncmu/internal/proctree"

// Row is one line of the expansion-aware display order.
type Row struct {
	Node  *proctree.Node
	Depth int
	Last  bool // last child of its parent (or last root)

	// Guides[i] is true when the ancestor at depth i still has siblings
	// below, so a renderer draws a vertical connector in that column.
	Guides []bool
}

// Visible flattens f in display order. A node's children appear only when
// the node is in the expansion set.
func Visible(f *proctree.Forest, s *State) []Row {
	if f == nil {
		return nil
	}
	rows := make([]Row, 0, len(f.Roots))
	type item struct {
		n      *proctree.Node
		depth  int
		last   bool
		guides []bool
	}
	stack := make([]item, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, item{n: f.Roots[i], last: i == len(f.Roots)-1})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rows = append(rows, Row{Node: it.n, Depth: it.depth, Last: it.last, Guides: it.guides})

		if !s.IsExpanded(it.n.PID) || !it.n.HasChildren() {
			continue
		}
		guides := make([]bool, len(it.guides)+1)
		copy(guides, it.guides)
		guides[len(it.guides)] = !it.last
		kids := it.n.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{n: kids[i], depth: it.depth + 1, last: i == len(kids)-1, guides: guides})
		}
	}
	return rows
}

// IndexOf returns the row index of pid, or -1 when it is not visible.
func IndexOf(rows []Row, pid int) int {
	for i, r := range rows {
		if r.Node.PID == pid {
			return i
		}
	}
	return -1
}
