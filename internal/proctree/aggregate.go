package proctree

import "sort"

// Aggregate fills Total for every node in one post-order pass and orders
// children and roots heaviest first, ties broken by ascending PID.
func Aggregate(f *Forest) {
	type frame struct {
		n    *Node
		next int
	}
	stack := make([]frame, 0, 64)

	for _, root := range f.Roots {
		stack = append(stack, frame{n: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.n.Children) {
				child := top.n.Children[top.next]
				top.next++
				stack = append(stack, frame{n: child})
				continue
			}
			n := top.n
			n.Total = n.Self
			for _, c := range n.Children {
				n.Total += c.Total
			}
			sortNodes(n.Children)
			stack = stack[:len(stack)-1]
		}
	}
	sortNodes(f.Roots)

	if f.cycles > 0 && !f.inflationReported {
		f.inflationReported = true
		f.Diagnostics = append(f.Diagnostics, diagf(DiagInflation, NoParent,
			"%d cycle(s) re-rooted; totals may exceed reported memory", f.cycles))
	}
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Total != nodes[j].Total {
			return nodes[i].Total > nodes[j].Total
		}
		return nodes[i].PID < nodes[j].PID
	})
}
