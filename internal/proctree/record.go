package proctree

// FootprintUnknown marks a record whose memory figure could not be read.
const FootprintUnknown int64 = -1

// NoParent is the Parent value of a root node.
const NoParent = -1

// Record is one process as reported by a snapshot source. Records are
// produced fresh on every poll and never mutated afterwards.
type Record struct {
	PID       int    `json:"pid"`
	PPID      int    `json:"ppid"`
	Footprint int64  `json:"footprint"` // bytes, opaque additive quantity
	Label     string `json:"label"`
	User      string `json:"user,omitempty"`
	Cmdline   string `json:"cmdline,omitempty"`
}

// Node is a process placed in a Forest.
type Node struct {
	PID     int
	Parent  int // identity of the parent in this forest, NoParent for roots
	Label   string
	User    string
	Cmdline string

	Self  int64 // own footprint
	Total int64 // Self plus the Total of every child

	Children []*Node
}

// IsRoot reports whether the node has no parent in its forest.
func (n *Node) IsRoot() bool { return n.Parent == NoParent }

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }
