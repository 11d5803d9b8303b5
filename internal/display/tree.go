package display

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/units"
	"github.com/ncmu-dev/ncmu/internal/viewstate"
)

// BarWidth is the usage bar width shared by the CLI and the dashboard.
const BarWidth = 20

// TreeOptions limits what RenderTree prints.
type TreeOptions struct {
	Depth int // deepest level shown, 0 = roots only, negative = unlimited
	Top   int // number of roots shown, 0 = all
	Width int // max width of the process column, 0 = unlimited
}

// TreeRows returns the rows RenderTree would print.
func TreeRows(f *proctree.Forest, opts TreeOptions) []viewstate.Row {
	st := viewstate.New(f)
	f.Walk(func(n *proctree.Node, depth int) bool {
		if opts.Depth >= 0 && depth >= opts.Depth {
			return false
		}
		if n.HasChildren() {
			st.Expand(n.PID)
		}
		return true
	})
	rows := viewstate.Visible(f, &st)
	if opts.Top <= 0 {
		return rows
	}
	roots := 0
	for i, r := range rows {
		if r.Depth == 0 {
			roots++
			if roots > opts.Top {
				return rows[:i]
			}
		}
	}
	return rows
}

// SiblingTotal returns the sum of Total over n and its siblings.
func SiblingTotal(f *proctree.Forest, n *proctree.Node) int64 {
	siblings := f.Roots
	if p, ok := f.Node(n.Parent); ok {
		siblings = p.Children
	}
	var sum int64
	for _, s := range siblings {
		sum += s.Total
	}
	return sum
}

// RenderTree prints the forest as a bordered table with tree guides.
func RenderTree(w io.Writer, f *proctree.Forest, opts TreeOptions) {
	tbl := NewTable("Memory", "Usage", "Process", "PID", "User").AlignRight(0, 3)
	for _, r := range TreeRows(f, opts) {
		n := r.Node
		bar := NewBar(n.Self, n.Total, SiblingTotal(f, n), BarWidth)
		prefix := Prefix(r.Depth, r.Last, r.Guides)
		label := n.Label
		if opts.Width > 0 {
			label = runewidth.Truncate(label, max(opts.Width-runewidth.StringWidth(prefix), 1), "…")
		}
		user := n.User
		if user == "" {
			user = "-"
		}
		mem := units.FormatMB(n.Total)
		pid := fmt.Sprintf("%d", n.PID)

		labelColored := label
		if r.Depth == 0 {
			labelColored = Bold(label)
		}
		tbl.AddColoredRow(
			[]string{mem, bar.Plain(), prefix + label, pid, user},
			[]string{mem, bar.ANSI(), Dim(prefix) + labelColored, Dim(pid), user},
		)
	}
	tbl.Render(w)

	for _, d := range f.Diagnostics {
		fmt.Fprintln(w, Yellow("!")+" "+DiagColor(d))
	}
}

// RenderSummary prints one line with the process count and total footprint.
func RenderSummary(w io.Writer, f *proctree.Forest) {
	fmt.Fprintf(w, "%s processes, %s roots, %s total\n",
		Bold(fmt.Sprintf("%d", f.Len())),
		Bold(fmt.Sprintf("%d", len(f.Roots))),
		Bold(units.FormatBytes(f.TotalFootprint())),
	)
}
