package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncmu-dev/ncmu/internal/display"
	"github.com/ncmu-dev/ncmu/internal/proctree"
)

var (
	treeDepth int
	treeTop   int
	treeWidth int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print one snapshot of the process tree and exit",
	Example: `  ncmu tree --depth 1 --top 5
  ncmu tree --json --metric rss+swap`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r, _, warnings, err := settings(cmd)
		if err != nil {
			outputError(err.Error())
		}
		if !jsonOutput {
			printWarnings(warnings)
		}

		src, err := snapshotSource(r)
		if err != nil {
			outputError(err.Error())
		}
		fr := newPoller(src, r).Poll(context.Background())
		if fr == nil || fr.Err != nil {
			msg := "snapshot cancelled"
			if fr != nil {
				msg = fr.Err.Error()
			}
			outputError(msg)
		}

		if jsonOutput {
			outputJSON(treeJSON(fr.Forest, treeDepth, treeTop))
			return
		}
		display.RenderSummary(os.Stdout, fr.Forest)
		display.RenderTree(os.Stdout, fr.Forest, display.TreeOptions{
			Depth: treeDepth,
			Top:   treeTop,
			Width: treeWidth,
		})
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", -1, "deepest level to print (0 = roots only, -1 = all)")
	treeCmd.Flags().IntVar(&treeTop, "top", 0, "print only the N largest roots (0 = all)")
	treeCmd.Flags().IntVar(&treeWidth, "width", 60, "max width of the process column (0 = unlimited)")
}

type treeNodeJSON struct {
	PID      int            `json:"pid"`
	Label    string         `json:"label"`
	User     string         `json:"user,omitempty"`
	Cmdline  string         `json:"cmdline,omitempty"`
	Self     int64          `json:"self"`
	Total    int64          `json:"total"`
	Children []treeNodeJSON `json:"children,omitempty"`
}

type treeOutputJSON struct {
	Processes   int                   `json:"processes"`
	Total       int64                 `json:"total"`
	Roots       []treeNodeJSON        `json:"roots"`
	Diagnostics []proctree.Diagnostic `json:"diagnostics"`
}

func treeJSON(f *proctree.Forest, depth, top int) treeOutputJSON {
	out := treeOutputJSON{
		Processes:   f.Len(),
		Total:       f.TotalFootprint(),
		Roots:       []treeNodeJSON{},
		Diagnostics: f.Diagnostics,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []proctree.Diagnostic{}
	}
	for i, r := range f.Roots {
		if top > 0 && i >= top {
			break
		}
		out.Roots = append(out.Roots, nodeJSON(r, 0, depth))
	}
	return out
}

func nodeJSON(n *proctree.Node, level, depth int) treeNodeJSON {
	j := treeNodeJSON{
		PID:     n.PID,
		Label:   n.Label,
		User:    n.User,
		Cmdline: n.Cmdline,
		Self:    n.Self,
		Total:   n.Total,
	}
	if depth >= 0 && level >= depth {
		return j
	}
	for _, c := range n.Children {
		j.Children = append(j.Children, nodeJSON(c, level+1, depth))
	}
	return j
}
