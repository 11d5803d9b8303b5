// Package nav applies operator input to the display state.
package nav

import (
	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/viewstate"
)

// Event is one navigation input.
type Event int

const (
	MoveUp Event = iota
	MoveDown
	Expand
	Collapse
	Parent
	Top
	Bottom
	PageUp
	PageDown
	Quit
)

var eventNames = [...]string{
	MoveUp:   "move-up",
	MoveDown: "move-down",
	Expand:   "expand",
	Collapse: "collapse",
	Parent:   "parent",
	Top:      "top",
	Bottom:   "bottom",
	PageUp:   "page-up",
	PageDown: "page-down",
	Quit:     "quit",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// Controller owns the display state and the forest it refers to. It is not
// safe for concurrent use; the UI loop is its only caller.
type Controller struct {
	forest *proctree.Forest
	state  viewstate.State
	rows   []viewstate.Row
	page   int
}

// New returns a controller in the initial state for f.
func New(f *proctree.Forest) *Controller {
	c := &Controller{forest: f, state: viewstate.New(f), page: 1}
	c.refresh()
	return c
}

// State returns the display state for the reconciler to rewrite in place.
func (c *Controller) State() *viewstate.State { return &c.state }

// Forest returns the forest the state currently refers to.
func (c *Controller) Forest() *proctree.Forest { return c.forest }

// Rows returns the visible rows in display order.
func (c *Controller) Rows() []viewstate.Row { return c.rows }

// Cursor returns the row index of the selection, or -1.
func (c *Controller) Cursor() int { return viewstate.IndexOf(c.rows, c.state.Selected) }

// Selected returns the selected node.
func (c *Controller) Selected() (*proctree.Node, bool) { return c.forest.Node(c.state.Selected) }

// SetForest installs f, whose state has already been reconciled through
// State().
func (c *Controller) SetForest(f *proctree.Forest) {
	c.forest = f
	c.refresh()
	c.Follow(c.page)
}

// Apply handles one event and reports whether the operator asked to quit.
func (c *Controller) Apply(ev Event) bool {
	if ev == Quit {
		return true
	}
	if len(c.rows) == 0 {
		return false
	}

	cur := c.Cursor()
	switch ev {
	case MoveUp:
		if cur < 0 {
			c.selectRow(0)
		} else if cur > 0 {
			c.selectRow(cur - 1)
		}
	case MoveDown:
		if cur < 0 {
			c.selectRow(0)
		} else if cur < len(c.rows)-1 {
			c.selectRow(cur + 1)
		}
	case Expand:
		n, ok := c.Selected()
		if !ok || !n.HasChildren() {
			break
		}
		if c.state.IsExpanded(n.PID) {
			c.state.Selected = n.Children[0].PID
		} else {
			c.state.Expand(n.PID)
			c.refresh()
		}
	case Collapse:
		n, ok := c.Selected()
		if !ok {
			break
		}
		if n.HasChildren() && c.state.IsExpanded(n.PID) {
			c.state.Collapse(n.PID)
			c.refresh()
		} else if !n.IsRoot() {
			c.state.Selected = n.Parent
		}
	case Parent:
		if n, ok := c.Selected(); ok && !n.IsRoot() {
			c.state.Selected = n.Parent
		}
	case Top:
		c.selectRow(0)
	case Bottom:
		c.selectRow(len(c.rows) - 1)
	case PageUp:
		c.selectRow(max(cur-c.page, 0))
	case PageDown:
		c.selectRow(min(max(cur, 0)+c.page, len(c.rows)-1))
	}
	c.Follow(c.page)
	return false
}

// Follow records the viewport height and scrolls so that the selection is
// inside it.
func (c *Controller) Follow(height int) {
	if height < 1 {
		height = 1
	}
	c.page = height

	s := &c.state
	if cur := c.Cursor(); cur >= 0 {
		if cur < s.Scroll {
			s.Scroll = cur
		}
		if cur >= s.Scroll+height {
			s.Scroll = cur - height + 1
		}
	}
	if maxScroll := len(c.rows) - height; s.Scroll > maxScroll {
		s.Scroll = max(maxScroll, 0)
	}
	if s.Scroll < 0 {
		s.Scroll = 0
	}
}

func (c *Controller) selectRow(i int) {
	c.state.Selected = c.rows[i].Node.PID
}

func (c *Controller) refresh() {
	c.rows = viewstate.Visible(c.forest, &c.state)
}
