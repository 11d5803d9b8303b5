package gui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ncmu-dev/ncmu/internal/display"
	"github.com/ncmu-dev/ncmu/internal/proctree"
	"github.com/ncmu-dev/ncmu/internal/units"
	"github.com/ncmu-dev/ncmu/internal/viewstate"
)

const (
	memWidth  = 10
	barWidth  = display.BarWidth + 2
	pidWidth  = 7
	userWidth = 10
	gap       = 2
)

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())

	b.WriteString(m.renderInfoBar())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	if m.showDetail {
		if n, ok := m.ctrl.Selected(); ok {
			return m.overlayCenter(b.String(), m.renderDetail(n))
		}
	}
	return b.String()
}

// listHeight is the number of tree rows that fit between the chrome.
func (m model) listHeight() int {
	// header(2) + table header(1) + rule(1) + info(1) + status(1) + help
	overhead := 6 + lipgloss.Height(m.help.View(m.keys))
	return max(m.height-overhead, 1)
}

func (m model) processWidth() int {
	return max(m.width-memWidth-barWidth-pidWidth-userWidth-4*gap-1, 12)
}

func (m model) renderHeader() string {
	title := fmt.Sprintf("ncmu v%s", m.opts.Version)
	if m.frame == nil {
		if m.lastErr != nil {
			return titleStyle.Render(title) + "  " + staleStyle.Render("no data: "+m.lastErr.Error())
		}
		return titleStyle.Render(title) + "  " + helpStyle.Render("waiting for first snapshot...")
	}

	f := m.frame.Forest
	parts := []string{
		fmt.Sprintf("%d processes", f.Len()),
		fmt.Sprintf("%s %s", units.FormatBytes(f.TotalFootprint()), m.opts.Metric),
	}
	if mem := m.frame.Memory; mem.Total > 0 {
		parts = append(parts, fmt.Sprintf("system %s / %s",
			units.FormatBytes(int64(mem.Used)), units.FormatBytes(int64(mem.Total))))
	}
	parts = append(parts,
		fmt.Sprintf("poll %s", units.FormatLatency(m.frame.Took)),
		fmt.Sprintf("updated %s ago", units.FormatDuration(m.now.Sub(m.frame.At))),
	)

	header := titleStyle.Render(title) + "  " + strings.Join(parts, " │ ")
	if m.stale {
		header += "  " + staleStyle.Render("STALE")
	}
	return header
}

func (m model) renderTable() string {
	procWidth := m.processWidth()
	sep := strings.Repeat(" ", gap)

	var sb strings.Builder
	head := fmt.Sprintf("%*s", memWidth, "Memory") + sep +
		fmt.Sprintf("%-*s", barWidth, "Usage") + sep +
		fmt.Sprintf("%-*s", procWidth, "Process") + sep +
		fmt.Sprintf("%*s", pidWidth, "PID") + sep +
		fmt.Sprintf("%-*s", userWidth, "User")
	sb.WriteString(" " + headerStyle.Render(head) + "\n")
	sb.WriteString(" " + ruleStyle.Render(strings.Repeat("─", lipgloss.Width(head))) + "\n")

	rows := m.ctrl.Rows()
	height := m.listHeight()
	start := min(m.ctrl.State().Scroll, max(len(rows)-1, 0))
	end := min(start+height, len(rows))
	cursor := m.ctrl.Cursor()

	for i := start; i < end; i++ {
		sb.WriteString(" " + m.renderRow(rows[i], i == cursor, procWidth) + "\n")
	}
	for i := end - start; i < height; i++ {
		sb.WriteString("\n")
	}
	if len(rows) == 0 && height > 0 && m.frame != nil {
		return sb.String() + helpStyle.Render("  No processes") + "\n"
	}
	return sb.String()
}

func (m model) renderRow(r viewstate.Row, selected bool, procWidth int) string {
	n := r.Node
	f := m.ctrl.Forest()
	sep := strings.Repeat(" ", gap)

	marker := "  "
	switch {
	case n.HasChildren() && m.ctrl.State().IsExpanded(n.PID):
		marker = "▾ "
	case n.HasChildren():
		marker = "▸ "
	}
	prefix := display.Prefix(r.Depth, r.Last, r.Guides) + marker
	label := truncate(n.Label, max(procWidth-lipgloss.Width(prefix), 1))
	pad := strings.Repeat(" ", max(procWidth-lipgloss.Width(prefix)-lipgloss.Width(label), 0))

	bar := display.NewBar(n.Self, n.Total, display.SiblingTotal(f, n), display.BarWidth)
	user := n.User
	if user == "" {
		user = "-"
	}

	mem := fmt.Sprintf("%*s", memWidth, units.FormatMB(n.Total))
	pid := fmt.Sprintf("%*d", pidWidth, n.PID)
	user = fmt.Sprintf("%-*s", userWidth, truncate(user, userWidth))

	if selected {
		line := mem + sep + bar.Plain() + sep + prefix + label + pad + sep + pid + sep + user
		return selectedStyle.Render(line)
	}

	switch {
	case m.polls > 1 && slices.Contains(m.patch.Added, n.PID):
		mem = addedStyle.Render(mem)
	case slices.Contains(m.patch.Updated, n.PID):
		mem = updatedStyle.Render(mem)
	}
	return mem + sep + renderBar(bar) + sep + guideStyle.Render(prefix) + label + pad + sep + pid + sep + user
}

func renderBar(b display.Bar) string {
	return "[" +
		selfBarStyle.Render(strings.Repeat("#", b.Self)) +
		childBarStyle.Render(strings.Repeat("=", b.Children)) +
		strings.Repeat(" ", b.Empty) + "]"
}

func (m model) renderInfoBar() string {
	text := "Select a process to view its command line"
	if n, ok := m.ctrl.Selected(); ok {
		text = n.Cmdline
		if text == "" {
			text = n.Label
		}
		text = fmt.Sprintf("%d: %s", n.PID, text)
	}
	width := max(m.width, 1)
	return infoStyle.Width(width).Render(truncate(text, width))
}

func (m model) renderStatus() string {
	if m.stale && m.lastErr != nil {
		return staleStyle.Render("snapshot failed: " + m.lastErr.Error())
	}
	if m.frame == nil {
		return ""
	}
	diags := m.frame.Forest.Diagnostics
	if len(diags) == 0 {
		return helpStyle.Render(fmt.Sprintf("%d roots", len(m.frame.Forest.Roots)))
	}
	msg := fmt.Sprintf("%d diagnostic(s): %s", len(diags), diags[0].Message)
	return diagStyle.Render(truncate(msg, max(m.width, 1)))
}

// renderDetail renders the process detail overlay.
func (m model) renderDetail(n *proctree.Node) string {
	var sb strings.Builder

	kvLine := func(k, val string) {
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", k+":", val))
	}

	sb.WriteString(titleStyle.Render("  Process Detail") + "\n")
	sb.WriteString(strings.Repeat("─", 44) + "\n")
	kvLine("Name", n.Label)
	kvLine("PID", fmt.Sprintf("%d", n.PID))
	if n.IsRoot() {
		kvLine("Parent", "-")
	} else {
		kvLine("Parent", fmt.Sprintf("%d", n.Parent))
	}
	user := n.User
	if user == "" {
		user = "-"
	}
	kvLine("User", user)
	kvLine("Self", units.FormatBytes(n.Self))
	kvLine("Total", units.FormatBytes(n.Total))
	kvLine("Children", fmt.Sprintf("%d", len(n.Children)))
	if total := m.frame.Forest.TotalFootprint(); total > 0 {
		kvLine("Share", fmt.Sprintf("%.1f%%", units.Percent(n.Total, total)))
	}
	cmd := n.Cmdline
	if cmd == "" {
		cmd = "-"
	}
	maxCmd := max(min(m.width-24, 80), 20)
	for i, line := range wrap(cmd, maxCmd) {
		if i == 0 {
			kvLine("Command", line)
		} else {
			kvLine("", line)
		}
	}
	sb.WriteString(strings.Repeat("─", 44) + "\n")
	sb.WriteString(helpStyle.Render("  Press [esc] or [i] to close"))

	return sb.String()
}

// overlayCenter places an overlay panel in the center of the base view.
func (m model) overlayCenter(base, overlay string) string {
	overlayWidth := lipgloss.Width(overlay) + 4 // padding

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Width(overlayWidth)

	box := boxStyle.Render(overlay)
	boxLines := strings.Split(box, "\n")
	boxHeight := len(boxLines)
	boxWidth := lipgloss.Width(box)

	baseLines := strings.Split(base, "\n")

	startY := max((m.height-boxHeight)/2, 0)
	startX := max((m.width-boxWidth)/2, 0)

	for len(baseLines) < startY+boxHeight {
		baseLines = append(baseLines, "")
	}

	for i, boxLine := range boxLines {
		y := startY + i
		baseLine := baseLines[y]
		baseVisWidth := lipgloss.Width(baseLine)

		var result strings.Builder
		if startX > 0 {
			if baseVisWidth >= startX {
				result.WriteString(ansi.Truncate(baseLine, startX, "") + "\033[0m")
			} else {
				result.WriteString(baseLine)
				result.WriteString(strings.Repeat(" ", startX-baseVisWidth))
			}
		}
		result.WriteString(boxLine)
		baseLines[y] = result.String()
	}

	if len(baseLines) > m.height {
		baseLines = baseLines[:m.height]
	}
	return strings.Join(baseLines, "\n")
}

// truncate cuts s to n terminal cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if ansi.StringWidth(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "…")
}

// wrap breaks s into lines of at most n cells.
func wrap(s string, n int) []string {
	return strings.Split(ansi.Hardwrap(s, n, true), "\n")
}
