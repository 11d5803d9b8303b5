package display

import "strings"

// Bar is a usage bar split into the node's own share and its children's
// share of the siblings' combined total.
type Bar struct {
	Self     int
	Children int
	Empty    int
}

// NewBar sizes a bar of width cells. siblings is the sum of the Total of
// the node and all of its siblings; a zero sum yields an empty bar.
func NewBar(self, total, siblings int64, width int) Bar {
	if width <= 0 {
		return Bar{}
	}
	if siblings <= 0 || total <= 0 {
		return Bar{Empty: width}
	}
	if self < 0 {
		self = 0
	}
	filled := int(float64(total) / float64(siblings) * float64(width))
	own := int(float64(self) / float64(siblings) * float64(width))
	filled = min(filled, width)
	own = min(own, filled)
	return Bar{Self: own, Children: filled - own, Empty: width - filled}
}

// Width returns the number of cells between the brackets.
func (b Bar) Width() int { return b.Self + b.Children + b.Empty }

// Plain renders the bar without color: '#' for self, '=' for children.
func (b Bar) Plain() string {
	return "[" + strings.Repeat("#", b.Self) + strings.Repeat("=", b.Children) + strings.Repeat(" ", b.Empty) + "]"
}

// ANSI renders the bar with the self part blue and the children part green.
func (b Bar) ANSI() string {
	var sb strings.Builder
	sb.WriteString("[")
	if b.Self > 0 {
		sb.WriteString(Blue(strings.Repeat("#", b.Self)))
	}
	if b.Children > 0 {
		sb.WriteString(Green(strings.Repeat("=", b.Children)))
	}
	sb.WriteString(strings.Repeat(" ", b.Empty))
	sb.WriteString("]")
	return sb.String()
}

// Prefix draws the tree guides for a row at depth with the given ancestor
// guides, as in "│  ├─ ".
func Prefix(depth int, last bool, guides []bool) string {
	if depth == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 1; i < depth && i < len(guides); i++ {
		if guides[i] {
			sb.WriteString("│  ")
		} else {
			sb.WriteString("   ")
		}
	}
	if last {
		sb.WriteString("└─ ")
	} else {
		sb.WriteString("├─ ")
	}
	return sb.String()
}
