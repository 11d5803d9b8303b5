package proctree

import "fmt"

// DiagKind classifies a non-fatal condition found while building a forest.
type DiagKind string

const (
	DiagDuplicate DiagKind = "duplicate"
	DiagOrphan    DiagKind = "orphan"
	DiagCycle     DiagKind = "cycle"
	DiagMalformed DiagKind = "malformed"
	DiagInflation DiagKind = "inflation"
)

// Diagnostic is an advisory message about the snapshot. Diagnostics are
// never errors: the forest is always complete.
type Diagnostic struct {
	Kind    DiagKind `json:"kind"`
	PID     int      `json:"pid"`
	Message string   `json:"message"`
}

func (d Diagnostic) String() string { return d.Message }

func diagf(kind DiagKind, pid int, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, PID: pid, Message: fmt.Sprintf(format, args...)}
}
