package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ncmu-dev/ncmu/internal/proctree"
)

// PS reads the live process table through gopsutil.
type PS struct {
	Metric Metric
}

// Snapshot enumerates every visible process. Processes that exit while
// being read are skipped; unreadable memory figures are reported as
// proctree.FootprintUnknown.
func (s *PS) Snapshot(ctx context.Context) ([]proctree.Record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	records := make([]proctree.Record, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ppid, err := p.PpidWithContext(ctx)
		if err != nil {
			continue // exited
		}
		r := proctree.Record{
			PID:       int(p.Pid),
			PPID:      int(ppid),
			Footprint: proctree.FootprintUnknown,
		}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			r.Footprint = s.Metric.pick(mi.RSS, mi.Swap)
		}
		if name, err := p.NameWithContext(ctx); err == nil {
			r.Label = name
		}
		if user, err := p.UsernameWithContext(ctx); err == nil {
			r.User = user
		}
		if cmd, err := p.CmdlineWithContext(ctx); err == nil {
			r.Cmdline = strings.TrimSpace(cmd)
		}
		if r.Label == "" {
			r.Label = fmt.Sprintf("[%d]", r.PID)
		}
		records = append(records, r)
	}
	return records, nil
}

// SystemMemory is the machine-wide memory picture shown in the header.
type SystemMemory struct {
	Total     uint64
	Used      uint64
	SwapTotal uint64
	SwapUsed  uint64
}

// ReadSystemMemory queries physical and swap memory usage.
func ReadSystemMemory(ctx context.Context) (SystemMemory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("virtual memory: %w", err)
	}
	sm := SystemMemory{Total: vm.Total, Used: vm.Used}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		sm.SwapTotal = sw.Total
		sm.SwapUsed = sw.Used
	}
	return sm, nil
}
