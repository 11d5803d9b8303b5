package proctree

import "sort"

const (
	unvisited uint8 = iota
	onPath
	done
)

// Build turns a flat snapshot into an aggregated Forest. It never fails:
// duplicates, dangling parents, cycles and bad footprints are repaired and
// reported through Forest.Diagnostics.
func Build(records []Record) *Forest {
	f := &Forest{nodes: make(map[int]*Node, len(records))}

	// Last write wins on a duplicate identity.
	latest := make(map[int]Record, len(records))
	for _, r := range records {
		if _, dup := latest[r.PID]; dup {
			f.Diagnostics = append(f.Diagnostics, diagf(DiagDuplicate, r.PID, "duplicate record for pid %d", r.PID))
		}
		latest[r.PID] = r
	}

	ids := make([]int, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		r := latest[id]
		f.nodes[id] = &Node{
			PID:     id,
			Parent:  NoParent,
			Label:   r.Label,
			User:    r.User,
			Cmdline: r.Cmdline,
			Self:    f.footprint(r),
		}
	}

	demoted := findCycles(ids, latest)

	for _, id := range ids {
		n := f.nodes[id]
		ppid := latest[id].PPID
		switch {
		case demoted[id]:
			f.cycles++
			f.Diagnostics = append(f.Diagnostics, diagf(DiagCycle, id, "cycle detected at %d", id))
			f.Roots = append(f.Roots, n)
		case f.nodes[ppid] != nil:
			n.Parent = ppid
			parent := f.nodes[ppid]
			parent.Children = append(parent.Children, n)
		case ppid <= 0:
			// Parent 0 or below that is not in the snapshot is the kernel.
			f.Roots = append(f.Roots, n)
		default:
			f.Diagnostics = append(f.Diagnostics, diagf(DiagOrphan, id, "parent %d of pid %d not in snapshot", ppid, id))
			f.Roots = append(f.Roots, n)
		}
	}

	Aggregate(f)
	return f
}

func (f *Forest) footprint(r Record) int64 {
	switch {
	case r.Footprint == FootprintUnknown:
		f.Diagnostics = append(f.Diagnostics, diagf(DiagMalformed, r.PID, "missing footprint for pid %d", r.PID))
		return 0
	case r.Footprint < 0:
		f.Diagnostics = append(f.Diagnostics, diagf(DiagMalformed, r.PID, "negative footprint for pid %d", r.PID))
		return 0
	}
	return r.Footprint
}

// findCycles walks every declared parent chain once and returns the members
// that must become roots so that the constructed tree is acyclic. One member
// per cycle is demoted: the smallest identity, so the result does not depend
// on map iteration order.
func findCycles(ids []int, latest map[int]Record) map[int]bool {
	demoted := make(map[int]bool)
	state := make(map[int]uint8, len(ids))
	pos := make(map[int]int)
	var path []int

	for _, start := range ids {
		if state[start] == done {
			continue
		}
		path = path[:0]
		clear(pos)
		cur := start
		for steps := 0; ; steps++ {
			if steps > len(ids) {
				// A chain longer than the snapshot can only be a loop.
				demoted[cur] = true
				break
			}
			if state[cur] == done {
				break
			}
			if state[cur] == onPath {
				demoted[minID(path[pos[cur]:])] = true
				break
			}
			state[cur] = onPath
			pos[cur] = len(path)
			path = append(path, cur)

			ppid := latest[cur].PPID
			if _, ok := latest[ppid]; !ok {
				break
			}
			cur = ppid
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return demoted
}

func minID(ids []int) int {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}
