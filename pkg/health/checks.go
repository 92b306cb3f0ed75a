package health

import (
	"runtime"

	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
)

// memoryDegradedRatio is the share of system memory in use above which the
// memory check degrades
const memoryDegradedRatio = 0.9

// Alive always reports healthy; it backs the /live endpoint
func Alive() Check {
	return Check{Name: "process", Status: StatusHealthy}
}

// DatasetCheck is unhealthy until a dataset has been loaded
func DatasetCheck(loaded func() bool) CheckFunc {
	return func() Check {
		if !loaded() {
			return Check{Name: "dataset", Status: StatusUnhealthy, Message: "no dataset loaded"}
		}
		return Check{Name: "dataset", Status: StatusHealthy, Message: "loaded"}
	}
}

// ViewCheck reports on the current graph and its view. A graph that could
// not be styled is degraded; untyped nodes are reported but stay healthy.
func ViewCheck(snapshot func() *visibility.Snapshot) CheckFunc {
	return func() Check {
		snap := snapshot()
		stats := snap.State.Graph.GetStatistics()
		check := Check{
			Name:   "view",
			Status: StatusHealthy,
			Details: map[string]any{
				"nodes":         stats.NodeCount,
				"edges":         stats.EdgeCount,
				"types":         stats.TypeCount,
				"predicates":    stats.PredicateCount,
				"untyped_nodes": stats.UntypedNodes,
			},
		}
		if snap.View == nil {
			check.Status = StatusDegraded
			check.Message = "graph loaded without styling"
			return check
		}
		check.Details["visible_nodes"] = snap.View.VisibleNodes()
		check.Details["visible_edges"] = snap.View.VisibleEdges()
		return check
	}
}

// RuntimeMemory reads allocated and obtained-from-system bytes
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}

// MemoryCheck degrades when most of the memory obtained from the system is
// allocated
func MemoryCheck(usage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := usage()
		check := Check{
			Name:    "memory",
			Status:  StatusHealthy,
			Details: map[string]any{"alloc_bytes": alloc, "sys_bytes": sys},
		}
		if sys > 0 && float64(alloc)/float64(sys) > memoryDegradedRatio {
			check.Status = StatusDegraded
			check.Message = "high memory usage"
		}
		return check
	}
}
