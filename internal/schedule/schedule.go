package schedule

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/graph"
)

// Wave is an ordered set of nodes scheduled to run together. Every
// dependency of every member is satisfied before the wave starts, so no
// member may depend on another member's output.
type Wave []*graph.Node

// StuckNode describes one node that could never become eligible, together
// with the dependencies that were still unsatisfied when planning gave up.
type StuckNode struct {
	Node    *graph.Node
	Missing []string
}

// UnsatisfiedError is the single structural planning error: no further wave
// could be formed while nodes remained. It covers both a reference to a
// variable nothing produces and a true dependency cycle; forward
// reachability alone cannot tell the two apart, but the per-node missing
// lists give callers enough to do so.
type UnsatisfiedError struct {
	Stuck []StuckNode
}

// Error implements the error interface.
func (e *UnsatisfiedError) Error() string {
	var sb strings.Builder
	sb.WriteString("no progress possible: ")
	for i, s := range e.Stuck {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "step %d (%s) waiting on [%s]",
			s.Node.Index, s.Node.Step.String(), strings.Join(s.Missing, ", "))
	}
	return sb.String()
}

// Compute turns a dependency graph into an ordered sequence of execution
// waves. preSatisfied names variables that exist before wave 0 (externally
// supplied inputs); it may be nil.
//
// The algorithm is an iterative level-order (Kahn-style) sweep: each round
// collects every not-yet-scheduled node whose dependencies are all
// satisfied, preserving the original pipeline order within the wave, then
// marks that wave's outputs satisfied. A round that collects nothing while
// nodes remain means the pipeline as authored cannot run, and Compute
// returns an *UnsatisfiedError naming every stuck node.
//
// Compute is a pure function over the given nodes: it performs no I/O and
// never mutates them. An empty node list yields zero waves. Worst case is
// O(waves × nodes), fine for user-authored pipeline sizes.
func Compute(ctx context.Context, nodes []*graph.Node, preSatisfied map[string]struct{}) ([]Wave, error) {
	logger := ctxlog.FromContext(ctx)

	satisfied := make(map[string]struct{}, len(preSatisfied))
	for name := range preSatisfied {
		satisfied[name] = struct{}{}
	}

	remaining := make([]*graph.Node, len(nodes))
	copy(remaining, nodes)

	var waves []Wave
	for len(remaining) > 0 {
		var wave Wave
		var blocked []*graph.Node
		for _, node := range remaining {
			if unmet(node, satisfied) == nil {
				wave = append(wave, node)
			} else {
				blocked = append(blocked, node)
			}
		}

		if len(wave) == 0 {
			stuck := make([]StuckNode, len(blocked))
			for i, node := range blocked {
				stuck[i] = StuckNode{Node: node, Missing: unmet(node, satisfied)}
			}
			return nil, &UnsatisfiedError{Stuck: stuck}
		}

		for _, node := range wave {
			for _, out := range node.Outputs {
				satisfied[out] = struct{}{}
			}
		}
		waves = append(waves, wave)
		remaining = blocked
		logger.Debug("Execution wave formed.",
			"wave", len(waves)-1, "members", len(wave), "remaining", len(remaining))
	}
	return waves, nil
}

// unmet returns the node's unsatisfied dependencies, sorted, or nil when the
// node is eligible.
func unmet(node *graph.Node, satisfied map[string]struct{}) []string {
	var missing []string
	for dep := range node.Dependencies {
		if _, ok := satisfied[dep]; !ok {
			missing = append(missing, dep)
		}
	}
	sort.Strings(missing)
	return missing
}
