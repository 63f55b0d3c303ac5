package schedule

import (
	"fmt"
	"strings"
)

// Describe renders a plan as human-readable text, one line per wave, in a
// stable format suitable for --dry-run output and golden tests.
func Describe(waves []Wave) string {
	var sb strings.Builder
	for i, wave := range waves {
		fmt.Fprintf(&sb, "wave %d:\n", i)
		for _, node := range wave {
			fmt.Fprintf(&sb, "  [%d] %s", node.Index, node.Step.String())
			if deps := node.DependencyNames(); len(deps) > 0 {
				fmt.Fprintf(&sb, "  (needs %s)", strings.Join(deps, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
