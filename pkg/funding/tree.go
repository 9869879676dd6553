package funding

import (
	"fmt"
	"strings"
)

// Render draws the attribution as a box-drawing tree. The root line carries
// the label (typically the project path) and the run summary; each branch is
// a funding endpoint, each leaf a crate. Output is deterministic for a given
// attribution.
func Render(attr *Attribution, sum Summary, label string) string {
	var b strings.Builder

	summary := fmt.Sprintf("found funding links for %d out of %d dependencies", sum.Attributed, sum.Total)
	if label != "" {
		fmt.Fprintf(&b, "%s (%s)\n", label, summary)
	} else {
		b.WriteString(summary + "\n")
	}

	endpoints := attr.Endpoints()
	for i, endpoint := range endpoints {
		branch, indent := "├── ", "│   "
		if i == len(endpoints)-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(branch + endpoint + "\n")

		crates := attr.Crates(endpoint)
		for j, crate := range crates {
			leaf := "├── "
			if j == len(crates)-1 {
				leaf = "└── "
			}
			b.WriteString(indent + leaf + crate.String() + "\n")
		}
	}
	return b.String()
}
