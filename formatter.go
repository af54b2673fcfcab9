package mdclip

import (
	"fmt"
	"strings"
)

// FormatExports formats export history for display, one export per line.
func FormatExports(exports []*Export) string {
	if len(exports) == 0 {
		return ""
	}

	lines := make([]string, 0, len(exports))
	for _, e := range exports {
		lines = append(lines, fmt.Sprintf("%s  %s  %-12s %-8s %6d  %s",
			e.ID, e.CreatedAt.UTC().Format("2006-01-02 15:04"), e.Policy, e.Transform, e.Characters, e.Path))
	}

	return strings.Join(lines, "\n")
}
