package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/mdclip"
)

// parseCreatedAt reads the created_at column of the export with the given ID.
// Rows are written with second resolution in UTC.
func parseCreatedAt(id, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, mdclip.Errorf(mdclip.EINTERNAL, "export %s has a malformed created_at %q", id, value)
	}
	return t.UTC(), nil
}

// appendHistoryPage limits a history query to the page the filter asks for.
// SQLite only accepts OFFSET after LIMIT, so an offset without a limit
// pages with LIMIT -1 (no upper bound).
func appendHistoryPage(query *strings.Builder, args *[]any, filter mdclip.ExportFilter) {
	limit := filter.Limit
	if limit <= 0 && filter.Offset <= 0 {
		return
	}
	if limit <= 0 {
		limit = -1
	}
	query.WriteString(" LIMIT ?")
	*args = append(*args, limit)
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, filter.Offset)
	}
}
