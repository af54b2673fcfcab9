package mdclip

import (
	"context"
	"time"
)

// Export records a completed export.
type Export struct {
	ID          string    `json:"id"`
	Policy      string    `json:"policy"`
	Transform   Transform `json:"transform"`
	Path        string    `json:"path"`
	Characters  int       `json:"characters"`
	ContentHash string    `json:"contentHash"`
	Content     string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the export contains invalid fields.
func (e *Export) Validate() error {
	if e.Policy == "" {
		return Errorf(EINVALID, "export policy required")
	}
	if e.Path == "" {
		return Errorf(EINVALID, "export path required")
	}
	return nil
}

// ExportService represents a service for recording export history.
type ExportService interface {
	// CreateExport records an export. ID, hash and timestamp are assigned.
	CreateExport(ctx context.Context, e *Export) error

	// FindExportByID retrieves an export, content included.
	// Returns ENOTFOUND if the export does not exist.
	FindExportByID(ctx context.Context, id string) (*Export, error)

	// FindExports retrieves exports matching the filter, newest first.
	FindExports(ctx context.Context, filter ExportFilter) ([]*Export, error)
}

// ExportFilter represents a filter for FindExports.
type ExportFilter struct {
	Policy *string `json:"policy"`
	Path   *string `json:"path"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
