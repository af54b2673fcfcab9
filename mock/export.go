package mock

import (
	"context"

	"github.com/fwojciec/mdclip"
)

var _ mdclip.ExportService = (*ExportService)(nil)

// ExportService is a mock implementation of mdclip.ExportService.
type ExportService struct {
	CreateExportFn   func(ctx context.Context, e *mdclip.Export) error
	FindExportByIDFn func(ctx context.Context, id string) (*mdclip.Export, error)
	FindExportsFn    func(ctx context.Context, filter mdclip.ExportFilter) ([]*mdclip.Export, error)
}

func (s *ExportService) CreateExport(ctx context.Context, e *mdclip.Export) error {
	return s.CreateExportFn(ctx, e)
}

func (s *ExportService) FindExportByID(ctx context.Context, id string) (*mdclip.Export, error) {
	return s.FindExportByIDFn(ctx, id)
}

func (s *ExportService) FindExports(ctx context.Context, filter mdclip.ExportFilter) ([]*mdclip.Export, error) {
	return s.FindExportsFn(ctx, filter)
}
