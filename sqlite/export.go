package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/mdclip"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ mdclip.ExportService = (*ExportService)(nil)

// ExportService implements mdclip.ExportService using SQLite.
type ExportService struct {
	db *DB
}

// NewExportService creates a new ExportService.
func NewExportService(db *DB) *ExportService {
	return &ExportService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	var b [8]byte
	h := xxhash.Sum64String(content)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

// CreateExport records an export, assigning its ID, hash and timestamp.
func (s *ExportService) CreateExport(ctx context.Context, e *mdclip.Export) error {
	if err := e.Validate(); err != nil {
		return err
	}

	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	e.ContentHash = hashContent(e.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (id, policy, transform, path, characters, content, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Policy, string(e.Transform), e.Path, e.Characters, e.Content, e.ContentHash,
		e.CreatedAt.Format(time.RFC3339))

	return err
}

// FindExportByID retrieves an export by ID.
func (s *ExportService) FindExportByID(ctx context.Context, id string) (*mdclip.Export, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, policy, transform, path, characters, content, content_hash, created_at
		FROM exports
		WHERE id = ?
	`, id)

	e, err := scanExport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdclip.Errorf(mdclip.ENOTFOUND, "export %s not found", id)
	}
	return e, err
}

// FindExports retrieves exports matching the filter, newest first.
func (s *ExportService) FindExports(ctx context.Context, filter mdclip.ExportFilter) ([]*mdclip.Export, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, policy, transform, path, characters, content, content_hash, created_at FROM exports WHERE 1=1")

	if filter.Policy != nil {
		query.WriteString(" AND policy = ?")
		args = append(args, *filter.Policy)
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}

	// Timestamps have second resolution; rowid orders exports within a second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendHistoryPage(&query, &args, filter)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*mdclip.Export
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}

	return exports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(row scanner) (*mdclip.Export, error) {
	var e mdclip.Export
	var transform, createdAt string

	if err := row.Scan(&e.ID, &e.Policy, &transform, &e.Path, &e.Characters,
		&e.Content, &e.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	e.Transform = mdclip.Transform(transform)
	e.CreatedAt, err = parseCreatedAt(e.ID, createdAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}
