package storage

import (
	"context"

	"catalog-dashboard/models"
)

// TableWriter exports the aggregate tables of a finished snapshot to files
type TableWriter interface {
	WriteAggregates(cat *models.Catalog) error
}

// SnapshotStorage stores finished snapshots in a database. The pipeline never
// reads them back.
type SnapshotStorage interface {
	SaveSnapshot(ctx context.Context, runID string, cat *models.Catalog) error
	Close() error
}

var (
	_ TableWriter     = (*CSVWriter)(nil)
	_ TableWriter     = (*XLSXWriter)(nil)
	_ SnapshotStorage = (*SQLWriter)(nil)
)
