package services

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"catalog-dashboard/models"
	"catalog-dashboard/storage"
	"catalog-dashboard/utils"
)

// Loader reads a catalog CSV and produces an immutable snapshot
type Loader struct {
	cleaner  *DataCleaner
	insights *InsightService
	logger   *utils.Logger
	now      func() time.Time
}

// NewLoader creates a new Loader
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{
		cleaner:  NewDataCleaner(logger),
		insights: NewInsightService(logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the file at path and derives every aggregate table
func (l *Loader) Load(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}
	return l.LoadBytes(path, data)
}

// LoadBytes builds a catalog from contents already read from path.
// The result depends only on data (LoadedAt aside).
func (l *Loader) LoadBytes(path string, data []byte) (*models.Catalog, error) {
	table, err := storage.ParseTable(data)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: KindMalformed, cause: err}
	}

	if missing := MissingColumns(table); len(missing) > 0 {
		return nil, &LoadError{Path: path, Kind: KindSchema, Missing: missing}
	}

	titles, dates := l.cleaner.Clean(table)

	cat := &models.Catalog{
		Path:          path,
		Digest:        table.Digest,
		LoadedAt:      l.now(),
		Titles:        titles,
		Aggregates:    l.insights.Summarize(titles),
		UnparsedDates: dates.Unparsed,
	}

	l.logger.Info("Loaded %s: %d titles, %d unparsed dates", path, len(titles), cat.UnparsedDates)
	return cat, nil
}

func classifyReadError(path string, err error) *LoadError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &LoadError{Path: path, Kind: KindNotFound, cause: err}
	default:
		return &LoadError{Path: path, Kind: KindUnreadable, cause: err}
	}
}
