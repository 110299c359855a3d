package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalog-dashboard/models"
	"catalog-dashboard/utils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Table names in catalog_counts.table_name
const (
	tableTypeCounts   = "type_counts"
	tableByYear       = "by_year"
	tableTopCountries = "top_countries"
	tableTopGenres    = "top_genres"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS catalog_runs (
		run_id         TEXT PRIMARY KEY,
		source         TEXT      NOT NULL,
		sha256         TEXT      NOT NULL,
		titles         INTEGER   NOT NULL,
		unparsed_dates INTEGER   NOT NULL,
		loaded_at      TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_counts (
		run_id     TEXT    NOT NULL REFERENCES catalog_runs (run_id),
		table_name TEXT    NOT NULL,
		position   INTEGER NOT NULL,
		label      TEXT    NOT NULL,
		count      INTEGER NOT NULL,
		PRIMARY KEY (run_id, table_name, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_counts_table ON catalog_counts (table_name)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_runs_sha256 ON catalog_runs (sha256)`,
}

// SQLWriter exports catalog snapshots to PostgreSQL or SQLite
type SQLWriter struct {
	db     *sql.DB
	driver string
	logger *utils.Logger
}

// NewSQLWriter opens the database and pings it, retrying with backoff
func NewSQLWriter(driver, dsn string, maxRetries int, logger *utils.Logger) (*SQLWriter, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Minute * 5)

	err = utils.RetryWithBackoff(maxRetries, time.Second, db.Ping, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to %s successfully", driver)
	return &SQLWriter{db: db, driver: driver, logger: logger}, nil
}

// CreateTables creates the export tables if they don't exist
func (w *SQLWriter) CreateTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	w.logger.Info("Tables 'catalog_runs' and 'catalog_counts' are ready")
	return nil
}

// SaveSnapshot stores the run summary and every aggregate row in one transaction
func (w *SQLWriter) SaveSnapshot(ctx context.Context, runID string, cat *models.Catalog) (err error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, w.bind(`
		INSERT INTO catalog_runs (run_id, source, sha256, titles, unparsed_dates, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		runID, cat.Path, cat.Digest, len(cat.Titles), cat.UnparsedDates, cat.LoadedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, w.bind(`
		INSERT INTO catalog_counts (run_id, table_name, position, label, count)
		VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	insert := func(table string, pos int, label string, count int) error {
		if _, err := stmt.ExecContext(ctx, runID, table, pos, label, count); err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", table, pos, err)
		}
		inserted++
		return nil
	}

	agg := cat.Aggregates
	for i, c := range agg.TypeCounts {
		if err = insert(tableTypeCounts, i, c.Label, c.Count); err != nil {
			return err
		}
	}
	for i, c := range agg.ByYear {
		if err = insert(tableByYear, i, strconv.Itoa(c.Year), c.Count); err != nil {
			return err
		}
	}
	for i, c := range agg.TopCountries {
		if err = insert(tableTopCountries, i, c.Label, c.Count); err != nil {
			return err
		}
	}
	for i, c := range agg.TopGenres {
		if err = insert(tableTopGenres, i, c.Label, c.Count); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Stored run %s with %d aggregate rows", runID, inserted)
	return nil
}

// CountRows returns how many aggregate rows are stored for a run and table
func (w *SQLWriter) CountRows(ctx context.Context, runID, table string) (int, error) {
	var n int
	err := w.db.QueryRowContext(ctx,
		w.bind(`SELECT COUNT(*) FROM catalog_counts WHERE run_id = ? AND table_name = ?`),
		runID, table,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (w *SQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}

// bind rewrites ? placeholders into $N for PostgreSQL
func (w *SQLWriter) bind(query string) string {
	if w.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
