package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-dashboard/models"
	"catalog-dashboard/utils"
)

func sampleCatalog() *models.Catalog {
	return &models.Catalog{
		Path:          "titles.csv",
		Digest:        "abc123",
		LoadedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Titles:        make([]models.Title, 4),
		UnparsedDates: 1,
		Aggregates: models.Aggregates{
			TypeCounts:   []models.LabelCount{{Label: "Movie", Count: 3}, {Label: "TV Show", Count: 1}},
			ByYear:       []models.YearCount{{Year: 2019, Count: 1}, {Year: 2021, Count: 2}},
			TopCountries: []models.LabelCount{{Label: "United States", Count: 2}, {Label: "France", Count: 1}},
			TopGenres:    []models.LabelCount{{Label: "Dramas", Count: 3}},
		},
	}
}

func TestParseCSV_PadsShortRowsAndStripsBOM(t *testing.T) {
	in := "\ufefftype,title,country\nMovie,A,France\nTV Show,B\n"

	table, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"type", "title", "country"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"TV Show", "B", ""}, table.Rows[1])

	col, ok := table.Column("type")
	assert.True(t, ok)
	assert.Equal(t, 0, col)
	_, ok = table.Column("cast")
	assert.False(t, ok)
}

func TestParseCSV_QuotedCommas(t *testing.T) {
	in := "type,country\nMovie,\"United States, France\"\n"

	table, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "United States, France", table.Rows[0][1])
}

func TestParseCSV_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrNoHeader)
	})

	t.Run("too many fields", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("a,b\n1,2,3\n"))
		var widthErr *RowWidthError
		require.True(t, errors.As(err, &widthErr))
		assert.Equal(t, 2, widthErr.Line)
		assert.Equal(t, 3, widthErr.Fields)
	})

	t.Run("bare quote", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("a,b\n\"x,y\n"))
		var parseErr *csv.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestParseTable_DigestIsStable(t *testing.T) {
	data := []byte("type\nMovie\n")

	first, err := ParseTable(data)
	require.NoError(t, err)
	second, err := ParseTable(data)
	require.NoError(t, err)

	assert.Len(t, first.Digest, 64)
	assert.Equal(t, first.Digest, second.Digest)
	assert.NotEqual(t, first.Digest, Digest([]byte("type\nTV Show\n")))
}

func TestCSVWriter_WriteAggregates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	writer := NewCSVWriter(dir, utils.NewNopLogger())

	require.NoError(t, writer.WriteAggregates(sampleCatalog()))

	data, err := os.ReadFile(filepath.Join(dir, ByYearFile))
	require.NoError(t, err)
	assert.Equal(t, "year_added,count\n2019,1\n2021,2\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, TopCountriesFile))
	require.NoError(t, err)
	assert.Equal(t, "country,count\nUnited States,2\nFrance,1\n", string(data))

	for _, name := range []string{TypeCountsFile, TopGenresFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestXLSXWriter_WriteAggregates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	writer := NewXLSXWriter(path, utils.NewNopLogger())

	require.NoError(t, writer.WriteAggregates(sampleCatalog()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, TypeCountsSheet, ByYearSheet, TopCountriesSheet, TopGenresSheet}, f.GetSheetList())

	rows, err := f.GetRows(TypeCountsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"type", "count"}, {"Movie", "3"}, {"TV Show", "1"}}, rows)

	titles, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "4", titles)
}

func TestSQLWriter_SQLiteSnapshot(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "export.db")

	writer, err := NewSQLWriter(DriverSQLite, dsn, 1, utils.NewNopLogger())
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.CreateTables(ctx))
	// Creating twice is a no-op.
	require.NoError(t, writer.CreateTables(ctx))

	require.NoError(t, writer.SaveSnapshot(ctx, "run-1", sampleCatalog()))

	n, err := writer.CountRows(ctx, "run-1", tableByYear)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = writer.CountRows(ctx, "run-1", tableTopGenres)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Same run id again violates the primary key and rolls back.
	err = writer.SaveSnapshot(ctx, "run-1", sampleCatalog())
	assert.Error(t, err)
	n, err = writer.CountRows(ctx, "run-1", tableTypeCounts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLWriter_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLWriter("mysql", "", 1, utils.NewNopLogger())
	assert.ErrorContains(t, err, "unsupported SQL driver")
}

func TestSQLWriter_BindPostgres(t *testing.T) {
	w := &SQLWriter{driver: DriverPostgres}
	assert.Equal(t, "VALUES ($1, $2, $3)", w.bind("VALUES (?, ?, ?)"))

	w = &SQLWriter{driver: DriverSQLite}
	assert.Equal(t, "VALUES (?, ?)", w.bind("VALUES (?, ?)"))
}
