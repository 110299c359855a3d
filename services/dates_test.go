package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateColumn_StrictOnly(t *testing.T) {
	col := ParseDateColumn([]string{"August 4, 2017", " September 25, 2021 ", "January 01, 2020"})

	assert.False(t, col.Fallback)
	assert.Equal(t, 0, col.Unparsed)
	require.NotNil(t, col.Dates[0])
	assert.Equal(t, time.Date(2017, time.August, 4, 0, 0, 0, 0, time.UTC), *col.Dates[0])
	assert.Equal(t, 2021, col.Dates[1].Year())
	assert.Equal(t, "September 25, 2021", col.Trimmed[1])
	assert.Equal(t, time.January, col.Dates[2].Month())
}

func TestParseDateColumn_FallbackReparsesEveryRow(t *testing.T) {
	col := ParseDateColumn([]string{"August 4, 2017", "4/8/2017", "2019-11-20"})

	assert.True(t, col.Fallback)
	assert.Equal(t, 0, col.Unparsed)

	// The strict-format row went through the mixed parser too and still
	// lands on the same day.
	require.NotNil(t, col.Dates[0])
	assert.Equal(t, time.Date(2017, time.August, 4, 0, 0, 0, 0, time.UTC), *col.Dates[0])

	// Ambiguous numeric dates read month first.
	require.NotNil(t, col.Dates[1])
	assert.Equal(t, 2017, col.Dates[1].Year())
	assert.Equal(t, time.April, col.Dates[1].Month())
	assert.Equal(t, 8, col.Dates[1].Day())

	require.NotNil(t, col.Dates[2])
	assert.Equal(t, 2019, col.Dates[2].Year())
}

func TestParseDateColumn_AbsentValues(t *testing.T) {
	col := ParseDateColumn([]string{"August 4, 2017", "", "  ", "NaT", "nan"})

	// Absent values are unparsed after the strict pass, so the fallback runs.
	assert.True(t, col.Fallback)
	assert.Equal(t, 4, col.Unparsed)
	require.NotNil(t, col.Dates[0])
	assert.Equal(t, 2017, col.Dates[0].Year())
	for i := 1; i < 5; i++ {
		assert.Nil(t, col.Dates[i], "row %d", i)
	}
}

func TestParseDateColumn_Unparseable(t *testing.T) {
	col := ParseDateColumn([]string{"13/45/2020", "March 3, 2020"})

	assert.True(t, col.Fallback)
	assert.Nil(t, col.Dates[0])
	require.NotNil(t, col.Dates[1])
	assert.Equal(t, 2020, col.Dates[1].Year())
	assert.Equal(t, 1, col.Unparsed)
}

func TestParseDateColumn_Empty(t *testing.T) {
	col := ParseDateColumn(nil)

	assert.False(t, col.Fallback)
	assert.Empty(t, col.Dates)
	assert.Equal(t, 0, col.Unparsed)
}

func TestParseStrictDate_RejectsOtherLayouts(t *testing.T) {
	for _, v := range []string{"Aug 4, 2017", "4/8/2017", "2017-08-04", "August 4 2017", "NaT"} {
		assert.Nil(t, parseStrictDate(v), v)
	}
	assert.NotNil(t, parseStrictDate("august 4, 2017"))
}

func TestParseDateColumn_DayFirstRetry(t *testing.T) {
	col := ParseDateColumn([]string{"August 4, 2017", "31/12/2020", "4/8/2017"})

	assert.True(t, col.Fallback)
	assert.Equal(t, 0, col.Unparsed)
	require.NotNil(t, col.Dates[1])
	assert.Equal(t, time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), *col.Dates[1])
	// month first still wins when both readings are valid
	require.NotNil(t, col.Dates[2])
	assert.Equal(t, time.April, col.Dates[2].Month())
}

func TestParseDateColumn_NoYearIsAbsent(t *testing.T) {
	col := ParseDateColumn([]string{"September 25, 2019", "4/8", "1:2"})

	assert.True(t, col.Fallback)
	require.NotNil(t, col.Dates[0])
	assert.Equal(t, 2019, col.Dates[0].Year())
	assert.Nil(t, col.Dates[1])
	assert.Nil(t, col.Dates[2])
	assert.Equal(t, 2, col.Unparsed)
}
