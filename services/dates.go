package services

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// strictDateLayout matches values like "August 4, 2017"
const strictDateLayout = "January 2, 2006"

// DateColumn is the result of parsing a whole date-added column
type DateColumn struct {
	Dates    []*time.Time // nil entries are absent
	Trimmed  []string
	Fallback bool // the mixed-format pass replaced the strict pass
	Unparsed int
}

// ParseDateColumn parses every value with the strict layout first. If any
// value is left unparsed (absent values included), the strict results are
// discarded and every value is parsed again with the mixed-format parser.
// The second pass can change values the first pass already accepted.
func ParseDateColumn(raw []string) DateColumn {
	col := DateColumn{
		Dates:   make([]*time.Time, len(raw)),
		Trimmed: make([]string, len(raw)),
	}
	for i, v := range raw {
		col.Trimmed[i] = strings.TrimSpace(v)
	}

	failed := false
	for i, v := range col.Trimmed {
		col.Dates[i] = parseStrictDate(v)
		if col.Dates[i] == nil {
			failed = true
		}
	}

	if failed {
		col.Fallback = true
		for i, v := range col.Trimmed {
			col.Dates[i] = parseMixedDate(v)
		}
	}

	for _, d := range col.Dates {
		if d == nil {
			col.Unparsed++
		}
	}
	return col
}

func isAbsentDate(v string) bool {
	return v == "" || v == "NaT" || v == "nan"
}

func parseStrictDate(v string) *time.Time {
	if isAbsentDate(v) {
		return nil
	}
	t, err := time.Parse(strictDateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

// parseMixedDate infers the format of each value independently.
// Ambiguous numeric dates are read month first ("4/8/2017" is April 8);
// day first is only tried when month first overflows ("31/12/2020").
// Values without a year ("4/8") are absent.
func parseMixedDate(v string) *time.Time {
	if isAbsentDate(v) {
		return nil
	}
	t, err := dateparse.ParseIn(v, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil || t.Year() <= 0 {
		return nil
	}
	// the day-first retry parses in time.Local
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return &t
}
