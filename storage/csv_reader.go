package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input has no header row
var ErrNoHeader = errors.New("no header row")

// RowWidthError reports a data row with more fields than the header
type RowWidthError struct {
	Line   int
	Fields int
	Header int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("line %d: expected at most %d fields, saw %d", e.Line, e.Header, e.Fields)
}

// Table is a parsed delimited file. Short rows are padded with empty cells.
type Table struct {
	Header []string
	Rows   [][]string
	Digest string // hex sha256 of the raw bytes
	index  map[string]int
}

// Column returns the position of a header name, matched exactly
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Digest returns the hex sha256 of raw file contents
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ParseTable parses raw file contents and records their digest
func ParseTable(data []byte) (*Table, error) {
	table, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	table.Digest = Digest(data)
	return table, nil
}

// ParseCSV parses comma-separated text with a header row
func ParseCSV(in io.Reader) (*Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{
		Header: header,
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := table.index[name]; !dup {
			table.index[name] = i
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &RowWidthError{Line: line, Fields: len(record), Header: len(header)}
		}
		if len(record) < len(header) {
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
