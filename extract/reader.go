// Package extract locates and parses the ad-hoc CSV exports feeding the
// pipeline. Exports arrive with unknown encodings and loosely-specified
// schemas, so reading is best-effort: a source that cannot be read yields
// an empty table and a warning, never an error past this boundary.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// DefaultEncodings is the fixed priority order tried for every candidate
// file. Latin-1 accepts any byte sequence, so it must come after UTF-8.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252"}

// Row is one CSV record keyed by lower-cased header name; column name case
// varies across export variants.
type Row map[string]string

// Get returns the value for a column, matching case-insensitively.
func (r Row) Get(column string) string {
	return r[strings.ToLower(column)]
}

// Table is the parsed result for one source. Path and Encoding record which
// candidate succeeded, for diagnostics.
type Table struct {
	Source   string `json:"source"`
	Path     string `json:"path,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	Rows     []Row  `json:"-"`
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Reader attempts each candidate path with each encoding until one parses.
type Reader struct {
	encodings []string
	logger    *zap.SugaredLogger
}

// NewReader creates a reader with the default encoding priority.
func NewReader(logger *zap.SugaredLogger) *Reader {
	return &Reader{encodings: DefaultEncodings, logger: logger}
}

// ReadSource reads the first candidate file that parses. Missing files and
// decode failures degrade to an empty table.
func (r *Reader) ReadSource(src Source) *Table {
	table := &Table{Source: src.Name()}

	for _, path := range src.Candidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				r.logger.Warnw("failed to read source file", "source", src.Name(), "path", path, "error", err)
			}
			continue
		}

		for _, encoding := range r.encodings {
			rows, err := parseCSV(data, encoding)
			if err != nil {
				continue
			}
			table.Path = path
			table.Encoding = encoding
			table.Rows = rows
			if limit := src.MaxRows(); limit > 0 && len(rows) > limit {
				table.Rows = rows[:limit]
			}
			r.logger.Infow("extracted source",
				"source", src.Name(), "path", path, "encoding", encoding, "rows", len(table.Rows))
			return table
		}
		r.logger.Warnw("no encoding could decode source file", "source", src.Name(), "path", path)
	}

	r.logger.Warnw("source unavailable, continuing with empty table", "source", src.Name())
	return table
}

func parseCSV(data []byte, encoding string) ([]Row, error) {
	text, err := decode(data, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decode(data []byte, encoding string) (string, error) {
	switch encoding {
	case "utf-8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("data is not valid UTF-8")
		}
		return string(data), nil
	case "latin-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("latin-1 decode failed: %w", err)
		}
		return string(out), nil
	case "cp1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("cp1252 decode failed: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}
