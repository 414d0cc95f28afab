package csvload

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const bom = "\uFEFF"

// table is a parsed CSV file: a header row and data rows.
type table struct {
	name   string
	header []string
	rows   [][]string
}

func readTable(name string, r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFile, name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrReadFile, name)
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return &table{name: name, header: header, rows: records[1:]}, nil
}

func readFile(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFile, err)
	}
	defer func() { _ = f.Close() }()
	return readTable(path, f)
}

// column returns the index of the first header matching any of names,
// case-insensitively.
func (t *table) column(names ...string) (int, error) {
	for _, want := range names {
		for i, h := range t.header {
			if strings.EqualFold(h, want) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %s needs one of %q", ErrMissingColumn, t.name, names)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount reads a whole non-negative amount, tolerating currency signs and
// thousands separators. Blank cells read as zero.
func parseAmount(s string) (int, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadValue, s)
	case f < 0:
		return 0, fmt.Errorf("%w: %q is negative", ErrBadValue, s)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: %q is not a whole amount", ErrBadValue, s)
	}
	return int(f), nil
}
