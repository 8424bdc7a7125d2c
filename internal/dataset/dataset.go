// Package dataset reads tabular input files (CSV, TSV and XLSX) as a header
// row followed by string records.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Options controls how input files are read.
type Options struct {
	// Delimiter for CSV. If 0, it is sniffed from the file extension.
	Delimiter rune
	// SheetName selects the XLSX sheet. Empty means the first sheet.
	SheetName string
}

// Rows iterates over the data rows of an open file. The header has already
// been consumed when Open returns.
type Rows interface {
	// Header returns the column names in file order.
	Header() []string
	// Next returns the next record, or io.EOF once the file is exhausted.
	// Records may be shorter than the header.
	Next() ([]string, error)
	Close() error
}

// source opens one file format.
type source interface {
	CanOpen(filename string) bool
	Open(path string, opt Options) (Rows, error)
}

var registry []source

func register(s source) {
	registry = append(registry, s)
}

func init() {
	register(xlsxSource{})
	register(csvSource{})
}

// ErrUnsupported indicates a file format that no source can read.
var ErrUnsupported = errors.New("unsupported file format")

// Open selects a source by file name and opens path, reading its header.
// Files without a recognised extension are read as CSV.
func Open(path string, opt Options) (Rows, error) {
	for _, s := range registry {
		if s.CanOpen(path) {
			return open(s, path, opt)
		}
	}
	if strings.HasSuffix(strings.ToLower(path), ".xls") {
		return nil, fmt.Errorf("%s: %w (save legacy .xls workbooks as .xlsx)", path, ErrUnsupported)
	}
	return open(csvSource{}, path, opt)
}

func open(s source, path string, opt Options) (Rows, error) {
	rows, err := s.Open(path, opt)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened dataset", slog.String("path", path), slog.Int("columns", len(rows.Header())))
	return rows, nil
}

// Columns returns the header of path in file order with its original casing.
// An empty file yields an empty slice. Only the header row is read.
func Columns(path string, opt Options) ([]string, error) {
	rows, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	h := rows.Header()
	out := make([]string, len(h))
	copy(out, h)
	return out, nil
}

// cleanHeader strips a UTF-8 byte order mark from the first column name.
func cleanHeader(h []string) []string {
	if len(h) > 0 {
		h[0] = strings.TrimPrefix(h[0], "\ufeff")
	}
	return h
}
