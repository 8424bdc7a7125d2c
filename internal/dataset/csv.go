package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type csvSource struct{}

func (csvSource) CanOpen(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvSource) Open(path string, opt Options) (Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim

	c := &csvRows{f: f, r: r, path: path}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		_ = f.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	c.header = cleanHeader(header)
	return c, nil
}

type csvRows struct {
	f      *os.File
	r      *csv.Reader
	path   string
	header []string
	line   int
}

func (c *csvRows) Header() []string { return c.header }

func (c *csvRows) Next() ([]string, error) {
	if c.header == nil {
		return nil, io.EOF
	}
	rec, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read %s row %d: %w", c.path, c.line+1, err)
	}
	c.line++
	return rec, nil
}

func (c *csvRows) Close() error { return c.f.Close() }

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	// Filename heuristic only; sniffing content would mean reading past the header.
	return ','
}
