package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxSource struct{}

func (xlsxSource) CanOpen(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func (xlsxSource) Open(path string, opt Options) (Rows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	sheets := f.GetSheetList()
	sheet := opt.SheetName
	if sheet == "" {
		if len(sheets) == 0 {
			return &xlsxRows{f: f}, nil
		}
		sheet = sheets[0]
	} else if name, ok := findFold(sheets, sheet); ok {
		sheet = name
	} else {
		_ = f.Close()
		return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
			sheet, filepath.Base(path), strings.Join(sheets, ", "))
	}
	it, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, path, err)
	}
	x := &xlsxRows{f: f, it: it, path: path}
	if !it.Next() {
		if err := it.Error(); err != nil {
			_ = x.Close()
			return nil, fmt.Errorf("read header of %s: %w", path, err)
		}
		return x, nil
	}
	header, err := it.Columns()
	if err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	x.header = cleanHeader(header)
	return x, nil
}

type xlsxRows struct {
	f      *excelize.File
	it     *excelize.Rows
	path   string
	header []string
	line   int
}

func (x *xlsxRows) Header() []string { return x.header }

func (x *xlsxRows) Next() ([]string, error) {
	if x.it == nil || x.header == nil {
		return nil, io.EOF
	}
	if !x.it.Next() {
		if err := x.it.Error(); err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", x.path, x.line+1, err)
		}
		return nil, io.EOF
	}
	x.line++
	// Raw values: display formats would turn 25000000 into "25,000,000".
	rec, err := x.it.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s row %d: %w", x.path, x.line, err)
	}
	// excelize drops trailing blank cells; a blank cell reads as "" like CSV.
	if len(rec) < len(x.header) {
		padded := make([]string, len(x.header))
		copy(padded, rec)
		rec = padded
	}
	return rec, nil
}

func (x *xlsxRows) Close() error {
	if x.it != nil {
		_ = x.it.Close()
	}
	return x.f.Close()
}

// findFold returns the entry of names equal to name ignoring case, as Excel
// itself treats sheet names.
func findFold(names []string, name string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
