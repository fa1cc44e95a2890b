package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX is a Dataset backed by one sheet of an Excel workbook. The first row is the header.
type XLSX struct {
	path  string
	sheet string
}

// NewXLSX returns a workbook dataset. An empty sheet selects the first sheet.
func NewXLSX(path, sheet string) *XLSX {
	return &XLSX{path: path, sheet: sheet}
}

func (x *XLSX) Name() string {
	if x.sheet == "" {
		return filepath.Base(x.path)
	}
	return filepath.Base(x.path) + "#" + x.sheet
}

func (x *XLSX) Columns() ([]string, error) {
	var header []string
	err := x.rows(func(i int, cells []string) error {
		header = trimHeader(cells)
		return errStopScan
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, err
	}
	if header == nil {
		header = []string{}
	}
	return header, nil
}

func (x *XLSX) Limit(n int) (*Sample, error) { return limitScan(x, n) }

func (x *XLSX) Scan(fn func(row []string) error) error {
	ncol := 0
	return x.rows(func(i int, cells []string) error {
		if i == 0 {
			ncol = len(cells)
			return nil
		}
		row := normalizeRow(cells, ncol)
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		return fn(row)
	})
}

// rows iterates raw sheet rows, including the header at index 0.
func (x *XLSX) rows(fn func(i int, cells []string) error) error {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := x.sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return fmt.Errorf("workbook %s has no sheets", filepath.Base(x.path))
		}
		sheet = list[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			sheet, filepath.Base(x.path), strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		cells, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row %d: %w", i+1, err)
		}
		if err := fn(i, cells); err != nil {
			return err
		}
	}
	return rows.Error()
}

type xlsxOpener struct{}

func (xlsxOpener) CanOpen(source string, _ OpenOptions) bool {
	return hasExt(source, ".xlsx")
}

func (xlsxOpener) Open(source string, opt OpenOptions) (Dataset, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("stat xlsx: %w", err)
	}
	return NewXLSX(source, opt.Sheet), nil
}
