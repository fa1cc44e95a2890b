package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSV is a Dataset backed by a delimited text file. Every call re-reads the file.
type CSV struct {
	path  string
	delim rune
}

// NewCSV returns a CSV dataset. If delim is 0 it is sniffed from the extension.
func NewCSV(path string, delim rune) *CSV {
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return &CSV{path: path, delim: delim}
}

func (c *CSV) Name() string { return filepath.Base(c.path) }

// Columns reads the header row.
func (c *CSV) Columns() ([]string, error) {
	f, r, err := c.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	return trimHeader(header), nil
}

func (c *CSV) Limit(n int) (*Sample, error) { return limitScan(c, n) }

// Scan streams data rows, padding short records to the header width.
func (c *CSV) Scan(fn func(row []string) error) error {
	f, r, err := c.open()
	if err != nil {
		return err
	}
	defer f.Close()
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read row %d: %w", line, err)
		}
		row := normalizeRow(rec, ncol)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func (c *CSV) open() (*os.File, *csv.Reader, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = c.delim
	return f, r, nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	// Filename heuristic only; the file is not read twice.
	return ','
}

type csvOpener struct{}

func (csvOpener) CanOpen(source string, _ OpenOptions) bool {
	return hasExt(source, ".csv", ".tsv")
}

func (csvOpener) Open(source string, opt OpenOptions) (Dataset, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("stat csv: %w", err)
	}
	return NewCSV(source, opt.Delimiter), nil
}
