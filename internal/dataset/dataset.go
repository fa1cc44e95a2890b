package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Dataset is a read-only handle on tabular data. Values are surfaced as strings;
// an empty string marks a missing value.
type Dataset interface {
	Name() string
	Columns() ([]string, error)
	// Limit materializes at most n rows in source order.
	Limit(n int) (*Sample, error)
	// Scan calls fn for every row in source order. row is only valid until fn
	// returns. A non-nil error from fn stops the scan and is returned.
	Scan(fn func(row []string) error) error
}

// Sample is a small materialized snapshot of a Dataset.
type Sample struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of sampled rows.
func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

var (
	// ErrNegativeLimit is returned by Limit for n < 0.
	ErrNegativeLimit = errors.New("sample size must be non-negative")
	// ErrUnsupportedSource indicates no opener recognizes the source.
	ErrUnsupportedSource = errors.New("unsupported data source")

	errStopScan = errors.New("stop scan")
)

// limitScan implements Limit on top of Columns and Scan.
func limitScan(ds Dataset, n int) (*Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLimit, n)
	}
	cols, err := ds.Columns()
	if err != nil {
		return nil, err
	}
	s := &Sample{Columns: cols, Rows: make([][]string, 0, min(n, 64))}
	if n == 0 {
		return s, nil
	}
	err = ds.Scan(func(row []string) error {
		rowCopy := make([]string, len(row))
		copy(rowCopy, row)
		s.Rows = append(s.Rows, rowCopy)
		if len(s.Rows) >= n {
			return errStopScan
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, err
	}
	return s, nil
}

// normalizeRow pads or truncates rec to ncol cells.
func normalizeRow(rec []string, ncol int) []string {
	if len(rec) == ncol {
		return rec
	}
	out := make([]string, ncol)
	copy(out, rec)
	return out
}

// OpenOptions carries source-specific settings for Open.
type OpenOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// SQLDriver switches Open to SQL mode ("sqlite" or "postgres"); the source is the DSN.
	SQLDriver string
	// Table is the SQL table to read.
	Table string
}

// Opener turns a source string into a Dataset.
type Opener interface {
	CanOpen(source string, opt OpenOptions) bool
	Open(source string, opt OpenOptions) (Dataset, error)
}

var registry []Opener

// Register adds an opener to the registry.
func Register(o Opener) {
	registry = append(registry, o)
}

// Open selects an opener for source and returns the Dataset. Callers should
// close the result if it implements io.Closer.
func Open(source string, opt OpenOptions) (Dataset, error) {
	for _, o := range registry {
		if o.CanOpen(source, opt) {
			return o.Open(source, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, filepath.Base(source))
}

func hasExt(source string, exts ...string) bool {
	name := strings.ToLower(source)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(sqlOpener{})
	Register(csvOpener{})
	Register(xlsxOpener{})
}
