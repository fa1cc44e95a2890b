package dataset

// Frame is an in-memory Dataset.
type Frame struct {
	name    string
	columns []string
	rows    [][]string
}

// NewFrame builds a Frame; rows are padded to len(columns).
func NewFrame(name string, columns []string, rows [][]string) *Frame {
	fr := &Frame{name: name, columns: append([]string(nil), columns...)}
	fr.rows = make([][]string, len(rows))
	for i, r := range rows {
		fr.rows[i] = append([]string(nil), normalizeRow(r, len(columns))...)
	}
	return fr
}

func (f *Frame) Name() string { return f.name }

func (f *Frame) Columns() ([]string, error) {
	return append([]string(nil), f.columns...), nil
}

func (f *Frame) Limit(n int) (*Sample, error) { return limitScan(f, n) }

func (f *Frame) Scan(fn func(row []string) error) error {
	for _, r := range f.rows {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
