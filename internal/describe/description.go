package describe

import "math"

// Kind is the inferred type of a variable.
type Kind string

const (
	KindNumeric     Kind = "NUM"
	KindDate        Kind = "DATE"
	KindCategorical Kind = "CAT"
	KindConstant    Kind = "CONST"
	KindUnique      Kind = "UNIQUE"
	// KindCorrelated marks a numeric variable rejected for high correlation
	// with an earlier retained numeric variable.
	KindCorrelated Kind = "CORR"
)

// Kinds lists every Kind in report order.
var Kinds = []Kind{KindNumeric, KindDate, KindCategorical, KindConstant, KindUnique, KindCorrelated}

// Description is the structured profile of a dataset.
type Description struct {
	Table        TableStats             `json:"table" yaml:"table"`
	Variables    []Variable             `json:"variables" yaml:"variables"`
	Freq         map[string][]FreqEntry `json:"freq" yaml:"freq"`
	Correlations *CorrMatrix            `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Messages     []string               `json:"messages,omitempty" yaml:"messages,omitempty"`
	// Config echoes the options the description was computed with.
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Variable returns the variable named name.
func (d *Description) Variable(name string) (Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// TableStats summarizes the whole dataset.
type TableStats struct {
	N             int          `json:"n" yaml:"n"`
	NVar          int          `json:"nvar" yaml:"nvar"`
	NCellsMissing int          `json:"n_cells_missing" yaml:"n_cells_missing"`
	PCellsMissing float64      `json:"p_cells_missing" yaml:"p_cells_missing"`
	NDuplicates   int          `json:"n_duplicates" yaml:"n_duplicates"`
	PDuplicates   float64      `json:"p_duplicates" yaml:"p_duplicates"`
	TypeCounts    map[Kind]int `json:"type_counts" yaml:"type_counts"`
}

// Map flattens the table section into a name → value mapping, one key per
// kind count, for export and pretty printing.
func (t TableStats) Map() map[string]any {
	m := map[string]any{
		"n":               t.N,
		"nvar":            t.NVar,
		"n_cells_missing": t.NCellsMissing,
		"p_cells_missing": t.PCellsMissing,
		"n_duplicates":    t.NDuplicates,
		"p_duplicates":    t.PDuplicates,
	}
	for _, k := range Kinds {
		m[string(k)] = t.TypeCounts[k]
	}
	return m
}

// Variable holds per-column statistics.
type Variable struct {
	Name     string  `json:"name" yaml:"name"`
	Type     Kind    `json:"type" yaml:"type"`
	Count    int     `json:"count" yaml:"count"`
	Missing  int     `json:"n_missing" yaml:"n_missing"`
	PMissing float64 `json:"p_missing" yaml:"p_missing"`
	Distinct int     `json:"distinct_count" yaml:"distinct_count"`
	PUnique  float64 `json:"p_unique" yaml:"p_unique"`
	Mode     string  `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Numeric statistics; only set for NUM and CORR variables.
	Numeric *NumericStats `json:"numeric,omitempty" yaml:"numeric,omitempty"`

	// Date range; only set for DATE variables.
	FirstDate string `json:"first_date,omitempty" yaml:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty" yaml:"last_date,omitempty"`

	// Correlation is the highest Pearson r against an earlier retained numeric
	// variable, in [-1, 1]. It is only set when CorrelationVar is non-empty.
	Correlation    float64 `json:"correlation" yaml:"correlation"`
	CorrelationVar string  `json:"correlation_var,omitempty" yaml:"correlation_var,omitempty"`
}

// NumericStats captures the distribution of a numeric variable.
type NumericStats struct {
	Min       float64    `json:"min" yaml:"min"`
	Max       float64    `json:"max" yaml:"max"`
	Mean      float64    `json:"mean" yaml:"mean"`
	Std       float64    `json:"std" yaml:"std"`
	Sum       float64    `json:"sum" yaml:"sum"`
	Q25       float64    `json:"q25" yaml:"q25"`
	Median    float64    `json:"median" yaml:"median"`
	Q75       float64    `json:"q75" yaml:"q75"`
	Zeros     int        `json:"n_zeros" yaml:"n_zeros"`
	Histogram *Histogram `json:"histogram,omitempty" yaml:"histogram,omitempty"`
}

// Histogram holds equal-width bucket counts. len(Edges) == len(Counts)+1.
type Histogram struct {
	Edges  []float64 `json:"edges" yaml:"edges"`
	Counts []int     `json:"counts" yaml:"counts"`
}

// Bucket is one histogram bar.
type Bucket struct {
	Lo, Hi float64
	Count  int
	// Pct is Count relative to the tallest bucket, 0..100.
	Pct float64
}

// Buckets returns the histogram as bars.
func (h *Histogram) Buckets() []Bucket {
	if h == nil {
		return nil
	}
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}
	out := make([]Bucket, len(h.Counts))
	for i, c := range h.Counts {
		b := Bucket{Lo: h.Edges[i], Hi: h.Edges[i+1], Count: c}
		if peak > 0 {
			b.Pct = math.Round(float64(c)*1000/float64(peak)) / 10
		}
		out[i] = b
	}
	return out
}

// FreqEntry is one row of a frequency table.
type FreqEntry struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// CorrMatrix is a symmetric Pearson correlation matrix across numeric variables.
type CorrMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"` // row-major, Values[i][j]
}
