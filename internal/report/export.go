package report

import (
	"strings"

	"github.com/spf13/cast"
)

// Table is exportable tabular data.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ExportOverview returns the table section pretty printed, one entry per row.
func (r *ProfileReport) ExportOverview() Table {
	s := strings.Trim(Pretty(r.desc.Table.Map()), "{}")
	t := Table{Columns: []string{"overview"}}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			t.Rows = append(t.Rows, []string{part})
		}
	}
	return t
}

var variableColumns = []string{
	"name", "type", "count", "n_missing", "p_missing", "distinct_count", "p_unique", "mode",
	"mean", "std", "min", "q25", "median", "q75", "max", "n_zeros",
	"first_date", "last_date", "correlation", "correlation_var",
}

// ExportVariables returns one row per variable in description order.
func (r *ProfileReport) ExportVariables() Table {
	t := Table{Columns: append([]string(nil), variableColumns...)}
	for _, v := range r.desc.Variables {
		num := make([]string, 8)
		if n := v.Numeric; n != nil {
			for i, f := range []float64{n.Mean, n.Std, n.Min, n.Q25, n.Median, n.Q75, n.Max} {
				num[i] = cast.ToString(f)
			}
			num[7] = cast.ToString(n.Zeros)
		}
		row := []string{
			v.Name, string(v.Type), cast.ToString(v.Count), cast.ToString(v.Missing),
			cast.ToString(v.PMissing), cast.ToString(v.Distinct), cast.ToString(v.PUnique), v.Mode,
		}
		row = append(row, num...)
		row = append(row, v.FirstDate, v.LastDate, cast.ToString(v.Correlation), v.CorrelationVar)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ExportFrequency returns the frequency tables, variables in description order.
func (r *ProfileReport) ExportFrequency() Table {
	t := Table{Columns: []string{"variable", "value", "count"}}
	for _, v := range r.desc.Variables {
		for _, e := range r.desc.Freq[v.Name] {
			t.Rows = append(t.Rows, []string{v.Name, e.Value, cast.ToString(e.Count)})
		}
	}
	return t
}
