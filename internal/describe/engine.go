package describe

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/dfprofile-cli/internal/dataset"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidArgument reports an out-of-range bins, threshold or config value.
var ErrInvalidArgument = errors.New("invalid argument")

var errMaxRows = errors.New("max rows reached")

// Describer computes a Description for a dataset. cfg keys are defined by the
// implementation; extra is forwarded verbatim.
type Describer interface {
	Describe(ds dataset.Dataset, bins int, corrReject float64, cfg map[string]any, extra map[string]any) (*Description, error)
}

// Options are the config keys understood by Engine.
type Options struct {
	// FreqTop bounds each frequency table.
	FreqTop int
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// Decimal separator for numbers. If 0, auto-detect per value.
	Decimal rune
	// HighCardinality is the distinct count above which a CAT variable is flagged.
	HighCardinality int
}

// DefaultOptions returns the Engine defaults.
func DefaultOptions() Options {
	return Options{FreqTop: 10, HighCardinality: 50}
}

// OptionsFromConfig reads freq_top, max_rows, decimal and high_cardinality from cfg.
// Unknown keys are ignored.
func OptionsFromConfig(cfg map[string]any) (Options, error) {
	opt := DefaultOptions()
	if v, ok := cfg["freq_top"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			return opt, fmt.Errorf("%w: freq_top=%v", ErrInvalidArgument, v)
		}
		opt.FreqTop = n
	}
	if v, ok := cfg["max_rows"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return opt, fmt.Errorf("%w: max_rows=%v", ErrInvalidArgument, v)
		}
		opt.MaxRows = n
	}
	if v, ok := cfg["high_cardinality"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			return opt, fmt.Errorf("%w: high_cardinality=%v", ErrInvalidArgument, v)
		}
		opt.HighCardinality = n
	}
	if v, ok := cfg["decimal"]; ok {
		switch s := strings.ToLower(strings.TrimSpace(cast.ToString(v))); s {
		case ",", "comma":
			opt.Decimal = ','
		case ".", "dot":
			opt.Decimal = '.'
		case "":
		default:
			return opt, fmt.Errorf("%w: decimal=%q (use '.'|'comma')", ErrInvalidArgument, s)
		}
	}
	return opt, nil
}

// Engine is the in-process Describer. It makes a single pass over the dataset.
type Engine struct {
	logger *zap.Logger
}

// NewEngine returns an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

type colAcc struct {
	name   string
	miss   int
	nonNil int
	numCnt int
	dtCnt  int
	txtCnt int
	nums   []float64
	cats   map[string]int

	firstDate time.Time
	lastDate  time.Time
}

// Describe implements Describer.
func (e *Engine) Describe(ds dataset.Dataset, bins int, corrReject float64, cfg map[string]any, extra map[string]any) (*Description, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: bins=%d (must be >= 1)", ErrInvalidArgument, bins)
	}
	if math.IsNaN(corrReject) || corrReject < 0 || corrReject > 1 {
		return nil, fmt.Errorf("%w: corr_reject=%v (must be in [0,1])", ErrInvalidArgument, corrReject)
	}
	opt, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	header, err := ds.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	ncol := len(header)
	cols := make([]*colAcc, ncol)
	for i, h := range header {
		cols[i] = &colAcc{name: h, cats: make(map[string]int)}
	}
	// Row-aligned numeric values (NaN when missing or non-numeric) for pairwise correlation.
	aligned := make([][]float64, ncol)
	seen := make(map[string]int)
	n := 0

	err = ds.Scan(func(row []string) error {
		if opt.MaxRows > 0 && n >= opt.MaxRows {
			return errMaxRows
		}
		n++
		seen[strings.Join(row, "\x1f")]++
		for j, c := range cols {
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if v == "" {
				c.miss++
				aligned[j] = append(aligned[j], math.NaN())
				continue
			}
			c.nonNil++
			c.cats[v]++
			if x, ok := parseNumeric(v, opt.Decimal); ok {
				c.numCnt++
				c.nums = append(c.nums, x)
				aligned[j] = append(aligned[j], x)
				continue
			}
			aligned[j] = append(aligned[j], math.NaN())
			if t, ok := parseTimeMaybe(v); ok {
				c.dtCnt++
				if c.firstDate.IsZero() || t.Before(c.firstDate) {
					c.firstDate = t
				}
				if t.After(c.lastDate) {
					c.lastDate = t
				}
				continue
			}
			c.txtCnt++
		}
		return nil
	})
	if err != nil && !errors.Is(err, errMaxRows) {
		return nil, fmt.Errorf("scan %s: %w", ds.Name(), err)
	}

	desc := &Description{
		Variables: make([]Variable, 0, ncol),
		Freq:      make(map[string][]FreqEntry, ncol),
		Config:    echoConfig(bins, corrReject, cfg, extra),
	}
	var numIdx []int
	for j, c := range cols {
		v, err := summarize(c, n, bins, opt)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", c.name, err)
		}
		if v.Type == KindNumeric {
			numIdx = append(numIdx, j)
		}
		desc.Variables = append(desc.Variables, v)
		desc.Freq[c.name] = topFreq(c.cats, opt.FreqTop)
	}

	desc.Correlations = correlate(desc, aligned, numIdx)
	rejectCorrelated(desc, numIdx, corrReject)
	desc.Table = tableStats(desc, n, seen)
	desc.Messages = messages(desc, opt)

	e.logger.Debug("described dataset",
		zap.String("dataset", ds.Name()),
		zap.Int("rows", n),
		zap.Int("variables", ncol),
		zap.Int("rejected", desc.Table.TypeCounts[KindCorrelated]))
	return desc, nil
}

func summarize(c *colAcc, n, bins int, opt Options) (Variable, error) {
	v := Variable{Name: c.name, Count: c.nonNil, Missing: c.miss, Distinct: len(c.cats)}
	if n > 0 {
		v.PMissing = float64(c.miss) / float64(n)
	}
	if c.nonNil > 0 {
		v.PUnique = float64(v.Distinct) / float64(c.nonNil)
	}
	if top := topFreq(c.cats, 1); len(top) > 0 {
		v.Mode = top[0].Value
	}
	switch {
	case v.Distinct <= 1:
		v.Type = KindConstant
	case c.numCnt > 0 && c.numCnt >= c.dtCnt && c.numCnt >= c.txtCnt:
		v.Type = KindNumeric
		ns, err := numericStats(c.nums, bins)
		if err != nil {
			return v, err
		}
		v.Numeric = ns
	case c.dtCnt > 0 && c.dtCnt >= c.txtCnt:
		v.Type = KindDate
		v.FirstDate = c.firstDate.Format(time.RFC3339)
		v.LastDate = c.lastDate.Format(time.RFC3339)
	case v.Distinct == c.nonNil:
		v.Type = KindUnique
	default:
		v.Type = KindCategorical
	}
	return v, nil
}

func numericStats(nums []float64, bins int) (*NumericStats, error) {
	var ns NumericStats
	var err error
	if ns.Min, err = stats.Min(nums); err != nil {
		return nil, err
	}
	if ns.Max, err = stats.Max(nums); err != nil {
		return nil, err
	}
	// Moments of values near the float64 limits overflow, so they are taken
	// on a copy scaled into [-1, 1] and scaled back.
	scale := math.Max(math.Abs(ns.Min), math.Abs(ns.Max))
	if scale < largeMagnitude {
		scale = 1
	}
	scaled := make([]float64, len(nums))
	for i, x := range nums {
		scaled[i] = x / scale
		if x == 0 {
			ns.Zeros++
		}
	}
	if ns.Mean, err = stats.Mean(scaled); err != nil {
		return nil, err
	}
	if ns.Sum, err = stats.Sum(scaled); err != nil {
		return nil, err
	}
	if ns.Median, err = stats.Median(scaled); err != nil {
		return nil, err
	}
	if len(nums) > 1 {
		if ns.Std, err = stats.StandardDeviationSample(scaled); err != nil {
			return nil, err
		}
	}
	sort.Float64s(scaled)
	ns.Q25 = quantile(scaled, 0.25)
	ns.Q75 = quantile(scaled, 0.75)
	for _, f := range []*float64{&ns.Mean, &ns.Sum, &ns.Median, &ns.Std, &ns.Q25, &ns.Q75} {
		*f = finite(*f * scale)
	}
	ns.Histogram = histogram(nums, ns.Min, ns.Max, bins)
	return &ns, nil
}

// largeMagnitude is the absolute value above which numericStats rescales.
const largeMagnitude = 1e150

// finite saturates infinities to the largest representable float64.
func finite(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	case math.IsNaN(x):
		return 0
	}
	return x
}

// histogram buckets values into bins equal-width intervals over [lo, hi]. A
// degenerate range is widened by 0.5 on each side (relatively, for values
// too large for that to register). Edges and bucket positions are computed
// without forming hi-lo, which overflows for ranges spanning most of float64.
func histogram(vals []float64, lo, hi float64, bins int) *Histogram {
	if lo == hi {
		d := math.Max(0.5, math.Abs(lo)*1e-9)
		lo, hi = math.Max(lo-d, -math.MaxFloat64), math.Min(hi+d, math.MaxFloat64)
	}
	h := &Histogram{Edges: make([]float64, bins+1), Counts: make([]int, bins)}
	for i := range h.Edges {
		t := float64(i) / float64(bins)
		h.Edges[i] = lo*(1-t) + hi*t
	}
	h.Edges[0], h.Edges[bins] = lo, hi
	half := hi/2 - lo/2
	for _, x := range vals {
		idx := int((x/2 - lo/2) / half * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h
}

// correlate builds the Pearson matrix over pairwise-complete rows.
func correlate(desc *Description, aligned [][]float64, numIdx []int) *CorrMatrix {
	if len(numIdx) < 2 {
		return nil
	}
	k := len(numIdx)
	m := &CorrMatrix{Columns: make([]string, k), Values: make([][]float64, k)}
	for a, ia := range numIdx {
		m.Columns[a] = desc.Variables[ia].Name
		m.Values[a] = make([]float64, k)
		m.Values[a][a] = 1
	}
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			r := pearson(aligned[numIdx[a]], aligned[numIdx[b]])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func pearson(xs, ys []float64) float64 {
	x := make([]float64, 0, len(xs))
	y := make([]float64, 0, len(ys))
	for i := range xs {
		if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// rejectCorrelated walks numeric variables in order and marks as CORR every
// variable whose correlation with an earlier retained one exceeds corrReject.
func rejectCorrelated(desc *Description, numIdx []int, corrReject float64) {
	if desc.Correlations == nil {
		return
	}
	var retained []int
	for b, ib := range numIdx {
		best, bestVar := math.Inf(-1), ""
		for _, a := range retained {
			if r := desc.Correlations.Values[a][b]; r > best {
				best, bestVar = r, desc.Correlations.Columns[a]
			}
		}
		v := &desc.Variables[ib]
		if bestVar != "" {
			v.Correlation = best
			v.CorrelationVar = bestVar
			if best > corrReject {
				v.Type = KindCorrelated
				continue
			}
		}
		retained = append(retained, b)
	}
}

func tableStats(desc *Description, n int, seen map[string]int) TableStats {
	t := TableStats{N: n, NVar: len(desc.Variables), TypeCounts: make(map[Kind]int, len(Kinds))}
	for _, k := range Kinds {
		t.TypeCounts[k] = 0
	}
	for _, v := range desc.Variables {
		t.TypeCounts[v.Type]++
		t.NCellsMissing += v.Missing
	}
	if cells := n * t.NVar; cells > 0 {
		t.PCellsMissing = float64(t.NCellsMissing) / float64(cells)
	}
	for _, c := range seen {
		if c > 1 {
			t.NDuplicates += c - 1
		}
	}
	if n > 0 {
		t.PDuplicates = float64(t.NDuplicates) / float64(n)
	}
	return t
}

func messages(desc *Description, opt Options) []string {
	var out []string
	if d := desc.Table.NDuplicates; d > 0 {
		out = append(out, fmt.Sprintf("Dataset has %d duplicate rows", d))
	}
	for _, v := range desc.Variables {
		switch v.Type {
		case KindConstant:
			if v.Count == 0 {
				out = append(out, fmt.Sprintf("%s is entirely missing", code(v.Name)))
			} else {
				out = append(out, fmt.Sprintf("%s has constant value %s", code(v.Name), code(v.Mode)))
			}
		case KindCorrelated:
			out = append(out, fmt.Sprintf("%s is highly correlated with %s (ρ = %.5f) and rejected", code(v.Name), code(v.CorrelationVar), v.Correlation))
		case KindCategorical:
			if v.Distinct > opt.HighCardinality {
				out = append(out, fmt.Sprintf("%s has a high cardinality: %d distinct values", code(v.Name), v.Distinct))
			}
		}
		if v.Missing > 0 && v.Count > 0 {
			out = append(out, fmt.Sprintf("%s has %d / %.1f%% missing values", code(v.Name), v.Missing, v.PMissing*100))
		}
	}
	return out
}

func code(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

func topFreq(cats map[string]int, k int) []FreqEntry {
	out := make([]FreqEntry, 0, len(cats))
	for val, cnt := range cats {
		out = append(out, FreqEntry{Value: val, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func echoConfig(bins int, corrReject float64, cfg, extra map[string]any) map[string]any {
	out := map[string]any{"bins": bins, "corr_reject": corrReject}
	for k, v := range cfg {
		out[k] = v
	}
	if len(extra) > 0 {
		ex := make(map[string]any, len(extra))
		for k, v := range extra {
			ex[k] = v
		}
		out["extra"] = ex
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
