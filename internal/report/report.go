// Package report assembles a dataset profile: it samples the dataset,
// delegates statistics to a describer and renders the HTML report.
package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/dfprofile-cli/internal/dataset"
	"github.com/KaramelBytes/dfprofile-cli/internal/describe"
	"github.com/KaramelBytes/dfprofile-cli/internal/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Output path sentinels accepted by ToFile.
const (
	NoOutputFile      = "dfprofile.no_outputfile"
	DefaultOutputFile = "dfprofile.default_outputfile"
)

var (
	// ErrUnsupportedMode is returned by RenderStandalone for modes other than ModeDatabricks.
	ErrUnsupportedMode = errors.New("unsupported standalone mode")
	// ErrNoOutputFile is returned by OutputLabel before ToFile wrote a file.
	ErrNoOutputFile = errors.New("no output file written")
)

// Options tune report construction.
type Options struct {
	Bins       int
	SampleRows int
	CorrReject float64
	// Config is forwarded to the describer; keys are defined by it.
	Config map[string]any
	// Extra is forwarded verbatim to the describer.
	Extra map[string]any

	Describer describe.Describer
	Renderer  *render.Renderer
	Logger    *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

func WithBins(n int) Option { return func(o *Options) { o.Bins = n } }
func WithSampleRows(n int) Option { return func(o *Options) { o.SampleRows = n } }
func WithCorrReject(f float64) Option { return func(o *Options) { o.CorrReject = f } }
func WithConfig(cfg map[string]any) Option { return func(o *Options) { o.Config = cfg } }

// WithExtra adds a named option forwarded verbatim to the describer.
func WithExtra(key string, value any) Option {
	return func(o *Options) { o.Extra[key] = value }
}

func WithDescriber(d describe.Describer) Option { return func(o *Options) { o.Describer = d } }
func WithRenderer(r *render.Renderer) Option { return func(o *Options) { o.Renderer = r } }
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// DefaultOptions returns bins=10, sample rows=5, corr reject=0.9 with fresh maps.
func DefaultOptions() Options {
	return Options{
		Bins:       10,
		SampleRows: 5,
		CorrReject: 0.9,
		Config:     map[string]any{},
		Extra:      map[string]any{},
	}
}

// ProfileReport holds the sample, description and rendered body of one dataset.
// It is not safe for concurrent use.
type ProfileReport struct {
	id       uuid.UUID
	sample   *dataset.Sample
	desc     *describe.Description
	body     string
	renderer *render.Renderer
	logger   *zap.Logger
	file     string
	// corrReject is the threshold the description was computed with.
	corrReject float64
}

// New samples ds, describes it and renders the report body. Any failure is
// returned and no report is produced.
func New(ds dataset.Dataset, opts ...Option) (*ProfileReport, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Config == nil {
		o.Config = map[string]any{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Describer == nil {
		o.Describer = describe.NewEngine(o.Logger)
	}
	if o.Renderer == nil {
		r, err := render.New()
		if err != nil {
			return nil, err
		}
		o.Renderer = r
	}

	sample, err := ds.Limit(o.SampleRows)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", ds.Name(), err)
	}
	desc, err := o.Describer.Describe(ds, o.Bins, o.CorrReject, o.Config, o.Extra)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", ds.Name(), err)
	}
	body, err := o.Renderer.Body(sample, desc)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("report built",
		zap.String("dataset", ds.Name()),
		zap.Int("sample_rows", sample.Len()),
		zap.Int("variables", len(desc.Variables)))
	return &ProfileReport{
		id:       uuid.New(),
		sample:   sample,
		desc:     desc,
		body:     body,
		renderer: o.Renderer,
		logger:   o.Logger,

		corrReject: o.CorrReject,
	}, nil
}

// Description returns the stored description.
func (r *ProfileReport) Description() *describe.Description { return r.desc }

// Sample returns the sampled rows.
func (r *ProfileReport) Sample() *dataset.Sample { return r.sample }

// CorrReject returns the construction-time correlation rejection threshold.
func (r *ProfileReport) CorrReject() float64 { return r.corrReject }

// RejectedVariables returns, in description order, the variables whose
// correlation strictly exceeds threshold. Variables without a computed
// correlation (non-numeric, or the first numeric one) never qualify.
func (r *ProfileReport) RejectedVariables(threshold float64) []string {
	out := []string{}
	for _, v := range r.desc.Variables {
		if v.CorrelationVar != "" && v.Correlation > threshold {
			out = append(out, v.Name)
		}
	}
	return out
}

// RenderedHTML wraps the body in the full page template. It is rendered on every call.
func (r *ProfileReport) RenderedHTML() (string, error) {
	return r.renderer.Wrap(render.TemplateWrapper, r.body)
}

// HTMLFragment returns the report body for embedding in a host page.
func (r *ProfileReport) HTMLFragment() string { return r.body }

// ToFile writes RenderedHTML to path. NoOutputFile writes nothing;
// DefaultOutputFile writes profile_<id>.html in the working directory.
func (r *ProfileReport) ToFile(path string) (err error) {
	if path == NoOutputFile {
		return nil
	}
	if path == DefaultOutputFile {
		path = r.DefaultFileName()
	}
	page, err := r.RenderedHTML()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err = f.WriteString(page); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.file = path
	r.logger.Debug("report written", zap.String("path", path), zap.Int("bytes", len(page)))
	return nil
}

// DefaultFileName is the name ToFile uses for DefaultOutputFile.
func (r *ProfileReport) DefaultFileName() string {
	return "profile_" + r.id.String() + ".html"
}

// OutputLabel names the file last written by ToFile.
func (r *ProfileReport) OutputLabel() (string, error) {
	if r.file == "" {
		return "", ErrNoOutputFile
	}
	return "Output written to file " + r.file, nil
}
