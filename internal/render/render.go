package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dfprofile-cli/internal/dataset"
	"github.com/KaramelBytes/dfprofile-cli/internal/describe"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
)

// Template names.
const (
	TemplateBody          = "body"
	TemplateWrapper       = "wrapper"
	TemplateWrapperStatic = "wrapper_static"
)

// ErrUnknownTemplate is returned when a template name is not defined.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/css/*.css assets/js/*.js
var assetFS embed.FS

// Renderer fills the embedded report templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Wrap embeds an already rendered body in one of the page templates.
func (r *Renderer) Wrap(name, content string) (string, error) {
	return r.Render(name, struct{ Content template.HTML }{template.HTML(content)})
}

// BodyData is the input of the body template.
type BodyData struct {
	Sample      *dataset.Sample
	Description *describe.Description
	Messages    template.HTML
}

// Body renders the report body for a sample and its description.
func (r *Renderer) Body(sample *dataset.Sample, desc *describe.Description) (string, error) {
	if desc == nil {
		return "", errors.New("render body: nil description")
	}
	return r.Render(TemplateBody, BodyData{
		Sample:      sample,
		Description: desc,
		Messages:    messagesHTML(desc.Messages),
	})
}

// messagesHTML turns markdown bullet messages into HTML. Raw HTML in a
// message is dropped; code span contents are escaped by the renderer.
func messagesHTML(msgs []string) template.HTML {
	if len(msgs) == 0 {
		return ""
	}
	var md strings.Builder
	for _, m := range msgs {
		md.WriteString("- ")
		md.WriteString(m)
		md.WriteString("\n")
	}
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md.String()), nil, renderer))
}

// Asset returns an embedded static asset, e.g. "css/bootstrap.min.css".
func Asset(name string) ([]byte, error) {
	b, err := fs.ReadFile(assetFS, path.Join("assets", name))
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return b, nil
}

var funcs = template.FuncMap{
	"num": formatNum,
	"pct": func(f float64) string { return strconv.FormatFloat(f*100, 'f', 1, 64) + "%" },
	"freqPct": func(count, total int) string {
		if total == 0 {
			return "0.0"
		}
		return strconv.FormatFloat(float64(count)*100/float64(total), 'f', 1, 64)
	},
	"lower": func(k describe.Kind) string { return strings.ToLower(string(k)) },
}

func formatNum(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', 5, 64)
}
