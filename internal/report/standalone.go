package report

import (
	"errors"
	"path"

	"github.com/KaramelBytes/dfprofile-cli/internal/assets"
	"github.com/KaramelBytes/dfprofile-cli/internal/render"
)

// ModeDatabricks is the only supported standalone mode.
const ModeDatabricks = "databricks"

// StandaloneRoot is where standalone assets are published. Databricks serves
// /FileStore/x at /files/x, which is what the static wrapper links.
const StandaloneRoot = "/FileStore/spark_df_profiling"

var standaloneAssets = []string{
	"css/bootstrap-theme.min.css",
	"css/bootstrap.min.css",
	"js/bootstrap.min.js",
	"js/jquery.min.js",
}

// RenderStandalone publishes the stylesheets and scripts to fs and returns the
// page rendered with the static wrapper. The first failing step is returned;
// files already copied are left in place.
func (r *ProfileReport) RenderStandalone(mode string, fs assets.FileSystem) (string, error) {
	if mode != ModeDatabricks {
		return "", ErrUnsupportedMode
	}
	if fs == nil {
		return "", errors.New("render standalone: nil filesystem")
	}
	for _, dir := range []string{"css", "js"} {
		if err := fs.Mkdirs(path.Join(StandaloneRoot, dir)); err != nil {
			return "", err
		}
	}
	for _, name := range standaloneAssets {
		data, err := render.Asset(name)
		if err != nil {
			return "", err
		}
		if err := fs.Put(path.Join(StandaloneRoot, name), data, true); err != nil {
			return "", err
		}
	}
	return r.renderer.Wrap(render.TemplateWrapperStatic, r.body)
}
