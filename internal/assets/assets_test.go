package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalMkdirsIsIdempotent(t *testing.T) {
	l := NewLocalFs(afero.NewMemMapFs())
	require.NoError(t, l.Mkdirs("/FileStore/spark_df_profiling/css"))
	require.NoError(t, l.Mkdirs("/FileStore/spark_df_profiling/css"))
	assert.True(t, l.Exists("/FileStore/spark_df_profiling/css"))
}

func TestLocalPut(t *testing.T) {
	mem := afero.NewMemMapFs()
	l := NewLocalFs(mem)
	require.NoError(t, l.Put("/FileStore/a/b.css", []byte("x"), false))

	err := l.Put("/FileStore/a/b.css", []byte("y"), false)
	assert.True(t, errors.Is(err, ErrExists), "err = %v", err)

	require.NoError(t, l.Put("/FileStore/a/b.css", []byte("y"), true))
	b, err := afero.ReadFile(mem, "/FileStore/a/b.css")
	require.NoError(t, err)
	assert.Equal(t, "y", string(b))
}

func TestNewLocalRootsAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)
	require.NoError(t, l.Put("/FileStore/js/app.js", []byte("1"), true))
	_, err := os.Stat(filepath.Join(dir, "FileStore", "js", "app.js"))
	assert.NoError(t, err)
	assert.False(t, l.Exists("/FileStore/js/missing.js"))
}
