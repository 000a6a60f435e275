package support

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBundleSkipsMissingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blocks", "form"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocks", "form", "mappings.js"), []byte("let customComponents = [];\n"), 0o644))

	out := filepath.Join(root, ".formstool", "bundle.zip")
	added, err := WriteBundle(root, out, []string{"blocks/form/mappings.js", ".formstool/audit.log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"blocks/form/mappings.js"}, added)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	assert.Equal(t, "blocks/form/mappings.js", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "let customComponents = [];\n", string(data))
}
