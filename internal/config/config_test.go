package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, path, err := Resolve(Flags{Root: root})
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, "blocks/form/mappings.js", cfg.Paths.MappingFile)
	assert.Equal(t, "npm run lint", cfg.Hook.LintCommand)
	assert.Equal(t, filepath.Join(root, "blocks", "form", "mappings.js"), cfg.Abs(cfg.Paths.MappingFile))
}

func TestResolvePicksUpRepoConfigAndMergesDefaults(t *testing.T) {
	root := t.TempDir()
	override := `{"hook":{"lintCommand":"npx eslint ."},"logging":{"level":"debug"}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFileName), []byte(override), 0o644))

	cfg, path, err := Resolve(Flags{Root: root})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, DefaultFileName), path)
	assert.Equal(t, "npx eslint .", cfg.Hook.LintCommand)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "1.0", cfg.SchemaVersion)
	assert.Equal(t, Default().Hook.ComponentGlobs, cfg.Hook.ComponentGlobs)
	assert.Equal(t, root, cfg.Paths.Root)
}

func TestResolveEnvAndFlagsOverrideFile(t *testing.T) {
	root := t.TempDir()
	cfgFile := filepath.Join(root, "custom.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"hook":{"lintCommand":"from-file"}}`), 0o644))

	t.Setenv("FORMSTOOL_LINT_CMD", "from-env")
	t.Setenv("FORMSTOOL_LOG_LEVEL", "warn")

	cfg, _, err := Resolve(Flags{ConfigPath: cfgFile, Root: root, LogLevel: "error", LogJSON: true})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Hook.LintCommand)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestResolveRejectsUnsupportedSchema(t *testing.T) {
	root := t.TempDir()
	cfgFile := filepath.Join(root, "bad.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"schemaVersion":"2.0"}`), 0o644))

	_, _, err := Resolve(Flags{ConfigPath: cfgFile, Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schemaVersion")
}

func TestResolveMissingExplicitConfig(t *testing.T) {
	_, _, err := Resolve(Flags{ConfigPath: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
