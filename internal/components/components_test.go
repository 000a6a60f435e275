package components

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func TestScanDirSortsAndSkipsFiles(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, "wizard", "accordion", "file")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	assert.Equal(t, []string{"accordion", "file", "wizard"}, ScanDir(dir))
}

func TestScanDirUnreadableIsEmpty(t *testing.T) {
	got := ScanDir(filepath.Join(t.TempDir(), "missing"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanReportsEveryInvalidName(t *testing.T) {
	root := t.TempDir()
	custom := filepath.Join(root, "custom-components")
	ootb := filepath.Join(root, "components")
	mkdirs(t, custom, "icon-radio-group", "bad name", "also@bad")
	mkdirs(t, ootb, "wizard")

	_, err := Scan(Layout{CustomDir: custom, OOTBDir: ootb})
	require.Error(t, err)

	var invalid *InvalidNamesError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, Custom, invalid.Category)
	assert.ElementsMatch(t, []string{"bad name", "also@bad"}, invalid.Names)
	assert.Contains(t, err.Error(), `"bad name"`)
}

func TestScanValidatesOOTBFolderToo(t *testing.T) {
	root := t.TempDir()
	custom := filepath.Join(root, "custom-components")
	ootb := filepath.Join(root, "components")
	mkdirs(t, custom, "icon_radio")
	mkdirs(t, ootb, "date time")

	_, err := Scan(Layout{CustomDir: custom, OOTBDir: ootb})
	var invalid *InvalidNamesError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, OOTB, invalid.Category)
}

func TestValidateNewName(t *testing.T) {
	existing := []string{"icon-radio-group"}
	tests := []struct {
		name   string
		reason string
	}{
		{"", "Component name is required"},
		{"IconToggle", "Component name must be lowercase"},
		{"1toggle", "Component name must start with a letter and can only contain lowercase letters, numbers, and hyphens"},
		{"-toggle", "Component name must start with a letter and can only contain lowercase letters, numbers, and hyphens"},
		{"icon_toggle", "Component name must start with a letter and can only contain lowercase letters, numbers, and hyphens"},
		{"icon toggle", "Component name must start with a letter and can only contain lowercase letters, numbers, and hyphens"},
		{"toggle-", "Component name cannot start or end with a hyphen"},
		{"icon-radio-group", "Component 'icon-radio-group' already exists. Please choose a different name."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewName(tt.name, existing)
			var nameErr *NameError
			require.ErrorAs(t, err, &nameErr)
			assert.Equal(t, tt.reason, nameErr.Reason)
		})
	}

	assert.NoError(t, ValidateNewName("icon-toggle", existing))
	assert.NoError(t, ValidateNewName("a1", nil))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Icon-toggle", Capitalize("icon-toggle"))
	assert.Equal(t, "", Capitalize(""))
}

func TestRegistryDedupesAndReloads(t *testing.T) {
	r := NewRegistry(Lists{Custom: []string{"a", "b", "a"}, OOTB: []string{"wizard"}})
	assert.Equal(t, []string{"a", "b"}, r.Custom())
	assert.True(t, r.IsCustom("b"))
	assert.True(t, r.IsOOTB("wizard"))

	custom := r.Custom()
	custom[0] = "mutated"
	assert.True(t, r.IsCustom("a"), "returned slices must be copies")

	r.Reload(Lists{Custom: []string{"c"}})
	assert.False(t, r.IsCustom("a"))
	assert.False(t, r.IsOOTB("wizard"))
	assert.Equal(t, Lists{Custom: []string{"c"}, OOTB: []string{}}, r.Lists())
}
