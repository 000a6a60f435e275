package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/formblock/formstool/internal/components"
	"github.com/formblock/formstool/internal/mappings"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mappingSrc = `import { loadCSS } from '../../scripts/aem.js';

let customComponents = ['icon-radio-group'];
const OOTBComponentDecorators = ['file-input', 'wizard', 'rating'];

export function getCustomComponents() {
  return customComponents;
}
`

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 16)
	assert.Equal(t, BaseComponent{Name: "Checkbox Group", Value: "checkbox-group", Filename: "_checkbox-group.json"}, cat[2])
	assert.Equal(t, "_text-input.json", cat[15].Filename)

	b, err := LookupBase("telephone input")
	require.NoError(t, err)
	assert.Equal(t, "telephone-input", b.Value)
	_, err = LookupBase("slider")
	assert.Error(t, err)
}

func TestCustomizeTemplateKeepsOrderAndRewritesRefs(t *testing.T) {
	base, err := os.ReadFile(filepath.Join("testdata", "form-components", "_checkbox.json"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "checkbox.golden.json"))
	require.NoError(t, err)

	got, err := CustomizeTemplate(base, "icon-toggle")
	require.NoError(t, err)
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomizeTemplateRejectsUnexpectedShape(t *testing.T) {
	for _, src := range []string{
		`not json`,
		`[]`,
		`{"models": []}`,
		`{"definitions": [{"id": "x"}], "models": []}`,
		`{"definitions": [], "models": "x"}`,
	} {
		_, err := CustomizeTemplate([]byte(src), "x")
		assert.Error(t, err, src)
	}
}

func TestFallbackTemplateIsValidJSON(t *testing.T) {
	var doc struct {
		Definitions []struct {
			Title string `json:"title"`
			ID    string `json:"id"`
		} `json:"definitions"`
		Models []struct {
			ID string `json:"id"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(FallbackTemplate("rating-stars"), &doc))
	assert.Equal(t, "Rating-stars", doc.Definitions[0].Title)
	assert.Equal(t, "rating-stars", doc.Definitions[0].ID)
	assert.Equal(t, "rating-stars", doc.Models[0].ID)
}

func TestStubs(t *testing.T) {
	js := string(ModuleStub("icon-toggle", BaseComponent{Name: "Checkbox"}))
	assert.Contains(t, js, "export default async function decorate(fieldDiv, fieldJson) {")
	assert.Contains(t, js, " * Based on: Checkbox")
	assert.Contains(t, js, "return fieldDiv;")

	assert.Equal(t, "/* Icon-toggle component styles */\n\n.icon-toggle {\n  /* Add your custom styles here */\n}\n", string(StyleStub("icon-toggle")))
}

type repo struct {
	root  string
	paths mappings.Paths
}

func newRepo(t *testing.T) repo {
	t.Helper()
	root := t.TempDir()
	form := filepath.Join(root, "blocks", "form")
	paths := mappings.Paths{
		Root:         root,
		MappingFile:  filepath.Join(form, "mappings.js"),
		ManifestFile: filepath.Join(form, "components.yaml"),
		Layout: components.Layout{
			CustomDir: filepath.Join(form, "custom-components"),
			OOTBDir:   filepath.Join(form, "components"),
		},
	}
	require.NoError(t, os.MkdirAll(filepath.Join(paths.Layout.CustomDir, "icon-radio-group"), 0o755))
	require.NoError(t, os.WriteFile(paths.MappingFile, []byte(mappingSrc), 0o644))
	return repo{root: root, paths: paths}
}

func changedLines(a, b string) int {
	al, bl := strings.Split(a, "\n"), strings.Split(b, "\n")
	if len(al) != len(bl) {
		return -1
	}
	n := 0
	for i := range al {
		if al[i] != bl[i] {
			n++
		}
	}
	return n
}

func TestCreateIconToggleFromCheckbox(t *testing.T) {
	r := newRepo(t)
	g := NewGenerator(r.paths, filepath.Join("testdata", "form-components"))
	base, err := LookupBase("Checkbox")
	require.NoError(t, err)

	out, err := g.Create(context.Background(), "icon-toggle", base)
	require.NoError(t, err)
	assert.True(t, out.MappingUpdated)

	dir := filepath.Join(r.paths.Layout.CustomDir, "icon-toggle")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"icon-toggle.js", "icon-toggle.css", "_icon-toggle.json"}, names)
	assert.Len(t, out.Files, 3)

	var doc struct {
		Definitions []struct {
			Title string `json:"title"`
			ID    string `json:"id"`
		} `json:"definitions"`
	}
	data, err := os.ReadFile(filepath.Join(dir, "_icon-toggle.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "icon-toggle", doc.Definitions[0].ID)
	assert.Equal(t, "Icon-toggle", doc.Definitions[0].Title)

	updated, err := os.ReadFile(r.paths.MappingFile)
	require.NoError(t, err)
	assert.Equal(t, 1, changedLines(mappingSrc, string(updated)))
	assert.Contains(t, string(updated), "let customComponents = ['icon-radio-group', 'icon-toggle'];")

	m, err := mappings.ReadManifest(r.paths.ManifestFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"icon-radio-group", "icon-toggle"}, m.Custom)
	assert.Equal(t, []string{"file-input", "wizard", "rating"}, m.OOTB)

	_, err = os.Stat(filepath.Join(r.root, ".formstool", "audit.log"))
	assert.NoError(t, err)
}

func TestCreateExistingNameWritesNothing(t *testing.T) {
	r := newRepo(t)
	g := NewGenerator(r.paths, filepath.Join("testdata", "form-components"))

	_, err := g.Create(context.Background(), "icon-radio-group", Catalog()[1])
	var nameErr *components.NameError
	require.True(t, errors.As(err, &nameErr))

	entries, err := os.ReadDir(filepath.Join(r.paths.Layout.CustomDir, "icon-radio-group"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(r.paths.MappingFile)
	require.NoError(t, err)
	assert.Equal(t, mappingSrc, string(data))
}

func TestCreateExistingDirectory(t *testing.T) {
	r := newRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(r.paths.Layout.CustomDir, "orphan"), 0o755))
	g := NewGenerator(r.paths, filepath.Join("testdata", "form-components"))

	_, err := g.Create(context.Background(), "orphan", Catalog()[0])
	require.ErrorIs(t, err, ErrComponentExists)

	data, err := os.ReadFile(r.paths.MappingFile)
	require.NoError(t, err)
	assert.Equal(t, mappingSrc, string(data))
}

func TestCreateFallsBackWhenBaseMissing(t *testing.T) {
	r := newRepo(t)
	g := NewGenerator(r.paths, filepath.Join(r.root, "nowhere"))

	_, err := g.Create(context.Background(), "stars", Catalog()[0])
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(r.paths.Layout.CustomDir, "stars", "_stars.json"))
	require.NoError(t, err)
	assert.Equal(t, string(FallbackTemplate("stars")), string(data))
}

func TestCreateSurvivesBrokenMappingFile(t *testing.T) {
	r := newRepo(t)
	require.NoError(t, os.WriteFile(r.paths.MappingFile, []byte("export default {};\n"), 0o644))
	g := NewGenerator(r.paths, filepath.Join("testdata", "form-components"))

	out, err := g.Create(context.Background(), "stars", Catalog()[0])
	require.NoError(t, err)
	assert.False(t, out.MappingUpdated)
	assert.Len(t, out.Files, 3)
}
