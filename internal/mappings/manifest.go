package mappings

import (
	"bytes"
	"fmt"
	"os"

	"github.com/formblock/formstool/internal/components"
	"github.com/formblock/formstool/internal/support"
	"gopkg.in/yaml.v3"
)

const manifestHeader = "# Generated by formstool. Edit component folders, then run `formstool sync`.\n"

// Manifest is the declarative list of components read by tooling instead of
// pattern-matching mappings.js.
type Manifest struct {
	Custom []string `yaml:"custom"`
	OOTB   []string `yaml:"ootb"`
}

// Lists converts the manifest to component lists.
func (m Manifest) Lists() components.Lists {
	return components.Lists{Custom: nonNil(m.Custom), OOTB: nonNil(m.OOTB)}
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(support.StripBOM(data), &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// EncodeManifest renders lists in the manifest format.
func EncodeManifest(lists components.Lists) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(manifestHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Manifest{Custom: nonNil(lists.Custom), OOTB: nonNil(lists.OOTB)}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteManifest writes lists to path when the content changed.
func WriteManifest(path string, lists components.Lists) (bool, error) {
	data, err := EncodeManifest(lists)
	if err != nil {
		return false, err
	}
	return support.WriteIfChanged(path, data)
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
