// Package resolver decides which component decorates a form field and loads
// its assets at most once per element.
package resolver

import (
	"strings"

	"github.com/formblock/formstool/internal/components"
)

// Field is the render-time descriptor of a form field.
type Field struct {
	Type       string         `json:":type"`
	FieldType  string         `json:"fieldType"`
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Target names the component that decorates a field.
type Target struct {
	Name     string
	Category components.Category
}

func (t Target) dir(base string) string {
	return strings.TrimSuffix(base, "/") + "/blocks/form/" + t.Category.Folder() + "/" + t.Name + "/" + t.Name
}

// StylePath is <base>/blocks/form/<folder>/<name>/<name>.css.
func (t Target) StylePath(base string) string { return t.dir(base) + ".css" }

// ModulePath is <base>/blocks/form/<folder>/<name>/<name>.js.
func (t Target) ModulePath(base string) string { return t.dir(base) + ".js" }

func (t Target) String() string { return string(t.Category) + "/" + t.Name }

// Resolve picks the component for f. File inputs always use the OOTB file
// component, any :type ending in "wizard" uses the OOTB wizard, then custom
// membership wins over OOTB membership.
func Resolve(reg *components.Registry, f Field) (Target, bool) {
	switch {
	case f.FieldType == "file-input":
		return Target{Name: "file", Category: components.OOTB}, true
	case strings.HasSuffix(f.Type, "wizard"):
		return Target{Name: "wizard", Category: components.OOTB}, true
	case f.Type == "":
		return Target{}, false
	case reg.IsCustom(f.Type):
		return Target{Name: f.Type, Category: components.Custom}, true
	case reg.IsOOTB(f.Type):
		return Target{Name: f.Type, Category: components.OOTB}, true
	}
	return Target{}, false
}
