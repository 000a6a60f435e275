// Package scaffold generates new custom form components from a base
// component template.
package scaffold

import (
	"fmt"
	"strings"
)

// BaseComponent is one entry of the template catalog.
type BaseComponent struct {
	Name     string
	Value    string
	Filename string
}

var baseNames = []string{
	"Button",
	"Checkbox",
	"Checkbox Group",
	"Date Input",
	"Drop Down",
	"Email",
	"File Input",
	"Image",
	"Number Input",
	"Panel",
	"Radio Group",
	"Reset Button",
	"Submit Button",
	"Telephone Input",
	"Text",
	"Text Input",
}

// Catalog returns the base components a new component can extend.
func Catalog() []BaseComponent {
	out := make([]BaseComponent, len(baseNames))
	for i, name := range baseNames {
		value := strings.Join(strings.Fields(strings.ToLower(name)), "-")
		out[i] = BaseComponent{Name: name, Value: value, Filename: "_" + value + ".json"}
	}
	return out
}

// LookupBase finds a catalog entry by display name or value.
func LookupBase(key string) (BaseComponent, error) {
	for _, b := range Catalog() {
		if strings.EqualFold(b.Name, key) || b.Value == key {
			return b, nil
		}
	}
	return BaseComponent{}, fmt.Errorf("unknown base component %q", key)
}
