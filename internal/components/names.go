// Package components models form component names, the on-disk component
// folders and the registry of known custom and out-of-the-box components.
package components

import (
	"fmt"
	"regexp"
	"strings"
)

// Name is a component identifier derived from a directory name or user input.
type Name = string

// Category partitions components into custom-authored and out-of-the-box.
type Category string

const (
	Custom Category = "custom"
	OOTB   Category = "ootb"
)

// Folder is the directory under blocks/form holding components of c.
func (c Category) Folder() string {
	if c == Custom {
		return "custom-components"
	}
	return "components"
}

// Label is the human form used in diagnostics.
func (c Category) Label() string {
	if c == Custom {
		return "Custom"
	}
	return "OOTB"
}

var (
	dirNameRe      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	scaffoldNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// InvalidNamesError reports every directory name of one category that
// contains characters outside [a-zA-Z0-9_-].
type InvalidNamesError struct {
	Category Category
	Names    []string
}

func (e *InvalidNamesError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("%s components contain illegal characters: %s", e.Category.Label(), strings.Join(quoted, ", "))
}

// ValidateDirNames checks names against the directory naming rule.
func ValidateDirNames(category Category, names []string) error {
	var invalid []string
	for _, n := range names {
		if !dirNameRe.MatchString(n) {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return &InvalidNamesError{Category: category, Names: invalid}
	}
	return nil
}

// NameError is returned when a new component name is rejected.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string { return e.Reason }

// ValidateNewName applies the scaffolding rules to name. existing is the
// current custom component list; a name already in it is rejected.
func ValidateNewName(name string, existing []string) error {
	reject := func(reason string) error { return &NameError{Name: name, Reason: reason} }

	if name == "" {
		return reject("Component name is required")
	}
	if name != strings.ToLower(name) {
		return reject("Component name must be lowercase")
	}
	if !scaffoldNameRe.MatchString(name) {
		return reject("Component name must start with a letter and can only contain lowercase letters, numbers, and hyphens")
	}
	if strings.HasSuffix(name, "-") {
		return reject("Component name cannot start or end with a hyphen")
	}
	for _, e := range existing {
		if e == name {
			return reject(fmt.Sprintf("Component '%s' already exists. Please choose a different name.", name))
		}
	}
	return nil
}

// Capitalize upper-cases the first rune only: "icon-toggle" -> "Icon-toggle".
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
