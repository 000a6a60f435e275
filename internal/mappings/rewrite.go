// Package mappings keeps blocks/form/mappings.js and the component manifest
// in step with the component folders.
package mappings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/formblock/formstool/internal/components"
)

// ErrPatternNotFound is returned when an array declaration is missing from
// the mapping file.
var ErrPatternNotFound = errors.New("array declaration not found")

const (
	customDecl = "customComponents"
	ootbDecl   = "OOTBComponentDecorators"
)

var (
	customArrayRe = regexp.MustCompile(`let customComponents = \[([^\]]*)\];`)
	ootbArrayRe   = regexp.MustCompile(`const OOTBComponentDecorators = \[([^\]]*)\];`)
)

// FormatArray renders names as the body of a JS array literal: 'a', 'b'.
func FormatArray(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}

// Rewrite replaces the contents of both arrays in src. Both declarations must
// be present; otherwise src is not modified and ErrPatternNotFound is returned.
func Rewrite(src []byte, lists components.Lists) ([]byte, error) {
	if !customArrayRe.Match(src) {
		return nil, fmt.Errorf("%s: %w", customDecl, ErrPatternNotFound)
	}
	if !ootbArrayRe.Match(src) {
		return nil, fmt.Errorf("%s: %w", ootbDecl, ErrPatternNotFound)
	}
	out := replaceFirst(customArrayRe, src, "let customComponents = ["+FormatArray(lists.Custom)+"];")
	out = replaceFirst(ootbArrayRe, out, "const OOTBComponentDecorators = ["+FormatArray(lists.OOTB)+"];")
	return out, nil
}

// ReadCustom parses the custom component array out of src.
func ReadCustom(src []byte) ([]string, error) {
	return readArray(customArrayRe, customDecl, src)
}

// ReadOOTB parses the out-of-the-box component array out of src.
func ReadOOTB(src []byte) ([]string, error) {
	return readArray(ootbArrayRe, ootbDecl, src)
}

// AppendCustom adds name to the end of the custom array, leaving the rest of
// src untouched.
func AppendCustom(src []byte, name string) ([]byte, error) {
	existing, err := ReadCustom(src)
	if err != nil {
		return nil, err
	}
	existing = append(existing, name)
	return replaceFirst(customArrayRe, src, "let customComponents = ["+FormatArray(existing)+"];"), nil
}

func readArray(re *regexp.Regexp, decl string, src []byte) ([]string, error) {
	m := re.FindSubmatch(src)
	if m == nil {
		return nil, fmt.Errorf("%s: %w", decl, ErrPatternNotFound)
	}
	names := []string{}
	for _, part := range strings.Split(string(m[1]), ",") {
		part = strings.TrimSpace(part)
		part = strings.NewReplacer("'", "", `"`, "").Replace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names, nil
}

// replaceFirst substitutes the first match only, with repl taken literally.
func replaceFirst(re *regexp.Regexp, src []byte, repl string) []byte {
	loc := re.FindIndex(src)
	if loc == nil {
		return src
	}
	out := make([]byte, 0, len(src)-(loc[1]-loc[0])+len(repl))
	out = append(out, src[:loc[0]]...)
	out = append(out, repl...)
	out = append(out, src[loc[1]:]...)
	return out
}
