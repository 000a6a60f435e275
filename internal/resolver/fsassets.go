package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var exportDefaultRe = regexp.MustCompile(`(?m)^\s*export\s+default\b`)

// FSAssets resolves asset paths against a repository checkout. It is used by
// the CLI to check that a component's files are in place.
type FSAssets struct {
	Root string
}

func (a FSAssets) path(p string) string {
	return filepath.Join(a.Root, filepath.FromSlash(p))
}

// LoadStyle checks that the stylesheet exists.
func (a FSAssets) LoadStyle(_ context.Context, p string) error {
	info, err := os.Stat(a.path(p))
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	return nil
}

// Import reads the module source. The returned Module has a Decorate func
// only when the source has a default export; it tags the element with the
// module path.
func (a FSAssets) Import(_ context.Context, p string) (*Module, error) {
	src, err := os.ReadFile(a.path(p))
	if err != nil {
		return nil, err
	}
	mod := &Module{Path: p}
	if exportDefaultRe.Match(src) {
		mod.Decorate = func(_ context.Context, el *Element, _ Field, _ *Element, _ string) (*Element, error) {
			if el.Attrs == nil {
				el.Attrs = map[string]string{}
			}
			el.Attrs["data-decorated-by"] = p
			return el, nil
		}
	}
	return mod, nil
}
