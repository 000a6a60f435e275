package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/formblock/formstool/internal/mappings"
	"github.com/formblock/formstool/internal/resolver"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [field-json | -]",
		Short: "Explain which component decorates a field and check its assets",
		Long: `Reads a field descriptor such as {":type":"rating","fieldType":"text-input","id":"f1"}
from the argument, or from stdin when the argument is "-" or missing, and reports the
component the form block would load for it.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := readField(a.in, args)
			if err != nil {
				return usageError{err}
			}
			reg, source, err := mappings.LoadRegistry(mappings.PathsFromConfig(a.cfg))
			if err != nil {
				return err
			}

			target, ok := resolver.Resolve(reg, field)
			if !ok {
				writeln(a.out, "no component for :type=%q fieldType=%q (registry: %s)", field.Type, field.FieldType, source)
				return nil
			}
			base := a.cfg.Runtime.CodeBasePath
			assets := resolver.FSAssets{Root: a.cfg.Paths.Root}
			writeln(a.out, "target:  %s (registry: %s)", target, source)
			writeln(a.out, "style:   %s [%s]", target.StylePath(base), presence(assets, target.StylePath("")))
			writeln(a.out, "module:  %s [%s]", target.ModulePath(base), presence(assets, target.ModulePath("")))

			loader, err := resolver.NewLoader(reg, assets, resolver.Options{ModuleCacheSize: a.cfg.Runtime.ModuleCacheSize})
			if err != nil {
				return err
			}
			id := field.ID
			if id == "" {
				id = "cli"
			}
			el := &resolver.Element{ID: id, Block: target.Name}
			el, err = loader.Decorate(cmd.Context(), el, field, nil, "")
			writeln(a.out, "status:  %s", loader.Status(id))
			if by := el.Attrs["data-decorated-by"]; by != "" {
				writeln(a.out, "decorated by default export of %s", by)
			}
			return err
		},
	}
}

func readField(in io.Reader, args []string) (resolver.Field, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data = []byte(args[0])
	} else {
		data, err = io.ReadAll(in)
		if err != nil {
			return resolver.Field{}, err
		}
	}
	var field resolver.Field
	if err := json.Unmarshal(data, &field); err != nil {
		return resolver.Field{}, fmt.Errorf("invalid field descriptor: %w", err)
	}
	return field, nil
}

func presence(assets resolver.FSAssets, rel string) string {
	if _, err := os.Stat(filepath.Join(assets.Root, filepath.FromSlash(rel))); err != nil {
		return "missing"
	}
	return "ok"
}
