package main

import (
	"path/filepath"

	"github.com/formblock/formstool/internal/mappings"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the component arrays in mappings.js from the component folders",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := mappings.NewSyncer(mappings.PathsFromConfig(a.cfg)).Sync(cmd.Context())
			if err != nil {
				return err
			}
			name := filepath.Base(a.cfg.Paths.MappingFile)
			if res.MappingChanged {
				writeln(a.out, "Updated %s: %d custom, %d OOTB components", name, len(res.Lists.Custom), len(res.Lists.OOTB))
			} else {
				writeln(a.out, "%s is up to date", name)
			}
			writeln(a.out, "   Custom components (%d): [%s]", len(res.Lists.Custom), mappings.FormatArray(res.Lists.Custom))
			writeln(a.out, "   OOTB components (%d): [%s]", len(res.Lists.OOTB), mappings.FormatArray(res.Lists.OOTB))
			return nil
		},
	}
}
