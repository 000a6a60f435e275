package main

import (
	"github.com/formblock/formstool/internal/hook"
	"github.com/formblock/formstool/internal/mappings"
	"github.com/spf13/cobra"
)

func newHookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Pre-commit hook commands",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the pre-commit checks against the staged files",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := hook.New(hook.Options{
				Root:             a.cfg.Paths.Root,
				LintCommand:      a.cfg.Hook.LintCommand,
				BuildJSONCommand: a.cfg.Hook.BuildJSONCommand,
				PartialGlobs:     a.cfg.Hook.PartialGlobs,
				ComponentGlobs:   a.cfg.Hook.ComponentGlobs,
				GeneratedFiles:   a.cfg.Hook.GeneratedFiles,
				MappingFile:      a.cfg.Paths.MappingFile,
				ManifestFile:     a.cfg.Paths.ManifestFile,
				Out:              a.errOut,
			}, a.runner, mappings.NewSyncer(mappings.PathsFromConfig(a.cfg)))
			_, err := h.Run(cmd.Context())
			return err
		},
	}

	var force bool
	install := &cobra.Command{
		Use:   "install",
		Short: "Install the pre-commit hook into .git/hooks",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := hook.Install(a.cfg.Paths.Root, force)
			if err != nil {
				return err
			}
			writeln(a.out, "Installed %s", path)
			return nil
		},
	}
	install.Flags().BoolVar(&force, "force", false, "replace an existing pre-commit hook")

	cmd.AddCommand(run, install)
	return cmd
}
