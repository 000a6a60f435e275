package main

import (
	"context"
	"fmt"
	"io"

	"github.com/formblock/formstool/internal/config"
	"github.com/formblock/formstool/internal/hook"
	xlog "github.com/formblock/formstool/internal/log"
	"github.com/formblock/formstool/internal/scaffold"
	"github.com/spf13/cobra"
)

// app carries the resolved configuration and the I/O of one invocation.
type app struct {
	flags   config.Flags
	cfg     config.Config
	cfgPath string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	runner hook.Runner
	wizard func(ctx context.Context, in io.Reader, out io.Writer, existing []string) (scaffold.Answers, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		runner: hook.ExecRunner{},
		wizard: scaffold.RunWizard,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formstool",
		Short: "Developer tooling for AEM Forms blocks",
		Long: `formstool keeps the form block's component registry in step with the
component folders, scaffolds new custom components and runs the pre-commit checks.

Config source:
  - Built-in defaults (no external file required)
  - <root>/.formstool.json when present, or --config <path>
  - FORMSTOOL_* environment variables (a .env file is loaded first)`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "use a specific config file")
	pf.StringVar(&a.flags.Root, "root", "", "repository root (default: current directory)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.flags.LogJSON, "log-json", false, "emit JSON log lines")

	root.AddCommand(
		newSyncCmd(a),
		newScaffoldCmd(a),
		newHookCmd(a),
		newResolveCmd(a),
		newListCmd(a),
		newWatchCmd(a),
		newDoctorCmd(a),
		newSupportBundleCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) configure() error {
	cfg, path, err := config.Resolve(a.flags)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	a.cfg = cfg
	a.cfgPath = path
	xlog.Configure(xlog.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		Output: a.errOut,
	})
	return nil
}

// noArgs and maxArgs report argument errors as usage errors.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeln(a.out, "formstool v%s (built %s)", Version, BuildDate)
			if a.cfgPath != "" {
				writeln(a.out, "Config: %s", a.cfgPath)
			}
			return nil
		},
	}
}
