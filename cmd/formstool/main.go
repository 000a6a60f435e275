// formstool - developer tooling for AEM Forms blocks
//
// Commands:
//   sync            Regenerate mappings.js and components.yaml from component folders
//   scaffold        Create a new custom component interactively
//   hook run        Pre-commit checks
//   hook install    Install the pre-commit hook
//   resolve         Explain which component decorates a field
//   list            Print the component registry
//   watch           Re-run sync when component folders change
//   doctor          Check the block layout and tooling
//   support-bundle  Zip diagnostics for a bug report
//   version         Show version information

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/formblock/formstool/internal/scaffold"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], newApp(os.Stdin, os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, a *app) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	code := exitCode(err)
	if code != exitOK {
		fmt.Fprintf(a.errOut, "ERROR: %v\n", err)
		if code == exitUsage {
			fmt.Fprintln(a.errOut, "Run 'formstool --help' for usage.")
		}
	}
	return code
}

// usageError marks bad flags or arguments.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func exitCode(err error) int {
	if err == nil || errors.Is(err, scaffold.ErrCancelled) {
		return exitOK
	}
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}
	return exitFailure
}

func writeln(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
