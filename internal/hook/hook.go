// Package hook implements the pre-commit checks: lint, rebuild generated
// JSON when partials change and refresh the component mappings when
// component folders change.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/formblock/formstool/internal/components"
	xlog "github.com/formblock/formstool/internal/log"
	"github.com/formblock/formstool/internal/mappings"
)

// ErrLintFailed is returned when the lint command exits non-zero.
var ErrLintFailed = errors.New("lint failed")

// Runner executes an external command in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}

// Syncer refreshes the mapping file from the component folders.
type Syncer interface {
	Sync(ctx context.Context) (mappings.Result, error)
}

type Options struct {
	Root             string
	LintCommand      string
	BuildJSONCommand string
	PartialGlobs     []string
	ComponentGlobs   []string
	GeneratedFiles   []string
	// MappingFile and ManifestFile are staged after a sync, relative to Root.
	MappingFile  string
	ManifestFile string
	// Out receives the output of failed commands.
	Out io.Writer
}

// Report records which steps ran.
type Report struct {
	Staged         []string
	BuiltJSON      bool
	SyncedMappings bool
	// SyncErr is the mapping refresh failure that was logged and skipped.
	SyncErr error
}

type Hook struct {
	opts   Options
	runner Runner
	syncer Syncer
}

func New(opts Options, runner Runner, syncer Syncer) *Hook {
	if runner == nil {
		runner = ExecRunner{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Hook{opts: opts, runner: runner, syncer: syncer}
}

// StagedFiles lists paths added, copied, modified or renamed in the index.
func (h *Hook) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := h.runner.Run(ctx, h.opts.Root, "git", "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached: %w: %s", err, strings.TrimSpace(string(out)))
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Run performs the pre-commit steps in order. Lint, build and staging errors
// are returned and should abort the commit. A failed mapping refresh is
// logged and recorded in the report only.
func (h *Hook) Run(ctx context.Context) (Report, error) {
	logger := xlog.FromContext(ctx).With().Str("component", "hook").Logger()

	staged, err := h.StagedFiles(ctx)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Staged: staged}

	logger.Info().Msg("running lint")
	if out, err := h.command(ctx, h.opts.LintCommand); err != nil {
		_, _ = h.opts.Out.Write(out)
		return rep, fmt.Errorf("%w: %v", ErrLintFailed, err)
	}

	if AnyMatch(h.opts.PartialGlobs, staged) {
		logger.Info().Msg("partial JSON staged, rebuilding generated JSON")
		if out, err := h.command(ctx, h.opts.BuildJSONCommand); err != nil {
			_, _ = h.opts.Out.Write(out)
			return rep, fmt.Errorf("build json: %w", err)
		}
		if err := h.stage(ctx, h.opts.GeneratedFiles...); err != nil {
			return rep, err
		}
		rep.BuiltJSON = true
	}

	if AnyMatch(h.opts.ComponentGlobs, staged) {
		logger.Info().Msg("component changes staged, updating mappings")
		if h.syncer == nil {
			return rep, errors.New("no mapping syncer configured")
		}
		if _, err := h.syncer.Sync(ctx); err != nil {
			// Mapping refresh failures never block the commit.
			ev := logger.Error().Err(err)
			var invalid *components.InvalidNamesError
			if errors.As(err, &invalid) {
				ev = ev.Str("category", string(invalid.Category)).Strs("names", invalid.Names)
			}
			ev.Msg("mappings not updated, continuing commit")
			rep.SyncErr = err
			return rep, nil
		}
		toStage := []string{h.opts.MappingFile}
		if h.opts.ManifestFile != "" {
			toStage = append(toStage, h.opts.ManifestFile)
		}
		if err := h.stage(ctx, toStage...); err != nil {
			return rep, err
		}
		rep.SyncedMappings = true
	}
	return rep, nil
}

// command runs a configured command line such as "npm run lint".
func (h *Hook) command(ctx context.Context, line string) ([]byte, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	return h.runner.Run(ctx, h.opts.Root, fields[0], fields[1:]...)
}

func (h *Hook) stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if out, err := h.runner.Run(ctx, h.opts.Root, "git", args...); err != nil {
		_, _ = h.opts.Out.Write(out)
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// AnyMatch reports whether any path matches any of the doublestar globs.
func AnyMatch(globs, paths []string) bool {
	for _, p := range paths {
		for _, g := range globs {
			if ok, err := doublestar.Match(g, p); err == nil && ok {
				return true
			}
		}
	}
	return false
}
