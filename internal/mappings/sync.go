package mappings

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/formblock/formstool/internal/components"
	"github.com/formblock/formstool/internal/config"
	xlog "github.com/formblock/formstool/internal/log"
	"github.com/formblock/formstool/internal/support"
	"github.com/rs/zerolog"
)

// Paths are the absolute locations a Syncer reads and writes.
type Paths struct {
	Root         string
	MappingFile  string
	ManifestFile string
	Layout       components.Layout
}

// PathsFromConfig resolves the configured repository-relative paths.
func PathsFromConfig(cfg config.Config) Paths {
	return Paths{
		Root:         cfg.Paths.Root,
		MappingFile:  cfg.Abs(cfg.Paths.MappingFile),
		ManifestFile: cfg.Abs(cfg.Paths.ManifestFile),
		Layout: components.Layout{
			CustomDir: cfg.Abs(cfg.Paths.CustomComponents),
			OOTBDir:   cfg.Abs(cfg.Paths.OOTBComponents),
		},
	}
}

// Result describes one completed sync.
type Result struct {
	Lists           components.Lists
	MappingChanged  bool
	ManifestChanged bool
}

// Syncer regenerates the mapping file arrays and the manifest from the
// component folders.
type Syncer struct {
	paths Paths
}

func NewSyncer(paths Paths) *Syncer {
	return &Syncer{paths: paths}
}

func (s *Syncer) Paths() Paths { return s.paths }

// Sync scans the component folders and rewrites the mapping file and the
// manifest. On invalid names nothing is written and the
// *components.InvalidNamesError is returned.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	logger := xlog.FromContext(ctx).With().Str("component", "mappings").Logger()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	lists, err := components.Scan(s.paths.Layout)
	if err != nil {
		s.audit(logger, Result{}, "invalid")
		return Result{}, err
	}

	src, err := os.ReadFile(s.paths.MappingFile)
	if err != nil {
		s.audit(logger, Result{Lists: lists}, "error")
		return Result{}, fmt.Errorf("read mapping file: %w", err)
	}
	updated, err := Rewrite(src, lists)
	if err != nil {
		s.audit(logger, Result{Lists: lists}, "error")
		return Result{}, fmt.Errorf("%s: %w", s.paths.MappingFile, err)
	}

	res := Result{Lists: lists}
	res.MappingChanged, err = support.WriteIfChanged(s.paths.MappingFile, updated)
	if err != nil {
		s.audit(logger, res, "error")
		return Result{}, fmt.Errorf("write mapping file: %w", err)
	}
	if s.paths.ManifestFile != "" {
		res.ManifestChanged, err = WriteManifest(s.paths.ManifestFile, lists)
		if err != nil {
			s.audit(logger, res, "error")
			return Result{}, fmt.Errorf("write manifest: %w", err)
		}
	}

	logger.Info().
		Int("custom", len(lists.Custom)).
		Int("ootb", len(lists.OOTB)).
		Bool("changed", res.MappingChanged).
		Msg("mappings updated")
	s.audit(logger, res, "ok")
	return res, nil
}

func (s *Syncer) audit(logger zerolog.Logger, res Result, result string) {
	if s.paths.Root == "" {
		return
	}
	entry := support.AuditEntry{
		Mode:    "sync",
		Custom:  len(res.Lists.Custom),
		OOTB:    len(res.Lists.OOTB),
		Changed: res.MappingChanged || res.ManifestChanged,
		Result:  result,
	}
	if res.MappingChanged {
		entry.Files = append(entry.Files, s.paths.MappingFile)
	}
	if res.ManifestChanged {
		entry.Files = append(entry.Files, s.paths.ManifestFile)
	}
	if err := support.AppendAudit(s.paths.Root, entry); err != nil {
		logger.Warn().Err(err).Msg("audit append failed")
	}
}

// LoadRegistry builds the component registry from the manifest when present,
// then from the mapping file arrays, then from a directory scan. It reports
// which source was used.
func LoadRegistry(paths Paths) (*components.Registry, string, error) {
	logger := xlog.WithComponent("mappings")

	if paths.ManifestFile != "" {
		m, err := ReadManifest(paths.ManifestFile)
		if err == nil {
			return components.NewRegistry(m.Lists()), "manifest", nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", paths.ManifestFile).Msg("manifest unusable, falling back")
		}
	}

	if src, err := os.ReadFile(paths.MappingFile); err == nil {
		custom, cerr := ReadCustom(src)
		ootb, oerr := ReadOOTB(src)
		if cerr == nil && oerr == nil {
			return components.NewRegistry(components.Lists{Custom: custom, OOTB: ootb}), "mappings", nil
		}
		logger.Warn().Err(errors.Join(cerr, oerr)).Str("path", paths.MappingFile).Msg("mapping file unusable, falling back")
	}

	lists, err := components.Scan(paths.Layout)
	if err != nil {
		return nil, "", err
	}
	return components.NewRegistry(lists), "scan", nil
}
