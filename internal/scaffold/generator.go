package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/formblock/formstool/internal/components"
	"github.com/formblock/formstool/internal/config"
	xlog "github.com/formblock/formstool/internal/log"
	"github.com/formblock/formstool/internal/mappings"
	"github.com/formblock/formstool/internal/support"
	"github.com/rs/zerolog"
)

// ErrComponentExists is returned when the target component folder is
// already present.
var ErrComponentExists = errors.New("component already exists")

// Generator writes new custom components into a repository checkout.
type Generator struct {
	paths      mappings.Paths
	baseModels string
}

func NewGenerator(paths mappings.Paths, baseModels string) *Generator {
	return &Generator{paths: paths, baseModels: baseModels}
}

// GeneratorFromConfig wires a Generator to the configured paths.
func GeneratorFromConfig(cfg config.Config) *Generator {
	return NewGenerator(mappings.PathsFromConfig(cfg), cfg.Abs(cfg.Paths.BaseModels))
}

// Existing returns the custom components listed in the mapping file. An
// unreadable mapping file yields an empty list.
func (g *Generator) Existing() []string {
	src, err := os.ReadFile(g.paths.MappingFile)
	if err != nil {
		return []string{}
	}
	names, err := mappings.ReadCustom(src)
	if err != nil {
		return []string{}
	}
	return names
}

// Created describes the output of Create.
type Created struct {
	Dir            string
	Files          []string
	MappingUpdated bool
}

// Create validates name, writes the behavior, style and JSON files of a new
// component based on base and registers it in the mapping file and manifest.
// Nothing is written when name is invalid or its folder exists.
func (g *Generator) Create(ctx context.Context, name string, base BaseComponent) (Created, error) {
	logger := xlog.FromContext(ctx).With().Str("component", "scaffold").Logger()

	if err := components.ValidateNewName(name, g.Existing()); err != nil {
		return Created{}, err
	}
	dir := filepath.Join(g.paths.Layout.CustomDir, name)
	if _, err := os.Stat(dir); err == nil {
		return Created{}, fmt.Errorf("%s: %w", name, ErrComponentExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Created{}, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{name + ".js", ModuleStub(name, base)},
		{name + ".css", StyleStub(name)},
		{"_" + name + ".json", g.configFor(logger, name, base)},
	}
	out := Created{Dir: dir}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := support.WriteFileAtomic(path, f.data, 0o644); err != nil {
			return out, fmt.Errorf("write %s: %w", f.name, err)
		}
		out.Files = append(out.Files, path)
	}

	out.MappingUpdated = g.register(logger, name)

	if g.paths.Root != "" {
		if err := support.AppendAudit(g.paths.Root, support.AuditEntry{
			Mode:      "scaffold",
			Component: name,
			Files:     out.Files,
			Changed:   true,
			Result:    "ok",
		}); err != nil {
			logger.Warn().Err(err).Msg("audit append failed")
		}
	}
	logger.Info().Str("name", name).Str("base", base.Name).Msg("component created")
	return out, nil
}

func (g *Generator) configFor(logger zerolog.Logger, name string, base BaseComponent) []byte {
	path := filepath.Join(g.baseModels, base.Filename)
	src, err := os.ReadFile(path)
	if err == nil {
		var data []byte
		data, err = CustomizeTemplate(support.StripBOM(src), name)
		if err == nil {
			return data
		}
	}
	logger.Warn().Err(err).Str("base", base.Filename).
		Msg("could not read base component, creating basic JSON structure")
	return FallbackTemplate(name)
}

// register appends name to the mapping file and manifest. Failures are
// logged and reported as false.
func (g *Generator) register(logger zerolog.Logger, name string) bool {
	updated := false
	var lists *components.Lists

	src, err := os.ReadFile(g.paths.MappingFile)
	if err == nil {
		var next []byte
		next, err = mappings.AppendCustom(src, name)
		if err == nil {
			_, err = support.WriteIfChanged(g.paths.MappingFile, next)
		}
		if err == nil {
			updated = true
			custom, cerr := mappings.ReadCustom(next)
			ootb, oerr := mappings.ReadOOTB(next)
			if cerr == nil && oerr == nil {
				lists = &components.Lists{Custom: custom, OOTB: ootb}
			}
		}
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", g.paths.MappingFile).Msg("could not update mapping file")
	}

	if g.paths.ManifestFile == "" {
		return updated
	}
	if m, merr := mappings.ReadManifest(g.paths.ManifestFile); merr == nil {
		l := m.Lists()
		if !slices.Contains(l.Custom, name) {
			l.Custom = append(l.Custom, name)
		}
		lists = &l
	}
	if lists == nil {
		return updated
	}
	if _, err := mappings.WriteManifest(g.paths.ManifestFile, *lists); err != nil {
		logger.Warn().Err(err).Str("path", g.paths.ManifestFile).Msg("could not update manifest")
	}
	return updated
}
