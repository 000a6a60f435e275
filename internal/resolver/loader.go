package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/formblock/formstool/internal/components"
	xlog "github.com/formblock/formstool/internal/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNoElementID is returned when neither the element nor its field carries
// an id to key the status table.
var ErrNoElementID = errors.New("element has no id")

// Element is a rendered form field awaiting decoration.
type Element struct {
	ID    string
	Block string
	Attrs map[string]string
}

// DecorateFunc is a module's default export.
type DecorateFunc func(ctx context.Context, el *Element, field Field, container *Element, formID string) (*Element, error)

// Module is an imported behavior module. Decorate is nil when the module has
// no default export.
type Module struct {
	Path     string
	Decorate DecorateFunc
}

// Assets loads stylesheets and behavior modules.
type Assets interface {
	LoadStyle(ctx context.Context, path string) error
	Import(ctx context.Context, path string) (*Module, error)
}

type Options struct {
	// CodeBasePath prefixes every asset path.
	CodeBasePath string
	// ModuleCacheSize bounds the imported module registry. Zero uses 128.
	ModuleCacheSize int
	Logger          *zerolog.Logger
}

// Loader decorates elements, tracking a Status per element id.
type Loader struct {
	registry *components.Registry
	assets   Assets
	base     string
	logger   zerolog.Logger

	mu     sync.Mutex
	status map[string]Status

	imports singleflight.Group
	modules *lru.Cache[string, *Module]
}

func NewLoader(reg *components.Registry, assets Assets, opts Options) (*Loader, error) {
	size := opts.ModuleCacheSize
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, *Module](size)
	if err != nil {
		return nil, fmt.Errorf("module cache: %w", err)
	}
	logger := xlog.WithComponent("resolver")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Loader{
		registry: reg,
		assets:   assets,
		base:     opts.CodeBasePath,
		logger:   logger,
		status:   make(map[string]Status),
		modules:  cache,
	}, nil
}

// Status returns the load state recorded for id.
func (l *Loader) Status(id string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status[id]
}

// Forget drops the status entry of a destroyed element.
func (l *Loader) Forget(id string) {
	l.mu.Lock()
	delete(l.status, id)
	l.mu.Unlock()
}

// Decorate resolves field and, on the first call for el, loads the component
// stylesheet and module and runs the module's default export. Later calls for
// the same element return el untouched. A failed import or decoration marks
// the element Failed and is never retried; a stylesheet that cannot be loaded
// is only logged.
func (l *Loader) Decorate(ctx context.Context, el *Element, field Field, container *Element, formID string) (*Element, error) {
	target, ok := Resolve(l.registry, field)
	if !ok {
		return el, nil
	}
	id := el.ID
	if id == "" {
		id = field.ID
	}
	if id == "" {
		return el, ErrNoElementID
	}

	l.mu.Lock()
	if l.status[id] != NotLoaded {
		l.mu.Unlock()
		return el, nil
	}
	l.status[id] = Loading
	l.mu.Unlock()

	out, err := l.load(ctx, target, el, field, container, formID)
	if err != nil {
		block := el.Block
		if block == "" {
			block = target.Name
		}
		l.logger.Error().Err(err).
			Str("block", block).
			Str("element", id).
			Str("target", target.String()).
			Msg("error while loading component")
		l.setStatus(id, Failed)
		return el, fmt.Errorf("%s: %w", block, err)
	}
	l.setStatus(id, Loaded)
	return out, nil
}

func (l *Loader) setStatus(id string, s Status) {
	l.mu.Lock()
	l.status[id] = s
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context, target Target, el *Element, field Field, container *Element, formID string) (*Element, error) {
	var mod *Module
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		style := target.StylePath(l.base)
		if err := l.assets.LoadStyle(gctx, style); err != nil {
			l.logger.Warn().Err(err).Str("style", style).Msg("stylesheet not loaded")
		}
		return nil
	})
	g.Go(func() error {
		m, err := l.importModule(gctx, target.ModulePath(l.base))
		mod = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if mod == nil || mod.Decorate == nil {
		return el, nil
	}
	out, err := mod.Decorate(ctx, el, field, container, formID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = el
	}
	return out, nil
}

func (l *Loader) importModule(ctx context.Context, path string) (*Module, error) {
	if m, ok := l.modules.Get(path); ok {
		return m, nil
	}
	v, err, _ := l.imports.Do(path, func() (any, error) {
		if m, ok := l.modules.Get(path); ok {
			return m, nil
		}
		// Shared by every element waiting on path; one caller's cancellation
		// must not fail the others.
		m, err := l.assets.Import(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		l.modules.Add(path, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Module), nil
}
