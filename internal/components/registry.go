package components

import (
	"slices"
	"sync"
)

// Registry is an immutable snapshot of the known component lists. It is
// built once at startup; Reload swaps in a new snapshot atomically.
type Registry struct {
	mu   sync.RWMutex
	snap Lists
}

// NewRegistry builds a registry from lists, dropping duplicate names while
// keeping first-seen order.
func NewRegistry(lists Lists) *Registry {
	return &Registry{snap: normalize(lists)}
}

// Reload replaces the snapshot.
func (r *Registry) Reload(lists Lists) {
	n := normalize(lists)
	r.mu.Lock()
	r.snap = n
	r.mu.Unlock()
}

// Custom returns a copy of the custom component list.
func (r *Registry) Custom() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.snap.Custom)
}

// OOTB returns a copy of the out-of-the-box component list.
func (r *Registry) OOTB() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.snap.OOTB)
}

// Lists returns a copy of both lists.
func (r *Registry) Lists() Lists {
	return Lists{Custom: r.Custom(), OOTB: r.OOTB()}
}

func (r *Registry) IsCustom(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.snap.Custom, name)
}

func (r *Registry) IsOOTB(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.snap.OOTB, name)
}

func normalize(lists Lists) Lists {
	return Lists{Custom: dedupe(lists.Custom), OOTB: dedupe(lists.OOTB)}
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
