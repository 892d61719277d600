package registry

import (
	"sort"
)

// Registry holds the platform's static catalogs: the ordered module list and
// the theme presets. It is built once at process start and injected into
// handlers; nothing mutates it at request time.
type Registry struct {
	modules []Module
	byID    map[string]Module
	themes  map[string]Theme
}

// New builds a registry from the default catalogs
func New() *Registry {
	return NewWith(DefaultModules(), DefaultThemes())
}

// NewWith builds a registry from explicit catalogs (used by tests)
func NewWith(modules []Module, themes map[string]Theme) *Registry {
	sorted := make([]Module, len(modules))
	copy(sorted, modules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	byID := make(map[string]Module, len(sorted))
	for _, m := range sorted {
		byID[m.ID] = m
	}

	themeCopy := make(map[string]Theme, len(themes))
	for k, v := range themes {
		themeCopy[k] = v
	}

	return &Registry{
		modules: sorted,
		byID:    byID,
		themes:  themeCopy,
	}
}

// Modules returns the catalog in sort order
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Module looks up a catalog entry by ID
func (r *Registry) Module(id string) (Module, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// Themes returns the preset catalog keyed by preset name
func (r *Registry) Themes() map[string]Theme {
	out := make(map[string]Theme, len(r.themes))
	for k, v := range r.themes {
		out[k] = v
	}
	return out
}

// Theme looks up a preset by key. The returned value is a copy; callers
// storing it on an event persist a snapshot, not a reference.
func (r *Registry) Theme(key string) (Theme, bool) {
	t, ok := r.themes[key]
	return t, ok
}
