package params

import (
	"fmt"
	"sort"
)

// Registry is the full set of parameter specs an exported model knows
// about. It is populated once at construction and read-only afterwards.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry builds a registry from the given specs. Duplicate names
// are rejected: two specs under one name would make expanded-symbol
// ownership ambiguous.
func NewRegistry(specs ...*Spec) (*Registry, error) {
	byName := make(map[string]*Spec, len(specs))
	for _, spec := range specs {
		if _, exists := byName[spec.Name]; exists {
			return nil, &ConfigError{Name: spec.Name, Detail: "duplicate parameter name"}
		}
		byName[spec.Name] = spec
	}
	return &Registry{specs: byName}, nil
}

// Get returns the spec registered under name.
func (r *Registry) Get(name string) (*Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns all registered parameter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered parameters.
func (r *Registry) Len() int {
	return len(r.specs)
}

// ExpandNames maps a list of parameter names onto the flat-namespace
// slot names they occupy, preserving input order.
func (r *Registry) ExpandNames(names []string) ([]string, error) {
	var out []string
	for _, name := range names {
		spec, ok := r.specs[name]
		if !ok {
			return nil, &ConfigError{Name: name, Detail: "unknown parameter"}
		}
		out = append(out, spec.ExpandedNames()...)
	}
	return out, nil
}

// Unexpand maps expanded symbol names back onto the parameters that own
// them, deduplicated and sorted. A symbol with no owning parameter means
// the formula and the registry were built against different scopes, and
// is reported as a ConfigError rather than dropped.
func (r *Registry) Unexpand(expanded []string) ([]string, error) {
	owners := make(map[string]string)
	for _, spec := range r.specs {
		for _, slot := range spec.ExpandedNames() {
			owners[slot] = spec.Name
		}
	}

	seen := make(map[string]struct{})
	for _, slot := range expanded {
		owner, ok := owners[slot]
		if !ok {
			return nil, &ConfigError{Name: slot, Detail: fmt.Sprintf("symbol %q is not owned by any registered parameter", slot)}
		}
		seen[owner] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
