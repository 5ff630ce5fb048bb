package provider

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Registry looks up configured providers by name.
type Registry struct {
	providers map[string]OAuthProvider
}

func NewRegistry(list ...OAuthProvider) *Registry {
	return &Registry{
		providers: lo.SliceToMap(list, func(p OAuthProvider) (string, OAuthProvider) {
			return p.Name(), p
		}),
	}
}

func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := lo.Keys(r.providers)
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.providers)
}
