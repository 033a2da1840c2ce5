package catalog

import "fmt"

// Registry is an immutable, ordered collection of format descriptors.
// Registration order is significant: the detector breaks score ties in favor
// of the first-registered descriptor.
type Registry struct {
	ordered []*Descriptor
	byKey   map[string]*Descriptor
}

// NewRegistry builds a registry from descriptors. Duplicate keys are an error.
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	r := &Registry{
		ordered: make([]*Descriptor, 0, len(descriptors)),
		byKey:   make(map[string]*Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Key == "" {
			return nil, fmt.Errorf("descriptor for %q has no key", d.Institution)
		}
		if _, exists := r.byKey[d.Key]; exists {
			return nil, fmt.Errorf("duplicate descriptor key %q", d.Key)
		}
		r.ordered = append(r.ordered, d)
		r.byKey[d.Key] = d
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for static catalogs known to be valid.
func MustNewRegistry(descriptors ...*Descriptor) *Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the descriptor for a key, or false.
func (r *Registry) Get(key string) (*Descriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// All returns the descriptors in registration order. Callers must not mutate
// the returned slice or the descriptors.
func (r *Registry) All() []*Descriptor {
	return r.ordered
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.ordered)
}
