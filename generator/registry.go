package generator

import (
	"reflect"

	"bean-forge/beanerr"
)

type entry struct {
	typ reflect.Type
	gen Generator
}

// Registry maps types to generators. Entries keep their registration order,
// which decides between several assignable candidates.
type Registry struct {
	entries  []entry
	index    map[reflect.Type]int
	fallback Generator
}

// NewRegistry creates an empty registry without fallback.
func NewRegistry() *Registry {
	return &Registry{index: make(map[reflect.Type]int)}
}

// Register binds g to t. Registering t again replaces the generator but keeps
// the original position.
func (r *Registry) Register(t reflect.Type, g Generator) *Registry {
	if i, ok := r.index[t]; ok {
		r.entries[i].gen = g
		return r
	}

	r.index[t] = len(r.entries)
	r.entries = append(r.entries, entry{typ: t, gen: g})

	return r
}

// RegisterValue binds a constant value to t.
func (r *Registry) RegisterValue(t reflect.Type, v any) *Registry {
	return r.Register(t, Constant(v))
}

// Register binds g to T.
func Register[T any](r *Registry, g Generator) *Registry {
	return r.Register(reflect.TypeFor[T](), g)
}

// RegisterFunc binds a supplier function to T.
func RegisterFunc[T any](r *Registry, fn func() T) *Registry {
	return r.Register(reflect.TypeFor[T](), SupplierOf(fn))
}

// RegisterValueOf binds the constant v to T.
func RegisterValueOf[T any](r *Registry, v T) *Registry {
	return r.Register(reflect.TypeFor[T](), Constant(v))
}

// SetFallback sets the generator used when no entry matches.
func (r *Registry) SetFallback(g Generator) *Registry {
	r.fallback = g
	return r
}

// Fallback returns the fallback generator, or nil.
func (r *Registry) Fallback() Generator {
	return r.fallback
}

// Contains reports whether an entry matches t, exactly or by assignability.
// The fallback is not considered.
func (r *Registry) Contains(t reflect.Type) bool {
	_, ok := r.lookup(t)
	return ok
}

// Resolve returns the generator for t.
func (r *Registry) Resolve(t reflect.Type) (Generator, error) {
	if g, ok := r.lookup(t); ok {
		return g, nil
	}

	if r.fallback != nil {
		return r.fallback, nil
	}

	return nil, beanerr.NewResolution(t)
}

// Generate resolves and runs the generator for t.
func (r *Registry) Generate(t reflect.Type) (any, error) {
	g, err := r.Resolve(t)
	if err != nil {
		return nil, err
	}

	return g.Generate(t)
}

func (r *Registry) lookup(t reflect.Type) (Generator, bool) {
	if t == nil {
		return nil, false
	}

	if i, ok := r.index[t]; ok {
		return r.entries[i].gen, true
	}

	for _, e := range r.entries {
		if t.AssignableTo(e.typ) {
			return e.gen, true
		}
	}

	return nil, false
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []reflect.Type {
	types := make([]reflect.Type, len(r.entries))
	for i, e := range r.entries {
		types[i] = e.typ
	}

	return types
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clone returns an independent copy. Generators themselves are shared.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		entries:  make([]entry, len(r.entries)),
		index:    make(map[reflect.Type]int, len(r.index)),
		fallback: r.fallback,
	}

	copy(c.entries, r.entries)

	for t, i := range r.index {
		c.index[t] = i
	}

	return c
}
