package construct

import (
	"fmt"
	"io"
	"reflect"

	"bean-forge/beanerr"
)

// ResolutionKind tells how an interface type is to be instantiated.
type ResolutionKind int

const (
	_ ResolutionKind = iota

	// ResolveConcrete uses a type bound explicitly to the interface.
	ResolveConcrete
	// ResolveStandIn uses an adapter struct whose func fields are stubbed.
	ResolveStandIn
	// ResolveFirstDiscovered uses the first known type implementing the interface.
	ResolveFirstDiscovered
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolveConcrete:
		return "Concrete"
	case ResolveStandIn:
		return "StandIn"
	case ResolveFirstDiscovered:
		return "FirstDiscovered"
	default:
		return fmt.Sprintf("ResolutionKind(%d)", int(k))
	}
}

// Resolution is the outcome of resolving an interface type.
type Resolution struct {
	Kind ResolutionKind
	Type reflect.Type
}

// AbstractResolver decides which type to instantiate for an interface.
type AbstractResolver interface {
	Resolve(iface reflect.Type) (Resolution, error)
}

// StandIns resolves interfaces through explicit bindings and registered
// adapter structs. An adapter is a struct with exported func fields whose
// pointer implements the interface by delegating to those fields:
//
//	type readerStandIn struct{ ReadFunc func([]byte) (int, error) }
//
//	func (r *readerStandIn) Read(p []byte) (int, error) { return r.ReadFunc(p) }
//
// Interfaces without methods resolve to the SetEmpty type (string by default).
type StandIns struct {
	concrete map[reflect.Type]reflect.Type
	adapters map[reflect.Type]reflect.Type
	empty    reflect.Type
}

// NewStandIns creates a resolver that knows adapters for error, fmt.Stringer
// and io.Closer.
func NewStandIns() *StandIns {
	s := &StandIns{
		concrete: make(map[reflect.Type]reflect.Type),
		adapters: make(map[reflect.Type]reflect.Type),
		empty:    reflect.TypeFor[string](),
	}

	s.adapters[reflect.TypeFor[error]()] = reflect.TypeFor[errorStandIn]()
	s.adapters[reflect.TypeFor[fmt.Stringer]()] = reflect.TypeFor[stringerStandIn]()
	s.adapters[reflect.TypeFor[io.Closer]()] = reflect.TypeFor[closerStandIn]()

	return s
}

// Bind makes iface resolve to impl, which must implement it directly or
// through its pointer.
func (s *StandIns) Bind(iface, impl reflect.Type) error {
	if err := checkInterface(iface); err != nil {
		return err
	}

	if !impl.Implements(iface) && !reflect.PointerTo(impl).Implements(iface) {
		return fmt.Errorf("%s does not implement %s", impl, iface)
	}

	s.concrete[iface] = impl

	return nil
}

// Adapter registers adapter as the stand-in for iface.
func (s *StandIns) Adapter(iface, adapter reflect.Type) error {
	if err := checkInterface(iface); err != nil {
		return err
	}

	if adapter.Kind() != reflect.Struct {
		return fmt.Errorf("stand-in %s must be a struct", adapter)
	}

	if !reflect.PointerTo(adapter).Implements(iface) {
		return fmt.Errorf("*%s does not implement %s", adapter, iface)
	}

	s.adapters[iface] = adapter

	return nil
}

// SetEmpty sets the type used for interfaces without methods.
func (s *StandIns) SetEmpty(t reflect.Type) {
	s.empty = t
}

// Clone returns an independent copy.
func (s *StandIns) Clone() *StandIns {
	c := &StandIns{
		concrete: make(map[reflect.Type]reflect.Type, len(s.concrete)),
		adapters: make(map[reflect.Type]reflect.Type, len(s.adapters)),
		empty:    s.empty,
	}

	for k, v := range s.concrete {
		c.concrete[k] = v
	}

	for k, v := range s.adapters {
		c.adapters[k] = v
	}

	return c
}

func (s *StandIns) Resolve(iface reflect.Type) (Resolution, error) {
	if impl, ok := s.concrete[iface]; ok {
		return Resolution{Kind: ResolveConcrete, Type: impl}, nil
	}

	if adapter, ok := s.adapters[iface]; ok {
		return Resolution{Kind: ResolveStandIn, Type: adapter}, nil
	}

	if iface.Kind() == reflect.Interface && iface.NumMethod() == 0 && s.empty != nil {
		return Resolution{Kind: ResolveConcrete, Type: s.empty}, nil
	}

	return Resolution{}, beanerr.NewConstruction(iface, "no stand-in registered for interface", nil)
}

// BindTo makes I resolve to T.
func BindTo[I, T any](s *StandIns) error {
	return s.Bind(reflect.TypeFor[I](), reflect.TypeFor[T]())
}

// AdapterFor registers A as the stand-in for I.
func AdapterFor[I, A any](s *StandIns) error {
	return s.Adapter(reflect.TypeFor[I](), reflect.TypeFor[A]())
}

// Implementations lists the types that may implement an interface.
type Implementations interface {
	Implementations(iface reflect.Type) []reflect.Type
}

// FirstImplementation resolves an interface to the first catalog type that
// implements it.
type FirstImplementation struct {
	Catalog Implementations
}

func (f FirstImplementation) Resolve(iface reflect.Type) (Resolution, error) {
	if err := checkInterface(iface); err != nil {
		return Resolution{}, beanerr.NewConstruction(iface, "cannot resolve", err)
	}

	impls := f.Catalog.Implementations(iface)
	if len(impls) == 0 {
		return Resolution{}, beanerr.NewConstruction(iface, "no known implementation", nil)
	}

	return Resolution{Kind: ResolveFirstDiscovered, Type: impls[0]}, nil
}

// Chain tries each resolver in turn and returns the first success, or the
// last error.
func Chain(resolvers ...AbstractResolver) AbstractResolver {
	return chain(resolvers)
}

type chain []AbstractResolver

func (c chain) Resolve(iface reflect.Type) (Resolution, error) {
	err := error(beanerr.NewConstruction(iface, "no resolver configured", nil))

	for _, r := range c {
		var res Resolution

		res, err = r.Resolve(iface)
		if err == nil {
			return res, nil
		}
	}

	return Resolution{}, err
}

func checkInterface(t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Interface {
		return fmt.Errorf("%v is not an interface", t)
	}

	return nil
}

type errorStandIn struct {
	ErrorFunc func() string
}

func (e *errorStandIn) Error() string { return e.ErrorFunc() }

type stringerStandIn struct {
	StringFunc func() string
}

func (s *stringerStandIn) String() string { return s.StringFunc() }

type closerStandIn struct {
	CloseFunc func() error
}

func (c *closerStandIn) Close() error { return c.CloseFunc() }
