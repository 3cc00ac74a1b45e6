package builder

import (
	"reflect"
	"slices"

	"bean-forge/beanerr"
	"bean-forge/construct"
	"bean-forge/generator"
)

// scope generates values on behalf of a builder while remembering which
// struct types are being generated, so a type is never generated inside
// itself and nesting stays within maxDepth.
type scope struct {
	b     *Builder
	stack []reflect.Type
}

// Generate implements generator.Generator for constructor arguments and
// stand-in results.
func (s scope) Generate(t reflect.Type) (any, error) {
	v, err := s.value(t)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

func (s scope) enter(t reflect.Type) scope {
	return scope{b: s.b, stack: append(slices.Clip(s.stack), t)}
}

func (s scope) start(t reflect.Type) *Session {
	return newSession(s.enter(structType(t)), t)
}

// guarded reports whether nested generation of struct type t must stop.
func (s scope) guarded(t reflect.Type) bool {
	return slices.Contains(s.stack, t) || len(s.stack) > s.b.maxDepth
}

func (s scope) instantiate(t reflect.Type) (reflect.Value, error) {
	return s.b.beans.WithArguments(s).Instantiate(t)
}

// value resolves t through the registry, then the kind fallback, then the
// registry fallback.
func (s scope) value(t reflect.Type) (reflect.Value, error) {
	if s.b.registry.Contains(t) {
		return generator.Value(s.b.registry, t)
	}

	v, err := s.fallback(t)
	if err == nil || !beanerr.IsResolution(err) || s.b.registry.Fallback() == nil {
		return v, err
	}

	return generator.Value(s.b.registry.Fallback(), t)
}

func (s scope) fallback(t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer:
		return s.pointer(t)
	case reflect.Slice:
		return s.slice(t)
	case reflect.Array:
		return s.array(t)
	case reflect.Map:
		return s.mapOf(t)
	case reflect.Chan:
		return s.channel(t), nil
	case reflect.Func:
		return reflect.MakeFunc(t, s.stub(t)), nil
	case reflect.Interface:
		return s.abstract(t)
	case reflect.Struct:
		return s.nested(t)
	}

	if base := generator.Basic(t); base != nil && base != t {
		v, err := s.value(base)
		if err != nil {
			return reflect.Value{}, err
		}

		return v.Convert(t), nil
	}

	return reflect.Value{}, beanerr.NewResolution(t)
}

func (s scope) pointer(t reflect.Type) (reflect.Value, error) {
	elem := t.Elem()
	if elem.Kind() == reflect.Struct && !s.b.registry.Contains(elem) && s.guarded(elem) {
		s.b.logger.Debug("nested generation stopped", "type", elem, "depth", len(s.stack))
		return reflect.Zero(t), nil
	}

	v, err := s.value(elem)
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(elem)
	p.Elem().Set(v)

	return p, nil
}

func (s scope) slice(t reflect.Type) (reflect.Value, error) {
	n := s.b.collectionSize
	out := reflect.MakeSlice(t, n, n)

	for i := range n {
		v, err := s.value(t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out.Index(i).Set(v)
	}

	return out, nil
}

func (s scope) array(t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	for i := range t.Len() {
		v, err := s.value(t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out.Index(i).Set(v)
	}

	return out, nil
}

func (s scope) mapOf(t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(t, s.b.collectionSize)

	for range s.b.collectionSize {
		k, err := s.value(t.Key())
		if err != nil {
			return reflect.Value{}, err
		}

		v, err := s.value(t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(k, v)
	}

	return out, nil
}

func (s scope) channel(t reflect.Type) reflect.Value {
	if t.ChanDir() == reflect.BothDir {
		return reflect.MakeChan(t, s.b.collectionSize)
	}

	return reflect.MakeChan(reflect.ChanOf(reflect.BothDir, t.Elem()), s.b.collectionSize).Convert(t)
}

var errorType = reflect.TypeFor[error]()

// stub returns a function body producing generated results. Results that
// cannot be generated, and error results, are zero.
func (s scope) stub(t reflect.Type) func([]reflect.Value) []reflect.Value {
	return func([]reflect.Value) []reflect.Value {
		out := make([]reflect.Value, t.NumOut())

		for i := range out {
			rt := t.Out(i)
			out[i] = reflect.Zero(rt)

			if rt == errorType {
				continue
			}

			if v, err := s.value(rt); err == nil {
				out[i] = v
			}
		}

		return out
	}
}

// abstract instantiates an interface. Stand-ins come from the bean generator;
// concrete and discovered types are generated completely.
func (s scope) abstract(t reflect.Type) (reflect.Value, error) {
	res, err := s.b.abstract.Resolve(t)
	if err != nil {
		return reflect.Value{}, err
	}

	if res.Kind == construct.ResolveStandIn {
		return s.instantiate(t)
	}

	v, err := s.value(res.Type)
	if err != nil {
		return reflect.Value{}, err
	}

	if !v.Type().Implements(t) && reflect.PointerTo(v.Type()).Implements(t) {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}

	out := reflect.New(t).Elem()
	out.Set(v)

	return out, nil
}

// nested generates a struct value through a filled session of its own.
func (s scope) nested(t reflect.Type) (reflect.Value, error) {
	if s.guarded(t) {
		s.b.logger.Debug("nested generation stopped", "type", t, "depth", len(s.stack))
		return reflect.Zero(t), nil
	}

	bean, err := s.start(t).Fill().construct()
	if err != nil {
		return reflect.Value{}, err
	}

	return bean.Elem(), nil
}
