package fluent

import (
	"fmt"
	"reflect"

	"bean-forge/builder"
	"bean-forge/generator"
)

// Adapter dispatches commands given by name, using the same table as Bind.
type Adapter struct {
	session  *builder.Session
	prefixes []string
}

// NewAdapter returns an Adapter over s.
func NewAdapter(s *builder.Session, opts ...Option) *Adapter {
	return &Adapter{session: s, prefixes: newOptions(opts).prefixes}
}

// Session returns the session commands currently go to.
func (a *Adapter) Session() *builder.Session { return a.session }

// Call runs method with args. Session methods return their result, with a
// *builder.Session result replaced by the adapter itself; a non-nil error
// result is returned as the error. Convention methods return the adapter
// and the session's error.
func (a *Adapter) Call(method string, args ...any) (any, error) {
	cmd, ok := lookup(method, a.prefixes)
	if !ok {
		return nil, fmt.Errorf("fluent: %s matches no session method and no prefix in %q", method, a.prefixes)
	}

	if cmd.kind == passThrough {
		return a.invoke(cmd.method, args)
	}

	switch len(args) {
	case 0:
		a.session.GenerateValue(cmd.property)
	case 1:
		if g, ok := args[0].(generator.Generator); ok {
			a.session.GenerateValueWith(cmd.property, g)
		} else {
			a.session.WithValue(cmd.property, args[0])
		}
	default:
		return nil, fmt.Errorf("fluent: %s takes at most one argument, got %d", method, len(args))
	}

	return a, a.session.Err()
}

func (a *Adapter) invoke(m reflect.Method, args []any) (any, error) {
	mt := m.Type

	fixed := mt.NumIn() - 1
	if mt.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!mt.IsVariadic() && len(args) > fixed) {
		return nil, fmt.Errorf("fluent: %s takes %d arguments, got %d", m.Name, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		v, err := generator.Convert(arg, paramType(mt, i, true))
		if err != nil {
			return nil, fmt.Errorf("fluent: %s argument %d: %w", m.Name, i, err)
		}

		in[i] = v
	}

	var result any

	for _, v := range reflect.ValueOf(a.session).MethodByName(m.Name).Call(in) {
		switch {
		case v.Type() == sessionType:
			a.session = v.Interface().(*builder.Session)
			result = a
		case v.Type() == errorType:
			if !v.IsNil() {
				return nil, v.Interface().(error)
			}
		default:
			result = v.Interface()
		}
	}

	return result, nil
}
