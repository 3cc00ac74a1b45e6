package generator

import (
	"fmt"
	"reflect"
)

// Generator produces a value for the requested type. A nil result stands
// for the zero value of t.
type Generator interface {
	Generate(t reflect.Type) (any, error)
}

// Func adapts a function to the Generator interface.
type Func func(t reflect.Type) (any, error)

// Generate calls f(t).
func (f Func) Generate(t reflect.Type) (any, error) {
	return f(t)
}

// Value runs g for t and returns the result as a value of type t.
// Results of a convertible type are converted.
func Value(g Generator, t reflect.Type) (reflect.Value, error) {
	v, err := g.Generate(t)
	if err != nil {
		return reflect.Value{}, err
	}

	return Convert(v, t)
}

// Convert turns v into a reflect.Value of type t. Nil becomes the zero value.
func Convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv, ok := v.(reflect.Value)
	if !ok {
		rv = reflect.ValueOf(v)
	}

	if !rv.IsValid() {
		return reflect.Zero(t), nil
	}

	switch {
	case rv.Type().AssignableTo(t):
		if rv.Type() == t {
			return rv, nil
		}

		out := reflect.New(t).Elem()
		out.Set(rv)

		return out, nil
	case rv.Type().ConvertibleTo(t) && convertible(rv.Type(), t):
		return rv.Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("generated %s is not assignable to %s", rv.Type(), t)
	}
}

// convertible rejects the integer to string conversion, which reflect allows
// but which yields a rune instead of a number.
func convertible(from, to reflect.Type) bool {
	if to.Kind() == reflect.String {
		return from.Kind() == reflect.String || (from.Kind() == reflect.Slice && from.Elem().Kind() == reflect.Uint8)
	}

	return true
}
