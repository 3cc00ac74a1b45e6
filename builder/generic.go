package builder

import (
	"context"
	"fmt"
	"reflect"
)

// Start opens a session for bean type T.
func Start[T any](b *Builder) *Session {
	return b.Start(reflect.TypeFor[T]())
}

// Generate produces a value of type T.
func Generate[T any](b *Builder) (T, error) {
	var zero T

	v, err := b.Generate(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok && v != nil {
		return zero, fmt.Errorf("builder: generated %T, not %s", v, reflect.TypeFor[T]())
	}

	return out, nil
}

// Construct finalizes s and returns its bean as a *T.
func Construct[T any](s *Session) (*T, error) {
	v, err := s.Construct()
	if err != nil {
		return nil, err
	}

	return typed[T](v)
}

// Save finalizes s, saves its bean and returns the saved value as a *T.
func Save[T any](ctx context.Context, s *Session) (*T, error) {
	v, err := s.Save(ctx)
	if err != nil {
		return nil, err
	}

	return typed[T](v)
}

func typed[T any](v any) (*T, error) {
	bean, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("builder: bean is %T, not %s", v, reflect.TypeFor[*T]())
	}

	return bean, nil
}
