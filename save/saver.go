package save

import (
	"context"
	"reflect"

	"bean-forge/beanerr"
)

// Saver stores and removes beans. Save returns the stored bean, which may be
// the argument itself or a copy carrying store-assigned values.
type Saver interface {
	Save(ctx context.Context, bean any) (any, error)
	Delete(ctx context.Context, bean any) error
}

// Unsupported rejects every call with an UnsupportedOperation error.
type Unsupported struct{}

func (Unsupported) Save(_ context.Context, bean any) (any, error) {
	return nil, beanerr.NewUnsupportedOperation(reflect.TypeOf(bean), "no saver configured, cannot save")
}

func (Unsupported) Delete(_ context.Context, bean any) error {
	return beanerr.NewUnsupportedOperation(reflect.TypeOf(bean), "no saver configured, cannot delete")
}

// Nop returns beans unchanged without storing them.
type Nop struct{}

func (Nop) Save(_ context.Context, bean any) (any, error) { return bean, nil }

func (Nop) Delete(context.Context, any) error { return nil }

// Func builds a Saver from functions. A nil function behaves like Nop.
type Func struct {
	SaveFunc   func(ctx context.Context, bean any) (any, error)
	DeleteFunc func(ctx context.Context, bean any) error
}

func (f Func) Save(ctx context.Context, bean any) (any, error) {
	if f.SaveFunc == nil {
		return bean, nil
	}

	return f.SaveFunc(ctx, bean)
}

func (f Func) Delete(ctx context.Context, bean any) error {
	if f.DeleteFunc == nil {
		return nil
	}

	return f.DeleteFunc(ctx, bean)
}

// DeleteAll deletes beans one by one and stops at the first failure.
func DeleteAll(ctx context.Context, s Saver, beans ...any) error {
	for _, bean := range beans {
		if err := s.Delete(ctx, bean); err != nil {
			return err
		}
	}

	return nil
}
