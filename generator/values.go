package generator

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Constant always returns v.
func Constant(v any) Generator {
	return Func(func(reflect.Type) (any, error) { return v, nil })
}

// Supplier returns whatever fn produces.
func Supplier(fn func() any) Generator {
	return Func(func(reflect.Type) (any, error) { return fn(), nil })
}

// SupplierOf is the typed form of Supplier.
func SupplierOf[T any](fn func() T) Generator {
	return Func(func(reflect.Type) (any, error) { return fn(), nil })
}

// Zero leaves the property at its zero value.
func Zero() Generator {
	return Func(func(reflect.Type) (any, error) { return nil, nil })
}

// AnyOf picks one of values at random on each call.
func AnyOf(f *gofakeit.Faker, values ...any) Generator {
	return Func(func(t reflect.Type) (any, error) {
		if len(values) == 0 {
			return nil, fmt.Errorf("no values to choose from for %s", t)
		}

		return values[f.IntRange(0, len(values)-1)], nil
	})
}

// Delegate generates a value of target through src and converts it to the
// requested type. It lets a defined type reuse the generator of another.
func Delegate(src Generator, target reflect.Type) Generator {
	return Func(func(t reflect.Type) (any, error) {
		v, err := Value(src, target)
		if err != nil {
			return nil, err
		}

		out, err := Convert(v, t)
		if err != nil {
			return nil, err
		}

		return out.Interface(), nil
	})
}

// Enum is implemented by enumeration types. EnumValues lists the valid values
// in declaration order and must work on the zero value.
type Enum interface {
	EnumValues() []any
}

var enumType = reflect.TypeFor[Enum]()

// EnumFirst returns the first value of the requested Enum type.
func EnumFirst() Generator {
	return Func(func(t reflect.Type) (any, error) {
		if !t.Implements(enumType) {
			return nil, fmt.Errorf("%s does not implement generator.Enum", t)
		}

		values := reflect.Zero(t).Interface().(Enum).EnumValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("enum %s has no values", t)
		}

		return values[0], nil
	})
}

// EmptyCollection produces an empty, non-nil slice, map or channel.
func EmptyCollection() Generator {
	return Func(func(t reflect.Type) (any, error) {
		switch t.Kind() {
		case reflect.Slice:
			return reflect.MakeSlice(t, 0, 0).Interface(), nil
		case reflect.Map:
			return reflect.MakeMap(t).Interface(), nil
		case reflect.Chan:
			return reflect.MakeChan(t, 0).Interface(), nil
		default:
			return nil, fmt.Errorf("%s is not a collection", t)
		}
	})
}

// EmptyArray produces an array of zero elements. Go arrays have a fixed
// length, so every element keeps its zero value.
func EmptyArray() Generator {
	return Func(func(t reflect.Type) (any, error) {
		if t.Kind() != reflect.Array {
			return nil, fmt.Errorf("%s is not an array", t)
		}

		return reflect.Zero(t).Interface(), nil
	})
}

// UUID produces random uuid.UUID values. With a non-nil faker the values are
// reproducible for a given seed.
func UUID(f *gofakeit.Faker) Generator {
	return Func(func(reflect.Type) (any, error) {
		if f == nil {
			return uuid.New(), nil
		}

		return uuid.Parse(f.UUID())
	})
}

// UUIDString produces random UUIDs in their string form.
func UUIDString(f *gofakeit.Faker) Generator {
	return Func(func(reflect.Type) (any, error) {
		if f == nil {
			return uuid.NewString(), nil
		}

		return f.UUID(), nil
	})
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sequence produces start, start+step, start+2*step and so on.
func Sequence[N number](start, step N) Generator {
	next := start

	return Func(func(reflect.Type) (any, error) {
		v := next
		next += step

		return v, nil
	})
}

// StringSequence produces prefix1, prefix2 and so on.
func StringSequence(prefix string) Generator {
	n := 0

	return Func(func(reflect.Type) (any, error) {
		n++
		return prefix + strconv.Itoa(n), nil
	})
}
