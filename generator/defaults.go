package generator

import (
	"reflect"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// DefaultString is the value RegisterDefaults binds to string.
const DefaultString = "value"

var integerTypes = []reflect.Type{
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
}

var floatTypes = []reflect.Type{
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
}

// RegisterDefaults binds predictable values to the common types: zero for
// numbers and durations, false, "value", the current time, a random UUID,
// an empty byte slice and the first value of any Enum.
func RegisterDefaults(r *Registry) *Registry {
	r.RegisterValue(reflect.TypeFor[bool](), false)

	for _, t := range integerTypes {
		r.RegisterValue(t, reflect.Zero(t).Interface())
	}

	for _, t := range floatTypes {
		r.RegisterValue(t, reflect.Zero(t).Interface())
	}

	r.RegisterValue(reflect.TypeFor[string](), DefaultString)
	r.Register(timeType, Func(func(reflect.Type) (any, error) { return time.Now(), nil }))
	r.RegisterValue(durationType, time.Duration(0))
	r.Register(reflect.TypeFor[uuid.UUID](), UUID(nil))
	r.Register(reflect.TypeFor[[]byte](), EmptyCollection())
	r.Register(enumType, EnumFirst())

	return r
}

// RegisterRandomDefaults binds random generators backed by f to the same
// types as RegisterDefaults, so that two generated values usually differ.
func RegisterRandomDefaults(r *Registry, f *gofakeit.Faker) *Registry {
	r.Register(reflect.TypeFor[bool](), RandomBool(f))

	for _, t := range integerTypes {
		r.Register(t, RandomInt(f))
	}

	for _, t := range floatTypes {
		r.Register(t, RandomFloat(f, -1e6, 1e6))
	}

	now := time.Now()

	r.Register(reflect.TypeFor[string](), RandomString(f, 12))
	r.Register(timeType, RandomTime(f, now.AddDate(-10, 0, 0), now.AddDate(10, 0, 0)))
	r.Register(durationType, RandomDuration(f, 24*time.Hour))
	r.Register(reflect.TypeFor[uuid.UUID](), UUID(f))
	r.Register(reflect.TypeFor[[]byte](), RandomBytes(f, 16))
	r.Register(enumType, AnyEnum(f))

	return r
}

// AnyEnum picks a random value of the requested Enum type.
func AnyEnum(f *gofakeit.Faker) Generator {
	return Func(func(t reflect.Type) (any, error) {
		first, err := EnumFirst().Generate(t)
		if err != nil {
			return nil, err
		}

		values := reflect.Zero(t).Interface().(Enum).EnumValues()
		if len(values) == 1 {
			return first, nil
		}

		return AnyOf(f, values...).Generate(t)
	})
}
