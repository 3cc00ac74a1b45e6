package generator

import (
	"fmt"
	"reflect"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// NewFaker returns a faker seeded with seed. Seed 0 picks a random seed.
func NewFaker(seed uint64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// RandomInt produces random integers sized to the requested kind, so an int8
// property gets a value in [-128, 127].
func RandomInt(f *gofakeit.Faker) Generator {
	return Func(func(t reflect.Type) (any, error) {
		k := BasicKind(t)

		switch {
		case k.IsSigned():
			v := f.Int64() >> (64 - k.Bits())
			return reflect.ValueOf(v).Convert(t).Interface(), nil
		case k.IsUnsigned():
			v := f.Uint64() >> (64 - k.Bits())
			return reflect.ValueOf(v).Convert(t).Interface(), nil
		default:
			return nil, fmt.Errorf("%s is not an integer type", t)
		}
	})
}

// RandomFloat produces random floating point numbers in [lo, hi).
func RandomFloat(f *gofakeit.Faker, lo, hi float64) Generator {
	return Func(func(t reflect.Type) (any, error) {
		if !BasicKind(t).IsFloat() {
			return nil, fmt.Errorf("%s is not a floating point type", t)
		}

		return reflect.ValueOf(f.Float64Range(lo, hi)).Convert(t).Interface(), nil
	})
}

// RandomString produces random letter strings of the given length.
func RandomString(f *gofakeit.Faker, length uint) Generator {
	return Func(func(reflect.Type) (any, error) {
		return f.LetterN(length), nil
	})
}

// RandomWord produces a random dictionary word.
func RandomWord(f *gofakeit.Faker) Generator {
	return Func(func(reflect.Type) (any, error) {
		return f.Word(), nil
	})
}

// RandomBool produces random booleans.
func RandomBool(f *gofakeit.Faker) Generator {
	return Func(func(reflect.Type) (any, error) {
		return f.Bool(), nil
	})
}

// RandomTime produces random instants in [start, end], truncated to the
// microsecond so values survive a database round trip.
func RandomTime(f *gofakeit.Faker, start, end time.Time) Generator {
	return Func(func(reflect.Type) (any, error) {
		return f.DateRange(start, end).Truncate(time.Microsecond), nil
	})
}

// RandomDuration produces random non-negative durations below limit.
func RandomDuration(f *gofakeit.Faker, limit time.Duration) Generator {
	return Func(func(reflect.Type) (any, error) {
		if limit <= 0 {
			return nil, fmt.Errorf("duration limit must be positive, got %s", limit)
		}

		return time.Duration(f.Int64() % int64(limit)).Abs(), nil
	})
}

// RandomBytes produces random byte slices of the given length.
func RandomBytes(f *gofakeit.Faker, length int) Generator {
	return Func(func(reflect.Type) (any, error) {
		b := make([]byte, length)
		for i := range b {
			b[i] = f.Uint8()
		}

		return b, nil
	})
}
