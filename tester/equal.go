package tester

import "reflect"

// equal is reflect.DeepEqual except that functions are equal when they are
// the same function, so generated function values compare equal to
// themselves after a round trip.
func equal(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}

		if a.IsNil() || b.IsNil() {
			return false
		}

		return equal(a.Elem(), b.Elem())
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}

		return equal(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := range a.NumField() {
			if !equal(a.Field(i), b.Field(i)) {
				return false
			}
		}

		return true
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}

		return equalElements(a, b)
	case reflect.Array:
		return equalElements(a, b)
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}

		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !equal(iter.Value(), other) {
				return false
			}
		}

		return true
	default:
		return a.Equal(b)
	}
}

func equalElements(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}

	for i := range a.Len() {
		if !equal(a.Index(i), b.Index(i)) {
			return false
		}
	}

	return true
}
