package construct

import (
	"reflect"

	"bean-forge/introspect"
)

// ConstructorStrategy selects the constructor used to instantiate t. It
// returns false when the type should be allocated without a constructor.
type ConstructorStrategy interface {
	Select(t reflect.Type, ctors []introspect.Constructor) (introspect.Constructor, bool)
}

// StrategyFunc adapts a function to ConstructorStrategy.
type StrategyFunc func(t reflect.Type, ctors []introspect.Constructor) (introspect.Constructor, bool)

func (f StrategyFunc) Select(t reflect.Type, ctors []introspect.Constructor) (introspect.Constructor, bool) {
	return f(t, ctors)
}

// Shortest picks the constructor with the fewest parameters. Ties go to the
// one registered first.
func Shortest() ConstructorStrategy {
	return StrategyFunc(func(_ reflect.Type, ctors []introspect.Constructor) (introspect.Constructor, bool) {
		if len(ctors) == 0 {
			return introspect.Constructor{}, false
		}

		best := ctors[0]
		for _, c := range ctors[1:] {
			if c.Arity() < best.Arity() || (c.Arity() == best.Arity() && c.Order < best.Order) {
				best = c
			}
		}

		return best, true
	})
}

// Nullary only accepts a constructor without parameters. Types that lack one
// are allocated directly.
func Nullary() ConstructorStrategy {
	return StrategyFunc(func(_ reflect.Type, ctors []introspect.Constructor) (introspect.Constructor, bool) {
		for _, c := range ctors {
			if c.Arity() == 0 {
				return c, true
			}
		}

		return introspect.Constructor{}, false
	})
}

// NullaryConstructible reports whether t can be instantiated without
// generated arguments: it has no constructors or one without parameters.
func NullaryConstructible(desc *introspect.TypeDescriptor) bool {
	if len(desc.Constructors) == 0 {
		return true
	}

	_, ok := Nullary().Select(desc.Type, desc.Constructors)

	return ok
}
