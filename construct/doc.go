// Package construct creates shell instances of bean types.
//
// A BeanGenerator picks a registered constructor through a
// ConstructorStrategy, generates its arguments and calls it. Types without
// constructors are allocated with reflect.New. Interface types are handed to
// an AbstractResolver which names the concrete, stand-in or discovered type
// to instantiate instead.
package construct
