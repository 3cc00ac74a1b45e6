// Package introspect provides the type introspection capability used by the
// builder and the tester.
//
// A bean is a struct type whose properties are exported fields and/or
// accessor method pairs (X or GetX or IsX, plus SetX). The Describer
// interface turns a reflect.Type into a TypeDescriptor listing those
// properties together with the registered constructors of the type.
//
// Key types:
//   - PropertyReference: declaring type + property name, used as a map key
//   - Property: one readable and/or writable property with Get/Set
//   - Constructor: a registered function producing the bean
//   - Catalog: ordered set of known bean types, looked up by package or name
package introspect
