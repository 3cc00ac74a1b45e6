// Package generator produces values for types.
//
// A Generator turns a requested reflect.Type into a value. Generators are
// collected in a Registry that resolves a type by exact match first, then by
// the first registered type the requested one is assignable to, then by an
// optional fallback. RegisterDefaults and RegisterRandomDefaults populate a
// registry with constant or random values for the predeclared types.
package generator
