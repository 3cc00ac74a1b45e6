// Package builder generates fully populated beans.
//
// A Builder holds the long-lived configuration: the type registry, property
// and name overrides, skipped properties, the construction strategy and the
// saver. It is configured once and then only read. Each bean is produced by
// a Session, a single-use state machine:
//
//	p, err := builder.Construct[Person](builder.Start[Person](b).
//		WithValue("name", "Jan").
//		Fill())
//
// Values are resolved in this order: a generator given to GenerateValueWith,
// a property override, a name override, the type registry, then the
// builder's own fallback for pointers, collections, functions, interfaces and
// nested structs.
package builder
