// Package beanerr defines the failure taxonomy shared by the generation and
// verification engines.
//
// Every error surfaced by the builder, the construction strategy, the
// registry or the tester maps to exactly one Class. Errors carry the
// offending type and, where one is involved, the property name so that a
// failure can be diagnosed from the message alone.
package beanerr
