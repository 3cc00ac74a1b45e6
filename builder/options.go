package builder

import (
	"github.com/charmbracelet/log"

	"bean-forge/construct"
	"bean-forge/generator"
	"bean-forge/introspect"
	"bean-forge/save"
)

const (
	// DefaultCollectionSize is the number of elements generated for slices,
	// maps and channel buffers. Collections are empty but non-nil by default.
	DefaultCollectionSize = 0
	// DefaultMaxDepth bounds nested struct generation.
	DefaultMaxDepth = 3
)

// Option configures a Builder.
type Option func(*Builder)

// WithSaver sets the saver. The default, save.Unsupported, rejects saves.
func WithSaver(s save.Saver) Option {
	return func(b *Builder) { b.saver = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRegistry replaces the type registry. The default is a registry
// populated by generator.RegisterDefaults.
func WithRegistry(r *generator.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithRandomValues populates the registry with random generators seeded with
// seed. Seed 0 picks a random seed.
func WithRandomValues(seed uint64) Option {
	return func(b *Builder) {
		b.random = true
		b.seed = seed
	}
}

// WithConstructorStrategy sets how constructors are chosen.
func WithConstructorStrategy(s construct.ConstructorStrategy) Option {
	return func(b *Builder) { b.strategy = s }
}

// WithAbstractResolver sets how interface types are instantiated.
func WithAbstractResolver(r construct.AbstractResolver) Option {
	return func(b *Builder) { b.abstract = r }
}

// WithDescriber sets the introspection capability. The default is a new
// introspect.Reflector.
func WithDescriber(d introspect.Describer) Option {
	return func(b *Builder) { b.describer = d }
}

// WithCollectionSize sets the number of elements generated for slices and
// maps.
func WithCollectionSize(n int) Option {
	return func(b *Builder) { b.collectionSize = max(n, 0) }
}

// WithMaxDepth sets how deep nested structs are generated. Deeper struct
// values keep their zero value.
func WithMaxDepth(n int) Option {
	return func(b *Builder) { b.maxDepth = max(n, 0) }
}
