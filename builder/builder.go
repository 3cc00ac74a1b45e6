package builder

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/charmbracelet/log"

	"bean-forge/construct"
	"bean-forge/generator"
	"bean-forge/introspect"
	"bean-forge/save"
)

var (
	// ErrSessionFinalized is returned when a finalized session is used again.
	ErrSessionFinalized = errors.New("builder: session already finalized")
	// ErrUnknownProperty is returned for a property name the bean lacks.
	ErrUnknownProperty = errors.New("builder: unknown property")
	// ErrNotWritable is returned when setting a property without setter.
	ErrNotWritable = errors.New("builder: property is not writable")
)

// Builder is the shared configuration sessions are started from. Register
// everything before generating; concurrent registration and generation need
// external synchronization.
type Builder struct {
	describer introspect.Describer
	registry  *generator.Registry
	beans     *construct.BeanGenerator
	strategy  construct.ConstructorStrategy
	abstract  construct.AbstractResolver
	saver     save.Saver
	logger    *log.Logger

	skipped            map[introspect.PropertyReference]struct{}
	propertyGenerators map[introspect.PropertyReference]generator.Generator
	nameGenerators     map[string]generator.Generator

	collectionSize int
	maxDepth       int
	random         bool
	seed           uint64
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		saver:              save.Unsupported{},
		strategy:           construct.Shortest(),
		abstract:           construct.NewStandIns(),
		skipped:            make(map[introspect.PropertyReference]struct{}),
		propertyGenerators: make(map[introspect.PropertyReference]generator.Generator),
		nameGenerators:     make(map[string]generator.Generator),
		collectionSize:     DefaultCollectionSize,
		maxDepth:           DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = log.Default().With("component", "builder")
	}

	if b.describer == nil {
		b.describer = introspect.NewReflector()
	}

	if b.registry == nil {
		b.registry = generator.NewRegistry()
		if b.random {
			generator.RegisterRandomDefaults(b.registry, generator.NewFaker(b.seed))
		} else {
			generator.RegisterDefaults(b.registry)
		}
	}

	b.beans = construct.NewBeanGenerator(b.describer, nil,
		construct.WithStrategy(b.strategy),
		construct.WithAbstractResolver(b.abstract),
		construct.WithLogger(b.logger))

	return b
}

// Registry returns the type registry.
func (b *Builder) Registry() *generator.Registry { return b.registry }

// Describer returns the introspection capability.
func (b *Builder) Describer() introspect.Describer { return b.describer }

// Saver returns the configured saver.
func (b *Builder) Saver() save.Saver { return b.saver }

// Logger returns the logger.
func (b *Builder) Logger() *log.Logger { return b.logger }

// Register binds g to values of type t.
func (b *Builder) Register(t reflect.Type, g generator.Generator) *Builder {
	b.registry.Register(t, g)
	return b
}

// RegisterValue binds a constant to values of type t.
func (b *Builder) RegisterValue(t reflect.Type, v any) *Builder {
	b.registry.RegisterValue(t, v)
	return b
}

// RegisterProperty binds g to one property of one bean type. t may be the
// bean being built or the embedded struct that declares the property.
func (b *Builder) RegisterProperty(t reflect.Type, name string, g generator.Generator) *Builder {
	b.propertyGenerators[introspect.Ref(structType(t), introspect.Uncapitalize(name))] = g
	return b
}

// RegisterPropertyValue binds a constant to one property of one bean type.
func (b *Builder) RegisterPropertyValue(t reflect.Type, name string, v any) *Builder {
	return b.RegisterProperty(t, name, generator.Constant(v))
}

// RegisterName binds g to every property called name, whatever its bean.
func (b *Builder) RegisterName(name string, g generator.Generator) *Builder {
	b.nameGenerators[introspect.Uncapitalize(name)] = g
	return b
}

// RegisterNameValue binds a constant to every property called name.
func (b *Builder) RegisterNameValue(name string, v any) *Builder {
	return b.RegisterName(name, generator.Constant(v))
}

// Skip excludes properties of t from Fill and Load. Skipped properties keep
// the value the constructor gave them.
func (b *Builder) Skip(t reflect.Type, names ...string) *Builder {
	for _, name := range names {
		b.skipped[introspect.Ref(structType(t), introspect.Uncapitalize(name))] = struct{}{}
	}

	return b
}

// RegisterConstructor registers fn as a constructor when the describer
// accepts constructors (introspect.Reflector does).
func (b *Builder) RegisterConstructor(fn any) error {
	r, ok := b.describer.(interface{ RegisterConstructor(fn any) error })
	if !ok {
		return fmt.Errorf("builder: describer %T does not accept constructors", b.describer)
	}

	return r.RegisterConstructor(fn)
}

// Clone returns a builder with copies of the skip set, the overrides and the
// registry. Later registrations on either builder are invisible to the
// other. The describer, strategies and saver are shared.
func (b *Builder) Clone() *Builder {
	c := *b
	c.registry = b.registry.Clone()
	c.skipped = maps.Clone(b.skipped)
	c.propertyGenerators = maps.Clone(b.propertyGenerators)
	c.nameGenerators = maps.Clone(b.nameGenerators)

	return &c
}

// Start opens a session for bean type t (a struct or pointer to struct).
func (b *Builder) Start(t reflect.Type) *Session {
	return b.root().start(t)
}

// Generate produces a value of type t: from the registry when it has an
// entry, otherwise through a filled session or the kind fallback. For a
// struct type the result is the struct value, ask for *T to get a pointer.
func (b *Builder) Generate(t reflect.Type) (any, error) {
	v, err := b.root().value(t)
	if err != nil {
		return nil, err
	}

	return v.Interface(), nil
}

// Save hands bean to the saver.
func (b *Builder) Save(ctx context.Context, bean any) (any, error) {
	return b.saver.Save(ctx, bean)
}

// Delete removes bean through the saver.
func (b *Builder) Delete(ctx context.Context, bean any) error {
	return b.saver.Delete(ctx, bean)
}

// DeleteAll removes every bean through the saver.
func (b *Builder) DeleteAll(ctx context.Context, beans ...any) error {
	return save.DeleteAll(ctx, b.saver, beans...)
}

func (b *Builder) root() scope {
	return scope{b: b}
}

func (b *Builder) isSkipped(bean reflect.Type, p introspect.Property) bool {
	if _, ok := b.skipped[introspect.Ref(bean, p.Name)]; ok {
		return true
	}

	_, ok := b.skipped[p.Reference()]

	return ok
}

func (b *Builder) propertyGenerator(bean reflect.Type, p introspect.Property) (generator.Generator, bool) {
	if g, ok := b.propertyGenerators[introspect.Ref(bean, p.Name)]; ok {
		return g, true
	}

	g, ok := b.propertyGenerators[p.Reference()]

	return g, ok
}

func structType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
