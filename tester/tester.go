package tester

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/mitchellh/copystructure"

	"bean-forge/beanerr"
	"bean-forge/builder"
	"bean-forge/construct"
	"bean-forge/generator"
	"bean-forge/introspect"
)

// CollectionSize is the number of elements the default builder generates
// for collections. Shared state only shows with elements to share.
const CollectionSize = 2

// ErrUnknownProperty is returned by VerifyProperty for a name the bean lacks.
var ErrUnknownProperty = errors.New("tester: unknown property")

var dump = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Tester verifies beans. Configure it before use; it is not safe for
// concurrent configuration.
type Tester struct {
	builder  *builder.Builder
	logger   *log.Logger
	inherit  bool
	excluded map[introspect.PropertyReference]struct{}
}

// Option configures a Tester.
type Option func(*Tester)

// WithBuilder sets the builder that creates shells and property values. The
// default uses random values and fills collections with CollectionSize
// elements.
func WithBuilder(b *builder.Builder) Option {
	return func(t *Tester) { t.builder = b }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Tester) { t.logger = l }
}

// New creates a Tester that verifies inherited properties too.
func New(opts ...Option) *Tester {
	t := &Tester{
		inherit:  true,
		excluded: make(map[introspect.PropertyReference]struct{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = log.Default().With("component", "tester")
	}

	if t.builder == nil {
		t.builder = builder.New(
			builder.WithRandomValues(0),
			builder.WithCollectionSize(CollectionSize),
			builder.WithLogger(t.logger),
		)
	}

	return t
}

// Builder returns the builder used for shells and values.
func (t *Tester) Builder() *builder.Builder { return t.builder }

// Inherit sets whether properties declared by embedded structs are verified.
func (t *Tester) Inherit(inherit bool) *Tester {
	t.inherit = inherit
	return t
}

// Exclude skips the named properties of typ. typ may also be the embedded
// struct declaring them.
func (t *Tester) Exclude(typ reflect.Type, names ...string) *Tester {
	for _, name := range names {
		t.excluded[introspect.Ref(structType(typ), introspect.Uncapitalize(name))] = struct{}{}
	}

	return t
}

// VerifyBean verifies every eligible property of typ and returns all
// failures joined.
func (t *Tester) VerifyBean(typ reflect.Type) error {
	desc, err := t.describe(typ)
	if err != nil {
		return err
	}

	var errs []error

	for _, p := range desc.Properties {
		if err := t.verify(desc, p); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// VerifyProperty verifies one property of typ. Excluded, read-only,
// write-only and (with Inherit(false)) inherited properties pass without
// being checked.
func (t *Tester) VerifyProperty(typ reflect.Type, name string) error {
	desc, err := t.describe(typ)
	if err != nil {
		return err
	}

	p, ok := desc.Property(introspect.Uncapitalize(name))
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, desc.Type, name)
	}

	return t.verify(desc, p)
}

// VerifyBeans verifies every struct type of scope that can be created
// without constructor arguments. It returns how many beans were verified
// and all failures joined. An empty scope verifies nothing and succeeds.
func (t *Tester) VerifyBeans(scope Scope) (int, error) {
	var (
		count int
		errs  []error
	)

	for _, typ := range scope.Types() {
		if typ.Kind() != reflect.Struct {
			continue
		}

		desc, err := t.describe(typ)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if !construct.NullaryConstructible(desc) {
			t.logger.Debug("bean needs constructor arguments, not verified", "type", typ)
			continue
		}

		count++

		if err := t.VerifyBean(typ); err != nil {
			errs = append(errs, err)
		}
	}

	t.logger.Info("beans verified", "count", count, "failures", len(errs))

	return count, errors.Join(errs...)
}

func (t *Tester) describe(typ reflect.Type) (*introspect.TypeDescriptor, error) {
	desc, err := t.builder.Describer().Describe(structType(typ))
	if err != nil {
		return nil, beanerr.NewConstruction(typ, "cannot describe bean", err)
	}

	return desc, nil
}

func (t *Tester) skipped(desc *introspect.TypeDescriptor, p introspect.Property) bool {
	if !p.Readable || !p.Writable {
		return true
	}

	if !t.inherit && p.Declaring != desc.Type {
		return true
	}

	if _, ok := t.excluded[introspect.Ref(desc.Type, p.Name)]; ok {
		return true
	}

	_, ok := t.excluded[p.Reference()]

	return ok
}

func (t *Tester) verify(desc *introspect.TypeDescriptor, p introspect.Property) error {
	if t.skipped(desc, p) {
		t.logger.Debug("property not verified", "type", desc.Type, "property", p.Name)
		return nil
	}

	shell, err := t.builder.Start(desc.Type).Construct()
	if err != nil {
		return err
	}

	bean := reflect.ValueOf(shell)

	first, err := t.generate(desc.Type, p)
	if err != nil {
		return err
	}

	second, err := t.generate(desc.Type, p)
	if err != nil {
		return err
	}

	got, err := roundTrip(bean, p, first)
	if err != nil {
		return accessorFailure(desc.Type, p, err)
	}

	if !equal(first, got) {
		return beanerr.NewInconsistentAccessor(desc.Type, p.Name,
			dump.Sprintf("set %#v but got %#v", first.Interface(), got.Interface()))
	}

	if !isReference(got) {
		return nil
	}

	before, err := copystructure.Copy(got.Interface())
	if err != nil {
		return accessorFailure(desc.Type, p, err)
	}

	again, err := roundTrip(bean, p, second)
	if err != nil {
		return accessorFailure(desc.Type, p, err)
	}

	after, err := copystructure.Copy(got.Interface())
	if err != nil {
		return accessorFailure(desc.Type, p, err)
	}

	if !equal(reflect.ValueOf(before), reflect.ValueOf(after)) {
		return beanerr.NewInconsistentAccessor(desc.Type, p.Name,
			dump.Sprintf("setting %#v changed the earlier read %#v to %#v", second.Interface(), before, after))
	}

	if !equal(second, again) {
		return beanerr.NewInconsistentAccessor(desc.Type, p.Name,
			dump.Sprintf("set %#v but got %#v", second.Interface(), again.Interface()))
	}

	return nil
}

func (t *Tester) generate(bean reflect.Type, p introspect.Property) (reflect.Value, error) {
	v, err := t.builder.Generate(p.Type)
	if err == nil {
		var out reflect.Value
		if out, err = generator.Convert(v, p.Type); err == nil {
			return out, nil
		}
	}

	return reflect.Value{}, beanerr.NewGenerationUnsupported(bean, p.Name, err)
}

func roundTrip(bean reflect.Value, p introspect.Property, v reflect.Value) (reflect.Value, error) {
	if err := p.Set(bean, v); err != nil {
		return reflect.Value{}, err
	}

	got, err := p.Get(bean)
	if err != nil {
		return reflect.Value{}, err
	}

	// Field reads are live views of the bean; keep what was read.
	out := reflect.New(got.Type()).Elem()
	out.Set(got)

	return out, nil
}

func accessorFailure(bean reflect.Type, p introspect.Property, err error) error {
	return beanerr.Wrap(beanerr.InconsistentAccessor, bean, "accessor failed", err).ForProperty(p.Name)
}

// isReference reports whether v may share state with the bean after being
// read: a non-nil pointer, slice or map.
func isReference(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		return !v.IsNil()
	default:
		return false
	}
}

func structType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}
