package construct

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"

	"bean-forge/beanerr"
	"bean-forge/generator"
	"bean-forge/introspect"
)

// BeanGenerator creates shell instances: constructed, but with no property
// populated beyond what the constructor did.
type BeanGenerator struct {
	describer introspect.Describer
	args      generator.Generator
	strategy  ConstructorStrategy
	abstract  AbstractResolver
	logger    *log.Logger
}

// Option configures a BeanGenerator.
type Option func(*BeanGenerator)

// WithStrategy sets the constructor strategy. The default is Shortest.
func WithStrategy(s ConstructorStrategy) Option {
	return func(g *BeanGenerator) { g.strategy = s }
}

// WithAbstractResolver sets the resolver used for interface types. The
// default is NewStandIns().
func WithAbstractResolver(r AbstractResolver) Option {
	return func(g *BeanGenerator) { g.abstract = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *BeanGenerator) { g.logger = l }
}

// NewBeanGenerator creates a BeanGenerator. Constructor arguments and stand-in
// results are produced by args.
func NewBeanGenerator(describer introspect.Describer, args generator.Generator, opts ...Option) *BeanGenerator {
	g := &BeanGenerator{
		describer: describer,
		args:      args,
		strategy:  Shortest(),
		abstract:  NewStandIns(),
		logger:    log.Default().With("component", "construct"),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Strategy returns the constructor strategy in use.
func (g *BeanGenerator) Strategy() ConstructorStrategy { return g.strategy }

// Resolver returns the abstract resolver in use.
func (g *BeanGenerator) Resolver() AbstractResolver { return g.abstract }

// WithArguments returns a copy of g that generates arguments through args.
func (g *BeanGenerator) WithArguments(args generator.Generator) *BeanGenerator {
	c := *g
	c.args = args

	return &c
}

// Instantiate creates a shell of t. Struct types (and pointers to structs)
// yield a *T; interface types yield a value of the interface type.
func (g *BeanGenerator) Instantiate(t reflect.Type) (reflect.Value, error) {
	switch {
	case t.Kind() == reflect.Interface:
		return g.instantiateAbstract(t)
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return g.instantiateStruct(t.Elem())
	case t.Kind() == reflect.Struct:
		return g.instantiateStruct(t)
	default:
		return reflect.Value{}, beanerr.NewConstruction(t, "not a struct or interface type", nil)
	}
}

// Generate implements generator.Generator. Struct types produce a value of
// the struct itself, not a pointer.
func (g *BeanGenerator) Generate(t reflect.Type) (any, error) {
	v, err := g.Instantiate(t)
	if err != nil {
		return nil, err
	}

	if t.Kind() == reflect.Struct {
		return v.Elem().Interface(), nil
	}

	return v.Interface(), nil
}

func (g *BeanGenerator) instantiateStruct(t reflect.Type) (reflect.Value, error) {
	desc, err := g.describer.Describe(t)
	if err != nil {
		return reflect.Value{}, beanerr.NewConstruction(t, "cannot describe type", err)
	}

	ctor, ok := g.strategy.Select(t, desc.Constructors)
	if !ok {
		return reflect.New(t), nil
	}

	g.logger.Debug("using constructor", "type", t, "constructor", ctor)

	args := make([]reflect.Value, len(ctor.Params))
	for i, p := range ctor.Params {
		v, err := generator.Value(g.args, p)
		if err != nil {
			return reflect.Value{}, beanerr.NewConstruction(t,
				fmt.Sprintf("cannot generate argument %d (%s) of %s", i, p, ctor), err)
		}

		args[i] = v
	}

	v, err := call(ctor, args)
	if err != nil {
		return reflect.Value{}, beanerr.NewConstruction(t, fmt.Sprintf("constructor %s failed", ctor), err)
	}

	return v, nil
}

func call(ctor introspect.Constructor, args []reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return ctor.Call(args)
}

func (g *BeanGenerator) instantiateAbstract(iface reflect.Type) (reflect.Value, error) {
	res, err := g.abstract.Resolve(iface)
	if err != nil {
		return reflect.Value{}, err
	}

	g.logger.Debug("resolved interface", "interface", iface, "kind", res.Kind, "type", res.Type)

	var v reflect.Value

	switch res.Kind {
	case ResolveStandIn:
		v, err = g.standIn(res.Type)
	default:
		v, err = g.instantiateResolved(res.Type)
	}

	if err != nil {
		return reflect.Value{}, err
	}

	return asInterface(v, iface)
}

func (g *BeanGenerator) instantiateResolved(t reflect.Type) (reflect.Value, error) {
	switch {
	case t.Kind() == reflect.Struct:
		return g.instantiateStruct(t)
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return g.instantiateStruct(t.Elem())
	default:
		v, err := generator.Value(g.args, t)
		if err != nil {
			return reflect.Value{}, beanerr.NewConstruction(t, "cannot generate implementation", err)
		}

		return v, nil
	}
}

// asInterface stores v, or the struct it points to, in a value of type iface.
func asInterface(v reflect.Value, iface reflect.Type) (reflect.Value, error) {
	out := reflect.New(iface).Elem()

	switch {
	case v.Type().Implements(iface):
		out.Set(v)
	case v.Kind() == reflect.Pointer && v.Elem().Type().Implements(iface):
		out.Set(v.Elem())
	default:
		return reflect.Value{}, beanerr.NewConstruction(iface,
			fmt.Sprintf("resolved %s does not implement the interface", v.Type()), nil)
	}

	return out, nil
}

// standIn allocates the adapter and stubs every nil func field with a
// function returning generated values. Generation happens on each call; a
// result that cannot be generated is returned as its zero value.
func (g *BeanGenerator) standIn(adapter reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(adapter)
	s := ptr.Elem()

	for i := range adapter.NumField() {
		f := adapter.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Func || !s.Field(i).IsNil() {
			continue
		}

		s.Field(i).Set(reflect.MakeFunc(f.Type, g.stub(adapter, f)))
	}

	return ptr, nil
}

var errorType = reflect.TypeFor[error]()

func (g *BeanGenerator) stub(adapter reflect.Type, f reflect.StructField) func([]reflect.Value) []reflect.Value {
	return func([]reflect.Value) []reflect.Value {
		out := make([]reflect.Value, f.Type.NumOut())

		for i := range out {
			rt := f.Type.Out(i)
			if rt == errorType {
				out[i] = reflect.Zero(rt)
				continue
			}

			v, err := generator.Value(g.args, rt)
			if err != nil {
				g.logger.Debug("stand-in result left zero", "adapter", adapter, "field", f.Name, "err", err)

				v = reflect.Zero(rt)
			}

			out[i] = v
		}

		return out
	}
}
