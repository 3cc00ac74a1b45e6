package fluent

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"bean-forge/builder"
	"bean-forge/generator"
	"bean-forge/introspect"
)

// DefaultPrefix marks convention methods when no prefixes are configured.
const DefaultPrefix = "With"

type kind int

const (
	passThrough kind = iota
	setValue
	generate
	generateWith
)

// command is one entry of the dispatch table.
type command struct {
	kind     kind
	method   reflect.Method // passThrough only
	property string
}

var (
	sessionType   = reflect.TypeFor[*builder.Session]()
	generatorType = reflect.TypeFor[generator.Generator]()
	errorType     = reflect.TypeFor[error]()
)

type options struct {
	prefixes []string
}

// Option configures Bind and NewAdapter.
type Option func(*options)

// Prefixes replaces the convention prefixes. They are tried in order.
func Prefixes(prefixes ...string) Option {
	return func(o *options) { o.prefixes = prefixes }
}

func newOptions(opts []Option) options {
	o := options{prefixes: []string{DefaultPrefix}}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// PropertyName strips prefix from method and lower-cases the first rune of
// the rest: PropertyName("WithFullName", "With") is "fullName".
func PropertyName(method, prefix string) string {
	return introspect.Uncapitalize(strings.TrimPrefix(method, prefix))
}

// lookup resolves name to a Session method or, failing that, to a
// convention command for the property after the first matching prefix.
func lookup(name string, prefixes []string) (command, bool) {
	if m, ok := sessionType.MethodByName(name); ok {
		return command{kind: passThrough, method: m}, true
	}

	for _, prefix := range prefixes {
		if len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
			return command{kind: setValue, property: PropertyName(name, prefix)}, true
		}
	}

	return command{}, false
}

type planKey struct {
	typ      reflect.Type
	prefixes string
}

type field struct {
	index int
	cmd   command
}

// plan is the dispatch table of one command type.
type plan struct {
	fields []field
}

var (
	plansMu sync.Mutex
	plans   = make(map[planKey]*plan)
)

func planFor(t reflect.Type, prefixes []string) (*plan, error) {
	key := planKey{typ: t, prefixes: strings.Join(prefixes, "\x00")}

	plansMu.Lock()
	defer plansMu.Unlock()

	if p, ok := plans[key]; ok {
		return p, nil
	}

	p, err := newPlan(t, prefixes)
	if err != nil {
		return nil, err
	}

	plans[key] = p

	return p, nil
}

func newPlan(t reflect.Type, prefixes []string) (*plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fluent: command type %s is not a struct", t)
	}

	self := reflect.PointerTo(t)
	p := &plan{}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if f.Type.Kind() != reflect.Func {
			return nil, fmt.Errorf("fluent: %s.%s is not a func field", t, f.Name)
		}

		cmd, ok := lookup(f.Name, prefixes)
		if !ok {
			return nil, fmt.Errorf("fluent: %s.%s matches no session method and no prefix in %q", t, f.Name, prefixes)
		}

		var err error
		if cmd.kind == passThrough {
			err = checkPassThrough(f.Type, cmd.method.Type, self)
		} else {
			cmd.kind, err = conventionKind(f.Type, self)
		}

		if err != nil {
			return nil, fmt.Errorf("fluent: %s.%s: %w", t, f.Name, err)
		}

		p.fields = append(p.fields, field{index: i, cmd: cmd})
	}

	return p, nil
}

func conventionKind(ft, self reflect.Type) (kind, error) {
	if ft.NumOut() > 1 || (ft.NumOut() == 1 && ft.Out(0) != self) {
		return 0, fmt.Errorf("must return nothing or %s", self)
	}

	switch {
	case ft.IsVariadic() || ft.NumIn() > 1:
		return 0, errors.New("takes at most one argument")
	case ft.NumIn() == 0:
		return generate, nil
	case ft.In(0).Implements(generatorType):
		return generateWith, nil
	default:
		return setValue, nil
	}
}

// checkPassThrough verifies that field type ft can forward to the Session
// method of type mt (receiver included).
func checkPassThrough(ft, mt, self reflect.Type) error {
	spread := mt.IsVariadic() && !ft.IsVariadic()

	switch {
	case ft.IsVariadic() && !mt.IsVariadic():
		return fmt.Errorf("is variadic, %s is not", mt)
	case spread && ft.NumIn() < mt.NumIn()-2:
		return fmt.Errorf("has %d parameters, %s needs at least %d", ft.NumIn(), mt, mt.NumIn()-2)
	case !spread && ft.NumIn() != mt.NumIn()-1:
		return fmt.Errorf("has %d parameters, %s has %d", ft.NumIn(), mt, mt.NumIn()-1)
	}

	for i := range ft.NumIn() {
		pt := paramType(mt, i, spread)
		if !ft.In(i).AssignableTo(pt) && !ft.In(i).ConvertibleTo(pt) {
			return fmt.Errorf("parameter %d: %s does not fit %s", i, ft.In(i), pt)
		}
	}

	if ft.NumOut() != mt.NumOut() {
		return fmt.Errorf("has %d results, %s has %d", ft.NumOut(), mt, mt.NumOut())
	}

	for i := range ft.NumOut() {
		mo, fo := mt.Out(i), ft.Out(i)

		switch {
		case mo == sessionType:
			if fo != self {
				return fmt.Errorf("result %d must be %s", i, self)
			}
		case mo.Kind() == reflect.Interface && mo.NumMethod() == 0:
		case !mo.AssignableTo(fo):
			return fmt.Errorf("result %d: %s does not fit %s", i, mo, fo)
		}
	}

	return nil
}

// paramType returns the type of the method parameter receiving argument i.
// With spread, arguments past the fixed ones fill the variadic slice.
func paramType(mt reflect.Type, i int, spread bool) reflect.Type {
	j := i + 1
	last := mt.NumIn() - 1

	if mt.IsVariadic() && j >= last {
		if spread {
			return mt.In(last).Elem()
		}

		return mt.In(last)
	}

	return mt.In(j)
}

func argument(v reflect.Value, t reflect.Type) reflect.Value {
	switch {
	case v.Type() == t:
		return v
	case v.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(v)

		return out
	default:
		return v.Convert(t)
	}
}

// Bind returns a C whose func fields dispatch onto s. C must be a struct of
// func fields; see the package documentation for the conventions. The
// dispatch table of each C is computed once.
func Bind[C any](s *builder.Session, opts ...Option) (*C, error) {
	o := newOptions(opts)

	p, err := planFor(reflect.TypeFor[C](), o.prefixes)
	if err != nil {
		return nil, err
	}

	c := new(C)
	b := &binding{target: s, self: reflect.ValueOf(c)}
	cv := b.self.Elem()

	for _, f := range p.fields {
		fv := cv.Field(f.index)
		fv.Set(reflect.MakeFunc(fv.Type(), b.dispatch(fv.Type(), f.cmd)))
	}

	return c, nil
}

// binding connects the fields of one command value to a session. Methods
// returning another session, such as MapTo, move the binding to it.
type binding struct {
	target *builder.Session
	self   reflect.Value
}

func (b *binding) dispatch(ft reflect.Type, cmd command) func([]reflect.Value) []reflect.Value {
	switch cmd.kind {
	case passThrough:
		spread := cmd.method.Type.IsVariadic() && !ft.IsVariadic()

		return func(args []reflect.Value) []reflect.Value {
			in := make([]reflect.Value, len(args))
			for i, arg := range args {
				in[i] = argument(arg, paramType(cmd.method.Type, i, spread))
			}

			m := reflect.ValueOf(b.target).MethodByName(cmd.method.Name)
			if ft.IsVariadic() {
				return b.results(ft, m.CallSlice(in))
			}

			return b.results(ft, m.Call(in))
		}
	case generate:
		return func([]reflect.Value) []reflect.Value {
			b.target.GenerateValue(cmd.property)
			return b.chain(ft)
		}
	case generateWith:
		return func(args []reflect.Value) []reflect.Value {
			g, _ := args[0].Interface().(generator.Generator)
			b.target.GenerateValueWith(cmd.property, g)

			return b.chain(ft)
		}
	default:
		return func(args []reflect.Value) []reflect.Value {
			b.target.WithValue(cmd.property, args[0].Interface())
			return b.chain(ft)
		}
	}
}

func (b *binding) chain(ft reflect.Type) []reflect.Value {
	if ft.NumOut() == 0 {
		return nil
	}

	return []reflect.Value{b.self}
}

// results converts Session results to the declared field results. A result
// that does not fit its declared type is reported through the error result
// when the field has one, and panics otherwise.
func (b *binding) results(ft reflect.Type, out []reflect.Value) []reflect.Value {
	res := make([]reflect.Value, len(out))

	var failure error

	for i, v := range out {
		fo := ft.Out(i)

		if v.Type() == sessionType {
			b.target = v.Interface().(*builder.Session)
			res[i] = b.self

			continue
		}

		if v.Kind() == reflect.Interface {
			if v.IsNil() {
				res[i] = reflect.Zero(fo)
				continue
			}

			v = v.Elem()
		}

		r, err := generator.Convert(v, fo)
		if err != nil {
			failure = fmt.Errorf("fluent: result %d: %w", i, err)
			r = reflect.Zero(fo)
		}

		res[i] = r
	}

	if failure != nil {
		last := len(res) - 1
		if last < 0 || ft.Out(last) != errorType {
			panic(failure)
		}

		if res[last].IsNil() {
			res[last] = reflect.ValueOf(&failure).Elem()
		}
	}

	return res
}
