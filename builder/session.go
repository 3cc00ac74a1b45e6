package builder

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/jinzhu/copier"
	"github.com/samber/lo"

	"bean-forge/beanerr"
	"bean-forge/generator"
	"bean-forge/introspect"
	"bean-forge/save"
)

type state int

const (
	stateOpen state = iota
	stateCompleted
	stateFinalized
)

// pending is a property queued for generation. A nil gen resolves through
// the builder at finalization.
type pending struct {
	prop introspect.Property
	gen  generator.Generator
}

// Session builds one bean. Values set with WithValue are applied at once;
// queued properties are generated when the session is finalized by
// Construct, Build or Save. A Session is single use and not safe for
// concurrent use.
//
// Errors are sticky: the first failure is kept, later calls are no-ops and
// the error is returned on finalization.
type Session struct {
	scope scope
	b     *Builder

	typ  reflect.Type
	desc *introspect.TypeDescriptor
	bean reflect.Value // *typ

	touched map[string]struct{}
	queue   []pending

	saver save.Saver
	state state
	err   error
}

func newSession(s scope, t reflect.Type) *Session {
	sess := &Session{
		scope:   s,
		b:       s.b,
		typ:     structType(t),
		touched: make(map[string]struct{}),
	}

	if sess.typ == nil || sess.typ.Kind() != reflect.Struct {
		sess.err = beanerr.NewConstruction(t, "bean type must be a struct or a pointer to a struct", nil)
		return sess
	}

	desc, err := s.b.describer.Describe(sess.typ)
	if err != nil {
		sess.err = beanerr.NewConstruction(sess.typ, "cannot describe bean", err)
		return sess
	}

	bean, err := s.instantiate(sess.typ)
	if err != nil {
		sess.err = err
		return sess
	}

	sess.desc = desc
	sess.bean = bean

	return sess
}

// Type returns the struct type of the bean.
func (s *Session) Type() reflect.Type { return s.typ }

// Bean returns the in-progress *T, or nil when the session failed to start.
func (s *Session) Bean() any {
	if !s.bean.IsValid() {
		return nil
	}

	return s.bean.Interface()
}

// Err returns the first error recorded by the session.
func (s *Session) Err() error { return s.err }

// WithValue sets property name to v immediately. The property is no longer
// generated, even if it was queued before.
func (s *Session) WithValue(name string, v any) *Session {
	if !s.usable() {
		return s
	}

	p, err := s.writable(name)
	if err != nil {
		return s.fail(err)
	}

	val, err := generator.Convert(v, p.Type)
	if err == nil {
		err = p.Set(s.bean, val)
	}

	if err != nil {
		return s.fail(s.propertyError(p, err))
	}

	s.touch(p.Name)

	return s
}

// GenerateValue queues the named properties for generation through the
// builder's resolution chain.
func (s *Session) GenerateValue(names ...string) *Session {
	for _, name := range names {
		s.enqueue(name, nil)
	}

	return s
}

// GenerateValueWith queues property name for generation with g, bypassing
// every override and the registry.
func (s *Session) GenerateValueWith(name string, g generator.Generator) *Session {
	return s.enqueue(name, g)
}

// Load copies every readable and writable property of src, a T or *T, into
// the bean. Skipped properties and the named exclusions are left alone.
// Copied properties count as set.
func (s *Session) Load(src any, exclusions ...string) *Session {
	if !s.usable() {
		return s
	}

	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return s.fail(fmt.Errorf("builder: cannot load from nil %s", v.Type()))
		}
	} else if v.IsValid() {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}

	if !v.IsValid() || v.Type().Elem() != s.typ {
		return s.fail(fmt.Errorf("builder: cannot load %T into %s", src, s.typ))
	}

	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		if p, ok := s.desc.Property(name); ok {
			excluded[p.Name] = true
		}
	}

	for _, p := range s.desc.Properties {
		if !p.Readable || !p.Writable || excluded[p.Name] || s.b.isSkipped(s.typ, p) {
			continue
		}

		val, err := p.Get(v)
		if err == nil {
			err = p.Set(s.bean, val)
		}

		if err != nil {
			return s.fail(s.propertyError(p, err))
		}

		s.touch(p.Name)
	}

	return s
}

// Fill queues every writable property that was neither set, queued nor
// skipped. Calling it again without other changes queues nothing new.
func (s *Session) Fill() *Session {
	if !s.usable() {
		return s
	}

	for _, p := range s.desc.Writable() {
		if s.isTouched(p.Name) || s.isQueued(p.Name) {
			continue
		}

		if s.b.isSkipped(s.typ, p) {
			s.b.logger.Debug("property skipped", "bean", s.typ, "property", p.Name)
			continue
		}

		s.queue = append(s.queue, pending{prop: p})
	}

	s.state = stateCompleted

	return s
}

// Complete is an alias of Fill.
func (s *Session) Complete() *Session { return s.Fill() }

// Map replaces the bean with fn's result, which must be a T or *T. A nil
// result keeps the current bean.
func (s *Session) Map(fn func(bean any) any) *Session {
	if !s.usable() {
		return s
	}

	out := fn(s.bean.Interface())
	if out == nil {
		return s
	}

	v := reflect.ValueOf(out)

	switch {
	case v.Type() == s.bean.Type():
		if v.IsNil() {
			return s
		}

		s.bean = v
	case v.Type() == s.typ:
		s.bean.Elem().Set(v)
	default:
		return s.fail(fmt.Errorf("builder: map on %s returned %T", s.typ, out))
	}

	return s
}

// DoWith calls fn with the in-progress *T.
func (s *Session) DoWith(fn func(bean any)) *Session {
	if s.usable() {
		fn(s.bean.Interface())
	}

	return s
}

// WithSaver sets the saver used by Save for this session only.
func (s *Session) WithSaver(sv save.Saver) *Session {
	if s.usable() {
		s.saver = sv
	}

	return s
}

// Construct generates every queued property and returns the finished *T.
// It never calls the saver. The session cannot be used afterwards.
func (s *Session) Construct() (any, error) {
	bean, err := s.construct()
	if err != nil {
		return nil, err
	}

	return bean.Interface(), nil
}

// Build is an alias of Construct.
func (s *Session) Build() (any, error) { return s.Construct() }

// Save constructs the bean and hands it to the session saver, or to the
// builder's saver when the session has none. No value is returned on error.
func (s *Session) Save(ctx context.Context) (any, error) {
	bean, err := s.construct()
	if err != nil {
		return nil, err
	}

	sv := s.saver
	if sv == nil {
		sv = s.b.saver
	}

	saved, err := sv.Save(ctx, bean.Interface())
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// MapTo finalizes the session and starts a session of type t holding a copy
// of the same-named properties. Copied properties count as set on the new
// session.
func (s *Session) MapTo(t reflect.Type) *Session {
	bean, err := s.construct()
	if err != nil {
		return s.failed(t, err)
	}

	next := s.b.Start(t)
	if next.err != nil {
		return next
	}

	if err := copier.Copy(next.bean.Interface(), bean.Interface()); err != nil {
		return next.fail(fmt.Errorf("builder: cannot map %s to %s: %w", s.typ, next.typ, err))
	}

	shared := lo.Intersect(
		lo.Map(s.desc.Properties, func(p introspect.Property, _ int) string { return p.Name }),
		lo.Map(next.desc.Writable(), func(p introspect.Property, _ int) string { return p.Name }),
	)
	for _, name := range shared {
		next.touch(name)
	}

	return next
}

// failed returns a session of type t carrying err.
func (s *Session) failed(t reflect.Type, err error) *Session {
	return &Session{scope: s.scope, b: s.b, typ: structType(t), touched: map[string]struct{}{}, err: err}
}

func (s *Session) construct() (reflect.Value, error) {
	if s.state == stateFinalized {
		return reflect.Value{}, ErrSessionFinalized
	}

	s.state = stateFinalized

	if s.err != nil {
		return reflect.Value{}, s.err
	}

	for _, q := range s.queue {
		val, err := s.resolve(q)
		if err == nil {
			err = q.prop.Set(s.bean, val)
		}

		if err != nil {
			s.err = s.propertyError(q.prop, err)
			return reflect.Value{}, s.err
		}

		s.touched[q.prop.Name] = struct{}{}
	}

	s.b.logger.Debug("bean constructed", "bean", s.typ, "generated", len(s.queue))
	s.queue = nil

	return s.bean, nil
}

// resolve generates a value for q: one-off generator, property override,
// name override, then the type registry and kind fallback.
func (s *Session) resolve(q pending) (reflect.Value, error) {
	g, source := q.gen, "one-off"
	if g == nil {
		g, source = s.override(q.prop)
	}

	s.b.logger.Debug("resolving property", "bean", s.typ, "property", q.prop.Name, "source", source)

	if g != nil {
		return generator.Value(g, q.prop.Type)
	}

	return s.scope.value(q.prop.Type)
}

func (s *Session) override(p introspect.Property) (generator.Generator, string) {
	if g, ok := s.b.propertyGenerator(s.typ, p); ok {
		return g, "property"
	}

	if g, ok := s.b.nameGenerators[p.Name]; ok {
		return g, "name"
	}

	return nil, "type"
}

func (s *Session) enqueue(name string, g generator.Generator) *Session {
	if !s.usable() {
		return s
	}

	p, err := s.writable(name)
	if err != nil {
		return s.fail(err)
	}

	delete(s.touched, p.Name)

	if i := slices.IndexFunc(s.queue, func(q pending) bool { return q.prop.Name == p.Name }); i >= 0 {
		s.queue[i].gen = g
		return s
	}

	s.queue = append(s.queue, pending{prop: p, gen: g})

	return s
}

func (s *Session) writable(name string) (introspect.Property, error) {
	p, ok := s.desc.Property(introspect.Uncapitalize(name))
	if !ok {
		return p, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, s.typ, name)
	}

	if !p.Writable {
		return p, fmt.Errorf("%w: %s", ErrNotWritable, p.Reference())
	}

	return p, nil
}

func (s *Session) touch(name string) {
	s.touched[name] = struct{}{}
	s.queue = slices.DeleteFunc(s.queue, func(q pending) bool { return q.prop.Name == name })
}

func (s *Session) isTouched(name string) bool {
	_, ok := s.touched[name]
	return ok
}

func (s *Session) isQueued(name string) bool {
	return slices.ContainsFunc(s.queue, func(q pending) bool { return q.prop.Name == name })
}

// usable reports whether the session still accepts calls, recording
// ErrSessionFinalized when it does not.
func (s *Session) usable() bool {
	if s.err != nil {
		return false
	}

	if s.state == stateFinalized {
		s.err = ErrSessionFinalized
		return false
	}

	return true
}

func (s *Session) fail(err error) *Session {
	if s.err == nil {
		s.err = err
	}

	return s
}

// propertyError scopes err to property p of the bean.
func (s *Session) propertyError(p introspect.Property, err error) error {
	ref := introspect.Ref(s.typ, p.Name).String()

	var be *beanerr.Error
	if errors.As(err, &be) && be.Property == "" {
		return be.ForProperty(ref)
	}

	return fmt.Errorf("builder: property %s: %w", ref, err)
}
