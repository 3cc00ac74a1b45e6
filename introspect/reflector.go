package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var errorType = reflect.TypeFor[error]()

// Reflector is the reflection based Describer. Properties come from exported
// fields and accessor method pairs; constructors must be registered
// explicitly since Go has none of its own.
type Reflector struct {
	mu           sync.Mutex
	constructors map[reflect.Type][]Constructor
	registered   int
	cache        map[reflect.Type]*TypeDescriptor
}

// NewReflector creates a Reflector without registered constructors.
func NewReflector() *Reflector {
	return &Reflector{
		constructors: make(map[reflect.Type][]Constructor),
		cache:        make(map[reflect.Type]*TypeDescriptor),
	}
}

// RegisterConstructor registers fn as a constructor of the struct type it
// returns. Accepted shapes are func(...) T, func(...) *T, func(...) (T, error)
// and func(...) (*T, error) where T is a struct.
func (r *Reflector) RegisterConstructor(fn any) error {
	c, err := newConstructor(reflect.ValueOf(fn))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c.Order = r.registered
	r.registered++
	r.constructors[c.Type] = append(r.constructors[c.Type], c)
	delete(r.cache, c.Type)

	return nil
}

// MustRegisterConstructor is like RegisterConstructor but panics on error.
func (r *Reflector) MustRegisterConstructor(fn any) *Reflector {
	if err := r.RegisterConstructor(fn); err != nil {
		panic(err)
	}

	return r
}

// Clone returns a Reflector with the same constructors and an empty cache.
func (r *Reflector) Clone() *Reflector {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := NewReflector()
	c.registered = r.registered

	for t, ctors := range r.constructors {
		c.constructors[t] = slices.Clone(ctors)
	}

	return c
}

func newConstructor(fn reflect.Value) (Constructor, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return Constructor{}, errors.New("constructor must be a non-nil function")
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return Constructor{}, fmt.Errorf("constructor %s must not be variadic", ft)
	}

	c := Constructor{Func: fn}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return Constructor{}, fmt.Errorf("constructor %s: second result must be error", ft)
		}

		c.returnsError = true
	default:
		return Constructor{}, fmt.Errorf("constructor %s must return T, *T, (T, error) or (*T, error)", ft)
	}

	out := ft.Out(0)
	if out.Kind() == reflect.Pointer {
		c.returnsPointer = true
		out = out.Elem()
	}

	if out.Kind() != reflect.Struct {
		return Constructor{}, fmt.Errorf("constructor %s must produce a struct, got %s", ft, out)
	}

	c.Type = out

	for i := range ft.NumIn() {
		c.Params = append(c.Params, ft.In(i))
	}

	return c, nil
}

// Describe returns the descriptor of t, which must be a struct or a pointer
// to a struct.
func (r *Reflector) Describe(t reflect.Type) (*TypeDescriptor, error) {
	if t == nil {
		return nil, errors.New("cannot describe nil type")
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", t, t.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[t]; ok {
		return cached, nil
	}

	desc := &TypeDescriptor{
		Type:         t,
		Properties:   describeProperties(t),
		Constructors: slices.Clone(r.constructors[t]),
	}
	r.cache[t] = desc

	return desc, nil
}

// describeProperties merges field and accessor properties. Fields keep their
// declaration order; an accessor pair replaces a same-named field, other
// accessor properties follow sorted by name.
func describeProperties(t reflect.Type) []Property {
	props := fieldProperties(t)
	position := make(map[string]int, len(props))

	for i, p := range props {
		position[p.Name] = i
	}

	for _, p := range accessorProperties(t) {
		if i, ok := position[p.Name]; ok {
			props[i] = p
			continue
		}

		position[p.Name] = len(props)
		props = append(props, p)
	}

	return props
}

func fieldProperties(t reflect.Type) []Property {
	fields := lo.Filter(reflect.VisibleFields(t), func(f reflect.StructField, _ int) bool {
		return f.IsExported() && !(f.Anonymous && isStructLike(f.Type))
	})

	return lo.Map(fields, func(f reflect.StructField, _ int) Property {
		index := f.Index

		return Property{
			Name:      Uncapitalize(f.Name),
			Type:      f.Type,
			ReadType:  f.Type,
			Declaring: fieldOwner(t, index),
			Readable:  true,
			Writable:  true,
			get: func(bean reflect.Value) (reflect.Value, error) {
				v, err := bean.Elem().FieldByIndexErr(index)
				if err != nil {
					// Nil embedded pointer: the promoted field reads as zero.
					return reflect.Zero(f.Type), nil //nolint:nilerr
				}

				return v, nil
			},
			set: func(bean reflect.Value, value reflect.Value) error {
				field, err := fieldForWrite(bean.Elem(), index)
				if err != nil {
					return err
				}

				field.Set(value)

				return nil
			},
		}
	})
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct
}

// fieldOwner returns the struct type that holds the field at index.
func fieldOwner(t reflect.Type, index []int) reflect.Type {
	owner := t

	for _, i := range index[:len(index)-1] {
		owner = owner.Field(i).Type
		if owner.Kind() == reflect.Pointer {
			owner = owner.Elem()
		}
	}

	return owner
}

// fieldForWrite walks index allocating nil embedded pointers on the way.
func fieldForWrite(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate embedded %s", v.Type())
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("field of type %s is not settable", v.Type())
	}

	return v, nil
}

type accessorPair struct {
	getter, setter *reflect.Method
}

func accessorProperties(t reflect.Type) []Property {
	pt := reflect.PointerTo(t)
	pairs := make(map[string]*accessorPair)

	var names []string

	pair := func(name string) *accessorPair {
		p, ok := pairs[name]
		if !ok {
			p = &accessorPair{}
			pairs[name] = p
			names = append(names, name)
		}

		return p
	}

	// Plain getters ("Name()") only count once a setter is known, so collect
	// setters first.
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if rest, ok := TrimAccessor(m.Name, SetPrefix); ok && isSetter(m) {
			pair(Uncapitalize(rest)).setter = &m
		}
	}

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if !isGetter(m) {
			continue
		}

		if rest, ok := TrimAccessor(m.Name, GetPrefix); ok {
			pair(Uncapitalize(rest)).getter = &m
			continue
		}

		if rest, ok := TrimAccessor(m.Name, IsPrefix); ok && m.Type.Out(0).Kind() == reflect.Bool {
			pair(Uncapitalize(rest)).getter = &m
			continue
		}

		if p, ok := pairs[Uncapitalize(m.Name)]; ok && p.getter == nil {
			p.getter = &m
		}
	}

	slices.Sort(names)

	var props []Property

	for _, name := range names {
		p := pairs[name]
		props = append(props, accessorProperty(t, name, p))
	}

	return props
}

func accessorProperty(t reflect.Type, name string, p *accessorPair) Property {
	prop := Property{Name: name}

	if p.setter != nil {
		setter := *p.setter
		prop.Writable = true
		prop.Type = setter.Type.In(1)
		prop.Declaring = methodOwner(t, setter.Name)
		prop.set = func(bean reflect.Value, value reflect.Value) error {
			out, err := callSafely(setter, bean, value)
			if err != nil {
				return err
			}

			if len(out) == 1 {
				if err, _ := out[0].Interface().(error); err != nil {
					return err
				}
			}

			return nil
		}
	}

	if p.getter != nil {
		getter := *p.getter
		prop.Readable = true
		prop.ReadType = getter.Type.Out(0)

		if prop.Type == nil {
			prop.Type = prop.ReadType
			prop.Declaring = methodOwner(t, getter.Name)
		}

		prop.get = func(bean reflect.Value) (reflect.Value, error) {
			out, err := callSafely(getter, bean)
			if err != nil {
				return reflect.Value{}, err
			}

			return out[0], nil
		}
	}

	return prop
}

func isGetter(m reflect.Method) bool {
	return m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) != errorType
}

func isSetter(m reflect.Method) bool {
	switch m.Type.NumOut() {
	case 0:
	case 1:
		if m.Type.Out(0) != errorType {
			return false
		}
	default:
		return false
	}

	return m.Type.NumIn() == 2
}

// methodOwner returns the struct that declares the method: the deepest
// embedded struct providing it, or t itself. A method declared on t that
// shadows an embedded one of the same name is attributed to the embedded
// struct, since reflect does not tell them apart.
func methodOwner(t reflect.Type, name string) reflect.Type {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		et := f.Type
		if et.Kind() == reflect.Pointer {
			et = et.Elem()
		}

		if et.Kind() != reflect.Struct {
			continue
		}

		if _, ok := reflect.PointerTo(et).MethodByName(name); ok {
			return methodOwner(et, name)
		}
	}

	return t
}

func callSafely(m reflect.Method, args ...reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", m.Name, r)
		}
	}()

	return m.Func.Call(args), nil
}
