package introspect

import (
	"fmt"
	"reflect"
)

// TypeID uniquely identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "bean-forge/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IDOf returns the TypeID of t, dereferencing pointers first.
func IDOf(t reflect.Type) TypeID {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// PropertyReference identifies a property by the type that declares it and
// its name. It is comparable and used as a map key.
type PropertyReference struct {
	Declaring reflect.Type
	Name      string
}

// Ref is shorthand for PropertyReference{Declaring: declaring, Name: name}.
func Ref(declaring reflect.Type, name string) PropertyReference {
	return PropertyReference{Declaring: declaring, Name: name}
}

// String returns "pkg.Type.name".
func (r PropertyReference) String() string {
	if r.Declaring == nil {
		return r.Name
	}

	return r.Declaring.String() + "." + r.Name
}

// Property describes one property of a bean.
type Property struct {
	// Name is the property name with its first rune lower-cased.
	Name string
	// Type is the type accepted by the setter (or the field type).
	Type reflect.Type
	// ReadType is the type returned by the getter. Usually equal to Type.
	ReadType reflect.Type
	// Declaring is the struct type that declares the field or accessor.
	Declaring reflect.Type
	// Readable is true if the property has a getter or is a field.
	Readable bool
	// Writable is true if the property has a setter or is a field.
	Writable bool

	get func(bean reflect.Value) (reflect.Value, error)
	set func(bean reflect.Value, value reflect.Value) error
}

// Reference returns the PropertyReference of this property.
func (p Property) Reference() PropertyReference {
	return PropertyReference{Declaring: p.Declaring, Name: p.Name}
}

// Get reads the property from bean, which must be a pointer to the struct.
func (p Property) Get(bean reflect.Value) (reflect.Value, error) {
	if !p.Readable || p.get == nil {
		return reflect.Value{}, fmt.Errorf("property %q is not readable", p.Name)
	}

	return p.get(bean)
}

// Set writes value into the property of bean, which must be a pointer to the
// struct. An invalid value stores the zero value of the property type.
func (p Property) Set(bean reflect.Value, value reflect.Value) error {
	if !p.Writable || p.set == nil {
		return fmt.Errorf("property %q is not writable", p.Name)
	}

	if !value.IsValid() {
		value = reflect.Zero(p.Type)
	}

	if !value.Type().AssignableTo(p.Type) {
		if !value.Type().ConvertibleTo(p.Type) {
			return fmt.Errorf("property %q: value of type %s is not assignable to %s",
				p.Name, value.Type(), p.Type)
		}

		value = value.Convert(p.Type)
	}

	return p.set(bean, value)
}

// Constructor is a registered function that produces a bean.
type Constructor struct {
	// Type is the struct type produced (pointer results are dereferenced).
	Type reflect.Type
	// Func is the constructor function.
	Func reflect.Value
	// Params lists the parameter types in declaration order.
	Params []reflect.Type
	// Order is the registration order, used to break ties.
	Order int

	returnsPointer bool
	returnsError   bool
}

// Arity returns the number of parameters.
func (c Constructor) Arity() int {
	return len(c.Params)
}

// String returns a signature-like description.
func (c Constructor) String() string {
	return c.Func.Type().String()
}

// Call invokes the constructor and returns a pointer to the produced struct.
func (c Constructor) Call(args []reflect.Value) (reflect.Value, error) {
	out := c.Func.Call(args)

	if c.returnsError {
		if err, _ := out[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}
	}

	result := out[0]
	if c.returnsPointer {
		if result.IsNil() {
			return reflect.Value{}, fmt.Errorf("constructor %s returned nil", c)
		}

		return result, nil
	}

	ptr := reflect.New(c.Type)
	ptr.Elem().Set(result)

	return ptr, nil
}

// TypeDescriptor lists the properties and constructors of a bean type.
type TypeDescriptor struct {
	Type         reflect.Type
	Properties   []Property
	Constructors []Constructor
}

// Property returns the property with the given name. Lookup is exact first,
// then case-insensitive so that exported field spellings ("FullName") also
// resolve.
func (d *TypeDescriptor) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}

	for _, p := range d.Properties {
		if equalFold(p.Name, name) {
			return p, true
		}
	}

	return Property{}, false
}

// Declared returns the properties declared directly on the described type,
// leaving out those promoted from embedded structs.
func (d *TypeDescriptor) Declared() []Property {
	var result []Property

	for _, p := range d.Properties {
		if p.Declaring == d.Type {
			result = append(result, p)
		}
	}

	return result
}

// Writable returns the writable properties in declaration order.
func (d *TypeDescriptor) Writable() []Property {
	var result []Property

	for _, p := range d.Properties {
		if p.Writable {
			result = append(result, p)
		}
	}

	return result
}

// Describer supplies TypeDescriptors. The default implementation is
// Reflector; schema-driven implementations can be substituted.
type Describer interface {
	Describe(t reflect.Type) (*TypeDescriptor, error)
}
