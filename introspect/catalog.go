package introspect

import (
	"reflect"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Catalog is an ordered set of named types known to the program. Go cannot
// enumerate the types of a package at run time, so packages register their
// beans here (usually from an init function or a test).
type Catalog struct {
	mu    sync.RWMutex
	types []reflect.Type
	index map[TypeID]reflect.Type
}

// NewCatalog creates a catalog holding the types of samples.
func NewCatalog(samples ...any) *Catalog {
	c := &Catalog{index: make(map[TypeID]reflect.Type)}
	c.Add(samples...)

	return c
}

// Add registers the types of samples. A sample may be a value, a pointer to
// a value, or a reflect.Type. Pointers are dereferenced, so (*T)(nil) works.
func (c *Catalog) Add(samples ...any) *Catalog {
	for _, s := range samples {
		t, ok := s.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(s)
		}

		c.AddType(t)
	}

	return c
}

// AddType registers t. Unnamed types and duplicates are ignored.
func (c *Catalog) AddType(t reflect.Type) {
	if t == nil {
		return
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	id := IDOf(t)
	if id.Name == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; ok {
		return
	}

	c.index[id] = t
	c.types = append(c.types, t)
}

// Types returns all registered types in registration order.
func (c *Catalog) Types() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]reflect.Type(nil), c.types...)
}

// InPackage returns the registered types whose package path is pkgPath.
func (c *Catalog) InPackage(pkgPath string) []reflect.Type {
	return lo.Filter(c.Types(), func(t reflect.Type, _ int) bool {
		return t.PkgPath() == pkgPath
	})
}

// Lookup finds a type by name. Accepted forms are the full "path/pkg.Type",
// a path suffix such as "pkg.Type", or the bare "Type" (first registered
// match wins).
func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	if name == "" {
		return nil, false
	}

	types := c.Types()

	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		return lo.Find(types, func(t reflect.Type) bool { return t.Name() == name })
	}

	pkg, typeName := name[:lastDot], name[lastDot+1:]
	if pkg == "" || typeName == "" {
		return nil, false
	}

	c.mu.RLock()
	t, ok := c.index[TypeID{PkgPath: pkg, Name: typeName}]
	c.mu.RUnlock()

	if ok {
		return t, true
	}

	return lo.Find(types, func(t reflect.Type) bool {
		return t.Name() == typeName && strings.HasSuffix(t.PkgPath(), "/"+pkg)
	})
}

// Implementations returns the registered types that implement iface, either
// as values or through their pointer. The result holds the implementing type
// itself (T or *T) in registration order.
func (c *Catalog) Implementations(iface reflect.Type) []reflect.Type {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil
	}

	var result []reflect.Type

	for _, t := range c.Types() {
		switch {
		case t.Kind() == reflect.Interface:
		case t.Implements(iface):
			result = append(result, t)
		case reflect.PointerTo(t).Implements(iface):
			result = append(result, reflect.PointerTo(t))
		}
	}

	return result
}
