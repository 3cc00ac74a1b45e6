package analyze

import (
	"go/types"
	"path"
	"slices"
	"strings"
)

// TypeID uniquely identifies a type by its package path and name.
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

// Short returns "pkg.Type" using the last element of the package path.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return path.Base(t.PkgPath) + "." + t.Name
}

// Source tells where a property comes from.
type Source int

const (
	SourceField    Source = iota // exported or promoted struct field
	SourceAccessor               // getter and/or setter methods
)

// String returns "field" or "accessor".
func (s Source) String() string {
	if s == SourceAccessor {
		return "accessor"
	}

	return "field"
}

// PropertyInfo describes one bean property.
type PropertyInfo struct {
	Name      string     // first rune lower-cased, as at run time
	Type      types.Type // setter parameter or field type; getter result when read-only
	Declaring TypeID     // struct declaring the field or method
	Source    Source
	Readable  bool
	Writable  bool
	Field     string // Go field name, for fields
	Getter    string // getter method name, if any
	Setter    string // setter method name, if any
}

// ConstructorInfo describes a package-level New* function returning the
// bean (or a pointer to it), optionally with an error.
type ConstructorInfo struct {
	Name         string
	Params       []types.Type
	Pointer      bool
	ReturnsError bool
}

// BeanInfo describes an exported struct type.
type BeanInfo struct {
	ID           TypeID
	Named        *types.Named
	Properties   []PropertyInfo
	Constructors []ConstructorInfo
}

// Property returns the named property. Names differing only in case match
// when nothing matches exactly.
func (b *BeanInfo) Property(name string) (*PropertyInfo, bool) {
	for i := range b.Properties {
		if b.Properties[i].Name == name {
			return &b.Properties[i], true
		}
	}

	for i := range b.Properties {
		if strings.EqualFold(b.Properties[i].Name, name) {
			return &b.Properties[i], true
		}
	}

	return nil, false
}

// Writable returns the properties that have a setter or are fields.
func (b *BeanInfo) Writable() []PropertyInfo {
	var out []PropertyInfo

	for _, p := range b.Properties {
		if p.Writable {
			out = append(out, p)
		}
	}

	return out
}

// NullaryConstructible reports whether the bean can be created without
// arguments: it has no constructor or one without parameters.
func (b *BeanInfo) NullaryConstructible() bool {
	return len(b.Constructors) == 0 || slices.ContainsFunc(b.Constructors, func(c ConstructorInfo) bool {
		return len(c.Params) == 0
	})
}

// Graph holds the beans of the loaded packages.
type Graph struct {
	// Beans maps TypeID to BeanInfo for all exported struct types.
	Beans map[TypeID]*BeanInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Beans:    make(map[TypeID]*BeanInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetBean returns the BeanInfo for a given TypeID, or nil if not found.
func (g *Graph) GetBean(id TypeID) *BeanInfo {
	return g.Beans[id]
}

// Lookup finds a bean by "path/pkg.Type", "pkg.Type" or a bare "Type".
// Names matching more than one bean do not resolve.
func (g *Graph) Lookup(name string) (*BeanInfo, bool) {
	if b, ok := g.Beans[parseID(name)]; ok {
		return b, true
	}

	var found []*BeanInfo

	for id, b := range g.Beans {
		if id.Short() == name || id.Name == name {
			found = append(found, b)
		}
	}

	if len(found) != 1 {
		return nil, false
	}

	return found[0], true
}

// Sorted returns all beans ordered by package path and name.
func (g *Graph) Sorted() []*BeanInfo {
	out := make([]*BeanInfo, 0, len(g.Beans))
	for _, b := range g.Beans {
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b *BeanInfo) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string         // Import path
	Name  string         // Package name
	Types *types.Package // Type-checked package
	Beans []TypeID       // Beans defined in this package
}

func parseID(name string) TypeID {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return TypeID{Name: name}
	}

	return TypeID{PkgPath: name[:i], Name: name[i+1:]}
}

// TypeString formats t with package names relative to from, e.g.
// "*Customer" inside package store and "*store.Customer" elsewhere.
func TypeString(t types.Type, from *types.Package) string {
	return types.TypeString(t, func(p *types.Package) string {
		if from != nil && p.Path() == from.Path() {
			return ""
		}

		return p.Name()
	})
}
