package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"bean-forge/introspect"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

const constructorPrefix = "New"

var errorType = types.Universe.Lookup("error").Type()

// Analyzer loads Go packages and collects their beans.
type Analyzer struct {
	graph *Graph
	dir   string
}

// NewAnalyzer creates a new Analyzer working in the current directory.
func NewAnalyzer() *Analyzer {
	return &Analyzer{graph: NewGraph()}
}

// InDir makes patterns resolve relative to dir.
func (a *Analyzer) InDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// LoadPackages loads the specified packages and adds their beans to the graph.
// Patterns are standard Go package patterns (e.g., "./store", "bean-forge/warehouse").
func (a *Analyzer) LoadPackages(patterns ...string) (*Graph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current graph.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// processPackage extracts the beans of a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	info := &PackageInfo{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Types: pkg.Types,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		bean := &BeanInfo{
			ID:         idOf(named),
			Named:      named,
			Properties: mergeProperties(fieldProperties(named, st), accessorProperties(named)),
		}

		a.graph.Beans[bean.ID] = bean
		info.Beans = append(info.Beans, bean.ID)
	}

	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() || !strings.HasPrefix(name, constructorPrefix) {
			continue
		}

		if id, ctor, ok := constructorOf(fn); ok {
			if bean := a.graph.Beans[id]; bean != nil {
				bean.Constructors = append(bean.Constructors, ctor)
			}
		}
	}

	a.graph.Packages[pkg.PkgPath] = info
}

type fieldCandidate struct {
	prop   PropertyInfo
	depth  int
	report bool
}

// fieldProperties lists exported fields, including promoted ones, in the
// order of reflect.VisibleFields. A name declared at a shallower depth hides
// deeper ones. Embedded structs are walked, never reported.
func fieldProperties(named *types.Named, st *types.Struct) []PropertyInfo {
	var candidates []fieldCandidate

	collectFields(st, idOf(named), 0, map[*types.Struct]bool{st: true}, &candidates)

	shallowest := make(map[string]int)
	for _, c := range candidates {
		if d, ok := shallowest[c.prop.Field]; !ok || c.depth < d {
			shallowest[c.prop.Field] = c.depth
		}
	}

	var props []PropertyInfo

	for _, c := range candidates {
		if c.report && c.depth == shallowest[c.prop.Field] {
			props = append(props, c.prop)
		}
	}

	return props
}

func collectFields(st *types.Struct, owner TypeID, depth int, path map[*types.Struct]bool, out *[]fieldCandidate) {
	for i := range st.NumFields() {
		f := st.Field(i)
		c := fieldCandidate{
			prop: PropertyInfo{
				Name:      introspect.Uncapitalize(f.Name()),
				Type:      f.Type(),
				Declaring: owner,
				Source:    SourceField,
				Readable:  true,
				Writable:  true,
				Field:     f.Name(),
			},
			depth:  depth,
			report: f.Exported(),
		}

		inner, innerOwner, isStruct := embeddedStruct(f.Type())
		if f.Embedded() && isStruct {
			c.report = false
		}

		*out = append(*out, c)

		if f.Embedded() && isStruct && !path[inner] {
			path[inner] = true
			collectFields(inner, innerOwner, depth+1, path, out)
			delete(path, inner)
		}
	}
}

func embeddedStruct(t types.Type) (*types.Struct, TypeID, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := t.(*types.Named)
	if !ok {
		return nil, TypeID{}, false
	}

	st, ok := named.Underlying().(*types.Struct)

	return st, idOf(named), ok
}

type methodPair struct {
	getter, setter *types.Func
}

// accessorProperties pairs the exported methods of *T the same way the
// run-time reflector does: SetX(v) with GetX(), IsX() (bool) or X().
func accessorProperties(named *types.Named) []PropertyInfo {
	ms := types.NewMethodSet(types.NewPointer(named))
	pairs := make(map[string]*methodPair)

	var names []string

	pair := func(name string) *methodPair {
		p, ok := pairs[name]
		if !ok {
			p = &methodPair{}
			pairs[name] = p
			names = append(names, name)
		}

		return p
	}

	var methods []*types.Func

	for i := range ms.Len() {
		if fn, ok := ms.At(i).Obj().(*types.Func); ok && fn.Exported() {
			methods = append(methods, fn)
		}
	}

	for _, fn := range methods {
		if rest, ok := introspect.TrimAccessor(fn.Name(), introspect.SetPrefix); ok && isSetter(fn) {
			pair(introspect.Uncapitalize(rest)).setter = fn
		}
	}

	for _, fn := range methods {
		if !isGetter(fn) {
			continue
		}

		if rest, ok := introspect.TrimAccessor(fn.Name(), introspect.GetPrefix); ok {
			pair(introspect.Uncapitalize(rest)).getter = fn
			continue
		}

		if rest, ok := introspect.TrimAccessor(fn.Name(), introspect.IsPrefix); ok && isBool(result(fn)) {
			pair(introspect.Uncapitalize(rest)).getter = fn
			continue
		}

		if p, ok := pairs[introspect.Uncapitalize(fn.Name())]; ok && p.getter == nil {
			p.getter = fn
		}
	}

	slices.Sort(names)

	props := make([]PropertyInfo, 0, len(names))

	for _, name := range names {
		p := pairs[name]
		prop := PropertyInfo{Name: name, Source: SourceAccessor}

		if p.setter != nil {
			prop.Writable = true
			prop.Setter = p.setter.Name()
			prop.Type = signature(p.setter).Params().At(0).Type()
			prop.Declaring = receiverID(p.setter)
		}

		if p.getter != nil {
			prop.Readable = true
			prop.Getter = p.getter.Name()

			if prop.Type == nil {
				prop.Type = result(p.getter)
				prop.Declaring = receiverID(p.getter)
			}
		}

		props = append(props, prop)
	}

	return props
}

// mergeProperties keeps field order; an accessor pair replaces the field of
// the same name, other accessor properties follow.
func mergeProperties(fields, accessors []PropertyInfo) []PropertyInfo {
	position := make(map[string]int, len(fields))
	for i, p := range fields {
		position[p.Name] = i
	}

	for _, p := range accessors {
		if i, ok := position[p.Name]; ok {
			fields[i] = p
			continue
		}

		position[p.Name] = len(fields)
		fields = append(fields, p)
	}

	return fields
}

// constructorOf recognizes func New...(...) (T | *T [, error]).
func constructorOf(fn *types.Func) (TypeID, ConstructorInfo, bool) {
	sig := signature(fn)
	if sig.Recv() != nil || sig.Variadic() || sig.TypeParams().Len() > 0 {
		return TypeID{}, ConstructorInfo{}, false
	}

	res := sig.Results()
	if res.Len() == 0 || res.Len() > 2 || (res.Len() == 2 && !types.Identical(res.At(1).Type(), errorType)) {
		return TypeID{}, ConstructorInfo{}, false
	}

	t := res.At(0).Type()
	ptr, isPtr := t.(*types.Pointer)

	if isPtr {
		t = ptr.Elem()
	}

	named, ok := t.(*types.Named)
	if !ok {
		return TypeID{}, ConstructorInfo{}, false
	}

	ctor := ConstructorInfo{Name: fn.Name(), Pointer: isPtr, ReturnsError: res.Len() == 2}
	for i := range sig.Params().Len() {
		ctor.Params = append(ctor.Params, sig.Params().At(i).Type())
	}

	return idOf(named), ctor, true
}

func isSetter(fn *types.Func) bool {
	sig := signature(fn)
	if sig.Params().Len() != 1 || sig.Variadic() {
		return false
	}

	switch sig.Results().Len() {
	case 0:
		return true
	case 1:
		return types.Identical(sig.Results().At(0).Type(), errorType)
	default:
		return false
	}
}

func isGetter(fn *types.Func) bool {
	sig := signature(fn)

	return sig.Params().Len() == 0 && sig.Results().Len() == 1 && !types.Identical(result(fn), errorType)
}

func isBool(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Bool
}

func signature(fn *types.Func) *types.Signature {
	return fn.Type().(*types.Signature)
}

func result(fn *types.Func) types.Type {
	return signature(fn).Results().At(0).Type()
}

func receiverID(fn *types.Func) TypeID {
	t := signature(fn).Recv().Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	if named, ok := t.(*types.Named); ok {
		return idOf(named)
	}

	return TypeID{}
}

func idOf(named *types.Named) TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}
