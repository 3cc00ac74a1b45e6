package config

import (
	"fmt"
	"go/types"
	"reflect"

	"github.com/samber/lo"

	"bean-forge/generator"
	"bean-forge/internal/analyze"
	"bean-forge/internal/diagnostic"
	"bean-forge/internal/match"
)

// ValidateSources checks cfg against beans found by static analysis, for
// tools that cannot load the bean types at run time. Values are checked
// only for properties of basic types.
func ValidateSources(cfg *Config, graph *analyze.Graph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if cfg == nil {
		res.AddError("config_is_nil", "config is nil", "", "")
		return res
	}

	if graph == nil {
		graph = analyze.NewGraph()
	}

	settings(res, cfg)

	s := &sourceValidator{res: res, graph: graph}

	for _, sk := range cfg.Skip {
		bean := s.bean(sk.Type)
		if bean == nil {
			continue
		}

		for _, name := range sk.Properties {
			if p := s.property(bean, sk.Type, name); p != nil && !p.Writable {
				res.AddWarning("skip_not_writable",
					"property is never generated, skipping it has no effect", sk.Type, name)
			}
		}
	}

	for _, pv := range cfg.Properties {
		bean := s.bean(pv.Type)
		if bean == nil {
			continue
		}

		p := s.property(bean, pv.Type, pv.Property)
		if p == nil {
			continue
		}

		if !p.Writable {
			res.AddError("not_writable", "property has no setter", pv.Type, pv.Property)
			continue
		}

		if t, ok := basicType(p.Type); ok {
			if _, err := generator.Convert(pv.Value, t); err != nil {
				res.AddError("bad_value", fmt.Sprintf("value %v does not fit %s: %v", pv.Value, t, err),
					pv.Type, pv.Property)
			}
		}
	}

	if len(cfg.Names) > 0 {
		var known []string
		for _, b := range graph.Sorted() {
			known = append(known, lo.Map(b.Properties, func(p analyze.PropertyInfo, _ int) string { return p.Name })...)
		}

		unusedNames(res, cfg.Names, known)
	}

	return res
}

type sourceValidator struct {
	res   *diagnostic.Diagnostics
	graph *analyze.Graph
}

func (s *sourceValidator) bean(name string) *analyze.BeanInfo {
	b, ok := s.graph.Lookup(name)
	if !ok {
		shorts := lo.Map(s.graph.Sorted(), func(b *analyze.BeanInfo, _ int) string { return b.ID.Short() })
		s.res.AddError("unknown_type", fmt.Sprintf("type %q is not in the analyzed packages", name), name, "",
			match.Suggest(name, shorts, maxSuggestions)...)
	}

	return b
}

func (s *sourceValidator) property(b *analyze.BeanInfo, typ, name string) *analyze.PropertyInfo {
	p, ok := b.Property(name)
	if !ok {
		names := lo.Map(b.Properties, func(p analyze.PropertyInfo, _ int) string { return p.Name })
		s.res.AddError("unknown_property", fmt.Sprintf("%s has no property %q", b.ID, name), typ, name,
			match.Suggest(name, names, maxSuggestions)...)

		return nil
	}

	return p
}

var basicTypes = map[types.BasicKind]reflect.Type{
	types.Bool:    reflect.TypeFor[bool](),
	types.Int:     reflect.TypeFor[int](),
	types.Int8:    reflect.TypeFor[int8](),
	types.Int16:   reflect.TypeFor[int16](),
	types.Int32:   reflect.TypeFor[int32](),
	types.Int64:   reflect.TypeFor[int64](),
	types.Uint:    reflect.TypeFor[uint](),
	types.Uint8:   reflect.TypeFor[uint8](),
	types.Uint16:  reflect.TypeFor[uint16](),
	types.Uint32:  reflect.TypeFor[uint32](),
	types.Uint64:  reflect.TypeFor[uint64](),
	types.Float32: reflect.TypeFor[float32](),
	types.Float64: reflect.TypeFor[float64](),
	types.String:  reflect.TypeFor[string](),
}

// basicType maps a property of basic underlying type to its reflect type.
func basicType(t types.Type) (reflect.Type, bool) {
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return nil, false
	}

	rt, ok := basicTypes[b.Kind()]

	return rt, ok
}
