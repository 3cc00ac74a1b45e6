package config

import (
	"fmt"
	"maps"
	"path"
	"reflect"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"bean-forge/generator"
	"bean-forge/internal/diagnostic"
	"bean-forge/internal/match"
	"bean-forge/introspect"
)

const maxSuggestions = 3

// Validate checks cfg against the types of catalog. Properties are found
// with d, or with a fresh introspect.Reflector when d is nil. Type and
// property names that do not resolve come with suggestions.
func Validate(cfg *Config, catalog *introspect.Catalog, d introspect.Describer) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if cfg == nil {
		res.AddError("config_is_nil", "config is nil", "", "")
		return res
	}

	if catalog == nil {
		catalog = introspect.NewCatalog()
	}

	if d == nil {
		d = introspect.NewReflector()
	}

	v := &validator{res: res, catalog: catalog, describer: d}
	settings(res, cfg)

	for _, s := range cfg.Skip {
		desc := v.bean(s.Type)
		if desc == nil {
			continue
		}

		for _, name := range s.Properties {
			p, ok := v.property(desc, s.Type, name)
			if ok && !p.Writable {
				res.AddWarning("skip_not_writable",
					"property is never generated, skipping it has no effect", s.Type, name)
			}
		}
	}

	for _, pv := range cfg.Properties {
		desc := v.bean(pv.Type)
		if desc == nil {
			continue
		}

		p, ok := v.property(desc, pv.Type, pv.Property)
		if !ok {
			continue
		}

		if !p.Writable {
			res.AddError("not_writable", "property has no setter", pv.Type, pv.Property)
			continue
		}

		if _, err := generator.Convert(pv.Value, p.Type); err != nil {
			res.AddError("bad_value", fmt.Sprintf("value %v does not fit %s: %v", pv.Value, p.Type, err),
				pv.Type, pv.Property)
		}
	}

	v.names(cfg.Names)

	return res
}

type validator struct {
	res       *diagnostic.Diagnostics
	catalog   *introspect.Catalog
	describer introspect.Describer
}

func settings(res *diagnostic.Diagnostics, cfg *Config) {
	if cfg.CollectionSize != nil && *cfg.CollectionSize < 0 {
		res.AddError("bad_collection_size", "collection_size must not be negative", "", "")
	}

	if cfg.MaxDepth != nil && *cfg.MaxDepth < 0 {
		res.AddError("bad_max_depth", "max_depth must not be negative", "", "")
	}

	if cfg.LogLevel != "" {
		if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
			res.AddError("bad_log_level", err.Error(), "", "")
		}
	}

	if cfg.Seed != 0 && !cfg.Random {
		res.AddWarning("unused_seed", "seed has no effect unless random is set", "", "")
	}

	if cfg.Saver.Driver != "" && !slices.Contains(Drivers, cfg.Saver.Driver) {
		res.AddError("unknown_driver", fmt.Sprintf("driver %q is not one of %v", cfg.Saver.Driver, Drivers), "", "",
			match.Suggest(cfg.Saver.Driver, Drivers, 1)...)
	}

	if cfg.Saver.Driver != "" && cfg.Saver.DSN == "" {
		res.AddError("missing_dsn", "saver driver is set but dsn is empty", "", "")
	}
}

// bean resolves a type name to its descriptor, recording an error when it
// cannot.
func (v *validator) bean(name string) *introspect.TypeDescriptor {
	t, ok := v.catalog.Lookup(name)
	if !ok {
		v.res.AddError("unknown_type", fmt.Sprintf("type %q is not in the catalog", name), name, "",
			match.Suggest(name, lo.Map(v.catalog.Types(), shortName), maxSuggestions)...)

		return nil
	}

	desc, err := v.describer.Describe(t)
	if err != nil {
		v.res.AddError("not_a_bean", err.Error(), name, "")
		return nil
	}

	return desc
}

func (v *validator) property(desc *introspect.TypeDescriptor, typ, name string) (introspect.Property, bool) {
	p, ok := desc.Property(name)
	if !ok {
		v.res.AddError("unknown_property", fmt.Sprintf("%s has no property %q", desc.Type, name), typ, name,
			match.Suggest(name, propertyNames(desc), maxSuggestions)...)
	}

	return p, ok
}

// names warns about name values that match no property of any catalog bean.
func (v *validator) names(values map[string]any) {
	if len(values) == 0 {
		return
	}

	var known []string

	for _, t := range v.catalog.Types() {
		if t.Kind() != reflect.Struct {
			continue
		}

		if desc, err := v.describer.Describe(t); err == nil {
			known = append(known, propertyNames(desc)...)
		}
	}

	unusedNames(v.res, values, known)
}

func unusedNames(res *diagnostic.Diagnostics, values map[string]any, known []string) {
	known = lo.Uniq(known)

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if !slices.Contains(known, introspect.Uncapitalize(name)) {
			res.AddWarning("unused_name", "no catalog bean has a property with this name", "", name,
				match.Suggest(name, known, maxSuggestions)...)
		}
	}
}

func propertyNames(desc *introspect.TypeDescriptor) []string {
	return lo.Map(desc.Properties, func(p introspect.Property, _ int) string { return p.Name })
}

// shortName renders t as "pkg.Type".
func shortName(t reflect.Type, _ int) string {
	if t.PkgPath() == "" {
		return t.Name()
	}

	return path.Base(t.PkgPath()) + "." + t.Name()
}
