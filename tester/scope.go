package tester

import (
	"reflect"

	"bean-forge/introspect"
)

// Scope supplies the candidate types of VerifyBeans.
type Scope interface {
	Types() []reflect.Type
}

// ScopeFunc adapts a function to Scope.
type ScopeFunc func() []reflect.Type

// Types calls f.
func (f ScopeFunc) Types() []reflect.Type { return f() }

// Package selects the catalog types declared in the package with import
// path pkgPath.
func Package(c *introspect.Catalog, pkgPath string) Scope {
	return ScopeFunc(func() []reflect.Type { return c.InPackage(pkgPath) })
}

// PackageOf selects the catalog types declared in the package of sample.
func PackageOf(c *introspect.Catalog, sample any) Scope {
	t, ok := sample.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(sample)
	}

	return Package(c, structType(t).PkgPath())
}

// Types selects exactly the given types.
func Types(types ...reflect.Type) Scope {
	return ScopeFunc(func() []reflect.Type { return types })
}
