// Package analyze finds beans in Go source without running it.
//
// It uses golang.org/x/tools/go/packages with go/types to list the exported
// struct types of a set of packages together with the properties the
// builder would see at run time (exported fields, promoted fields and
// accessor pairs) and the New* functions that construct them. The CLI uses
// it to scan packages and to generate typed fluent commands.
//
// Key types:
//   - TypeID: package import path + type name
//   - BeanInfo: properties and constructors of one struct type
//   - PropertyInfo: name, type, declaring type and accessor methods
package analyze
