// Package codegen writes typed fluent commands for beans.
//
// For every writable property of a bean it emits three func fields that
// fluent.Bind understands:
//
//	WithName     func(string) *CustomerCommand           // fixed value
//	GenerateName func() *CustomerCommand                 // generated value
//	UseName      func(generator.Generator) *CustomerCommand // custom generator
//
// plus the session pass-throughs (Load, GenerateValue, Fill, Construct,
// Save, Err) and a NewCustomerCommand constructor. Properties whose type
// cannot be written outside their package are left out and reported.
package codegen
