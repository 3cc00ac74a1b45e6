// Package tester verifies that the accessor pairs of beans behave.
//
// For every readable and writable property a Tester generates two values,
// sets the first and reads it back. For pointers, slices and maps it then
// sets the second value and checks that the first read-back did not change,
// which catches setters that reuse shared state. Values are generated by a
// builder with random defaults, so the two values usually differ; constant
// generators are allowed and simply make the second check weaker.
//
//	t := tester.New().Exclude(reflect.TypeFor[Order](), "total")
//	err := t.VerifyBean(reflect.TypeFor[Order]())
//	n, err := t.VerifyBeans(tester.PackageOf(catalog, Order{}))
package tester
