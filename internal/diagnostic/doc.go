// Package diagnostic collects the findings of a configuration check:
// errors that stop a fixture config from being applied and warnings that
// point at likely mistakes, each tied to a type and property with
// "did you mean" suggestions.
package diagnostic
