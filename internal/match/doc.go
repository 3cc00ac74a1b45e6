// Package match ranks property and type names by similarity. It backs the
// "did you mean" suggestions of configuration diagnostics.
package match
