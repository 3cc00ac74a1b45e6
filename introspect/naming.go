package introspect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Accessor prefixes recognized on methods.
const (
	GetPrefix = "Get"
	IsPrefix  = "Is"
	SetPrefix = "Set"
)

// Uncapitalize lower-cases the first rune of s and leaves the rest unchanged.
// "FullName" becomes "fullName", "ID" becomes "iD".
func Uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

// Capitalize upper-cases the first rune of s and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// TrimAccessor strips prefix from a method name and reports whether the
// remainder starts a new word ("SetName" -> "Name", but not "Settle").
func TrimAccessor(method, prefix string) (string, bool) {
	if !strings.HasPrefix(method, prefix) || len(method) == len(prefix) {
		return "", false
	}

	rest := method[len(prefix):]

	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}

	return rest, true
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
