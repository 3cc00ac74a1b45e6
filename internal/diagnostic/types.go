package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics holds the findings of one check.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding, e.g. "unknown_type".
	Code    string
	Message string
	// Type is the bean type name as written in the config, if any.
	Type string
	// Property is the property name, if any.
	Property    string
	Suggestions []string
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// AddError records an error.
func (d *Diagnostics) AddError(code, message, typ, property string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		Type:        typ,
		Property:    property,
		Suggestions: suggestions,
	})
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(code, message, typ, property string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    SeverityWarning,
		Code:        code,
		Message:     message,
		Type:        typ,
		Property:    property,
		Suggestions: suggestions,
	})
}

// Merge appends the findings of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// IsValid returns true if there are no errors. Warnings do not count.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors followed by warnings.
func (d *Diagnostics) All() []Diagnostic {
	return append(append([]Diagnostic(nil), d.Errors...), d.Warnings...)
}

// Err returns the errors combined into one error, or nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return errors.New(strings.Join(parts, "; "))
}

// String formats the diagnostic as "[Type] property: [code] message (did
// you mean a, b?)".
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Property != "" {
		prefix = append(prefix, d.Property)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
