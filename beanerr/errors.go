package beanerr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Class is a stable failure category.
type Class string

const (
	// Resolution means no generator was found and no fallback was configured.
	Resolution Class = "RESOLUTION"
	// Construction means no usable constructor exists or generating its arguments failed.
	Construction Class = "CONSTRUCTION"
	// UnsupportedOperation means a save was attempted without a persistence collaborator.
	UnsupportedOperation Class = "UNSUPPORTED_OPERATION"
	// InconsistentAccessor means a getter did not return what its setter received.
	InconsistentAccessor Class = "INCONSISTENT_ACCESSOR"
	// GenerationUnsupported means verification could not generate a value for a property type.
	GenerationUnsupported Class = "GENERATION_UNSUPPORTED"
)

// Sentinel errors, one per class. Every *Error matches the sentinel of its
// class through errors.Is.
var (
	ErrResolution            = errors.New("beanerr: no generator found")
	ErrConstruction          = errors.New("beanerr: construction failed")
	ErrUnsupportedOperation  = errors.New("beanerr: unsupported operation")
	ErrInconsistentAccessor  = errors.New("beanerr: inconsistent getter and setter")
	ErrGenerationUnsupported = errors.New("beanerr: generation unsupported")
)

// Error is the structured error type for all engine failures.
type Error struct {
	Class    Class
	Type     reflect.Type // Offending type, may be nil.
	Property string       // Offending property, empty when not property specific.
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var prefix []string
	if e.Type != nil {
		prefix = append(prefix, "["+e.Type.String()+"]")
	}

	if e.Property != "" {
		prefix = append(prefix, e.Property)
	}

	msg := fmt.Sprintf("beanerr: %s: %s", e.Class, e.Message)
	if len(prefix) > 0 {
		msg = fmt.Sprintf("beanerr: %s %s: %s", e.Class, strings.Join(prefix, " "), e.Message)
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of this error's class.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Class)
}

func sentinel(c Class) error {
	switch c {
	case Resolution:
		return ErrResolution
	case Construction:
		return ErrConstruction
	case UnsupportedOperation:
		return ErrUnsupportedOperation
	case InconsistentAccessor:
		return ErrInconsistentAccessor
	case GenerationUnsupported:
		return ErrGenerationUnsupported
	default:
		return nil
	}
}

// New creates a new Error with the given class, type and message.
func New(class Class, t reflect.Type, message string) *Error {
	return &Error{Class: class, Type: t, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class Class, t reflect.Type, message string, cause error) *Error {
	return &Error{Class: class, Type: t, Message: message, Cause: cause}
}

// ForProperty returns a copy of e scoped to the given property.
func (e *Error) ForProperty(name string) *Error {
	c := *e
	c.Property = name

	return &c
}

// NewResolution reports that no generator could produce a value of type t.
func NewResolution(t reflect.Type) *Error {
	return New(Resolution, t, "no generator registered and no fallback configured")
}

// NewConstruction reports that a shell instance of t could not be created.
func NewConstruction(t reflect.Type, message string, cause error) *Error {
	return Wrap(Construction, t, message, cause)
}

// NewUnsupportedOperation reports an operation the configured collaborators cannot perform.
func NewUnsupportedOperation(t reflect.Type, message string) *Error {
	return New(UnsupportedOperation, t, message)
}

// NewInconsistentAccessor reports a getter/setter mismatch on a property.
func NewInconsistentAccessor(t reflect.Type, property, message string) *Error {
	return &Error{Class: InconsistentAccessor, Type: t, Property: property, Message: message}
}

// NewGenerationUnsupported reports that a property value could not be generated.
func NewGenerationUnsupported(t reflect.Type, property string, cause error) *Error {
	return &Error{
		Class:    GenerationUnsupported,
		Type:     t,
		Property: property,
		Message:  "could not generate a value",
		Cause:    cause,
	}
}

// ClassOf returns the class of the first *Error in err's chain.
func ClassOf(err error) (Class, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}

	return "", false
}

// IsResolution returns true if err is or wraps a resolution failure.
func IsResolution(err error) bool {
	return err != nil && errors.Is(err, ErrResolution)
}

// IsConstruction returns true if err is or wraps a construction failure.
func IsConstruction(err error) bool {
	return err != nil && errors.Is(err, ErrConstruction)
}

// IsUnsupportedOperation returns true if err is or wraps an unsupported operation.
func IsUnsupportedOperation(err error) bool {
	return err != nil && errors.Is(err, ErrUnsupportedOperation)
}

// IsInconsistentAccessor returns true if err is or wraps an accessor mismatch.
func IsInconsistentAccessor(err error) bool {
	return err != nil && errors.Is(err, ErrInconsistentAccessor)
}

// IsGenerationUnsupported returns true if err is or wraps a generation failure during verification.
func IsGenerationUnsupported(err error) bool {
	return err != nil && errors.Is(err, ErrGenerationUnsupported)
}
