package reactor

import (
	"errors"
	"fmt"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// Sentinel errors. Every error the engine returns or panics with is an *Error
// that unwraps to one of these.
var (
	// ErrUninitialized is returned when a reactive property is read before
	// its first write.
	ErrUninitialized = errors.New("uninitialized reactive property")

	// ErrMissingGetter is the panic value of Derived when the getter is nil.
	ErrMissingGetter = errors.New("derived property has no getter")

	// ErrNotReactiveArray is returned by an arrayChange subscription whose
	// dependency does not evaluate to an attached *Array, and by
	// (*Array).Subscribe on a detached array.
	ErrNotReactiveArray = errors.New("dependency is not a materialized reactive array")

	// ErrUnknownProperty is returned when an object's type does not declare
	// the property.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrReadOnly is returned when writing a derived property without a
	// setter, an event or an exposed cell.
	ErrReadOnly = errors.New("read-only property")

	// ErrNotArray is returned when an array property is assigned a value
	// that is not a slice.
	ErrNotArray = errors.New("value is not an array")

	// ErrInvalidCallback is returned by Subscribe when the callback's
	// signature does not fit the target.
	ErrInvalidCallback = errors.New("invalid subscription callback")

	// ErrInvalidTarget is returned by Subscribe for a target that is neither
	// an event source, a dependency func nor a cell.
	ErrInvalidTarget = errors.New("invalid subscription target")

	// ErrNoCell is returned by Unwrap for event properties.
	ErrNoCell = errors.New("property has no cell")

	// ErrExtenderFailed is returned when a declared extender cannot be
	// applied to a property's cell.
	ErrExtenderFailed = errors.New("extender failed")

	// ErrDuplicateProperty is the panic value when a type declares the same
	// key twice.
	ErrDuplicateProperty = errors.New("property declared twice")

	// ErrWrongType is returned by GetAs when the value has another type.
	ErrWrongType = errors.New("property value has another type")
)

var codes = map[error]string{
	ErrUninitialized:     "R001",
	ErrMissingGetter:     "R002",
	ErrNotReactiveArray:  "R003",
	ErrUnknownProperty:   "R004",
	ErrReadOnly:          "R005",
	ErrNotArray:          "R006",
	ErrInvalidCallback:   "R007",
	ErrInvalidTarget:     "R008",
	ErrNoCell:            "R009",
	ErrExtenderFailed:    "R010",
	ErrDuplicateProperty: "R011",
	ErrWrongType:         "R012",
}

// Error describes a failed operation on a property.
type Error struct {
	// Code is the error code, e.g. "R001".
	Code string

	// Type is the declaring type's name, "record" for plain records, or
	// empty when no object is involved.
	Type string

	// Property is the property key, if any.
	Property string

	// Err is the sentinel error.
	Err error

	// Cause is the underlying error, if any.
	Cause error
}

func newError(err error, typ, prop string) *Error {
	e := &Error{Code: codes[err], Type: typ, Property: prop, Err: err}
	observer().Failed(e)
	return e
}

func wrapError(err error, typ, prop string, cause error) *Error {
	e := &Error{Code: codes[err], Type: typ, Property: prop, Err: err, Cause: cause}
	observer().Failed(e)
	return e
}

// Subject returns "Type.Property", or whichever half is set.
func (e *Error) Subject() string {
	switch {
	case e.Type != "" && e.Property != "":
		return e.Type + "." + e.Property
	case e.Property != "":
		return e.Property
	default:
		return e.Type
	}
}

func (e *Error) Error() string {
	msg := "reactor: " + e.Err.Error()
	if s := e.Subject(); s != "" {
		msg = fmt.Sprintf("%s %q", msg, s)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the sentinel and the cause for errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Report converts the error into its structured, printable form.
func (e *Error) Report() *rerrors.ReactorError {
	r := rerrors.New(e.Code).WithSubject(e.Subject())
	if e.Cause != nil {
		r.Wrap(e.Cause)
	}
	return r
}

// Format renders the error for a terminal.
func (e *Error) Format() string {
	return e.Report().Format()
}
