// Package serr holds the errors returned by the FLWarrior service layer. Its
// Error type carries a message and any number of causes, and errors.Is reports
// true for an Error and any of its causes. The API layer uses the sentinel
// causes below to pick a status code.
package serr

import "errors"

var (
	ErrNotFound      = errors.New("the requested entity could not be found")
	ErrAlreadyExists = errors.New("resource with same identifying information already exists")
	ErrDB            = errors.New("an error occurred with the DB")
	ErrBadArgument   = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal = errors.New("malformed data in request")

	// ErrInvalidRecord is a cause of every error about a machine, grammar, or
	// expression that cannot be built from its record.
	ErrInvalidRecord = errors.New("the record is not valid")
)

// Error is an error with a message and one or more causes. Create one with
// New, WrapDB, or WrapRecord.
//
// Error() gives the message followed by the text of the first cause, or just
// one of the two if the other is empty.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if len(e.cause) == 0 {
		return e.msg
	}
	if e.msg == "" {
		return e.cause[0].Error()
	}
	return e.msg + ": " + e.cause[0].Error()
}

// Unwrap returns the causes of e, or nil if it has none. Go 1.19 ignores this
// form of Unwrap and relies on Is instead.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is an Error equal to e, or is matched by any of
// e's causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok && e.equal(errTarget) {
		return true
	}

	for i := range e.cause {
		if errors.Is(e.cause[i], target) {
			return true
		}
	}
	return false
}

func (e Error) equal(o Error) bool {
	if e.msg != o.msg || len(e.cause) != len(o.cause) {
		return false
	}
	for i := range e.cause {
		if e.cause[i] != o.cause[i] {
			return false
		}
	}
	return true
}

// WrapDB creates an Error caused by err and ErrDB. msg may be "".
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// WrapRecord creates an Error for a record that could not be turned into a
// machine, grammar, or expression. It is caused by err, ErrInvalidRecord, and
// any extra causes given. msg may be "".
func WrapRecord(msg string, err error, extra ...error) Error {
	causes := append([]error{err, ErrInvalidRecord}, extra...)
	return New(msg, causes...)
}

// New creates an Error with the given message and causes. Causes are optional.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
