// Package flerrors holds the error kinds shared by the FLWarrior packages.
// Typed errors defined here each match one of the sentinel kinds with
// errors.Is, so a caller can check what went wrong without typecasting:
//
//	if errors.Is(err, flerrors.ErrSyntax) { ... }
//
// It also contains the helpers for wrapping errors with context and for
// aggregating several independent problems into one error value.
package flerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrSyntax        = errors.New("syntax error")
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrInvalidHead   = errors.New("invalid production head")
	ErrUnmatched     = errors.New("lexeme matched no rule")
	ErrMalformed     = errors.New("malformed record")
	ErrCommand       = errors.New("invalid command")
)

// SyntaxError is returned when regex source text cannot be parsed. Pos is the
// zero-based rune offset into Source at which the problem was detected.
type SyntaxError struct {
	Source string
	Pos    int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d in %q: %s", e.Pos, e.Source, e.Reason)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Message gives a short description suitable for showing to a user.
func (e *SyntaxError) Message() string {
	return fmt.Sprintf("%s (at character %d)", e.Reason, e.Pos+1)
}

// UnknownSymbolError is returned when a record or rule refers to a symbol
// that is not declared in its alphabet.
type UnknownSymbolError struct {
	Symbol string

	// Where is a short description of where the symbol was found, such as
	// "transition from q0".
	Where string
}

func (e *UnknownSymbolError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("unknown symbol %q", e.Symbol)
	}
	return fmt.Sprintf("unknown symbol %q in %s", e.Symbol, e.Where)
}

func (e *UnknownSymbolError) Is(target error) bool {
	return target == ErrUnknownSymbol
}

func (e *UnknownSymbolError) Message() string {
	return fmt.Sprintf("%q is not in the alphabet", e.Symbol)
}

// InvalidHeadError is returned when a production head is empty, contains
// epsilon, or contains no non-terminal.
type InvalidHeadError struct {
	Head   []string
	Reason string
}

func (e *InvalidHeadError) Error() string {
	return fmt.Sprintf("invalid production head [%s]: %s", strings.Join(e.Head, " "), e.Reason)
}

func (e *InvalidHeadError) Is(target error) bool {
	return target == ErrInvalidHead
}

func (e *InvalidHeadError) Message() string {
	return "production head " + e.Reason
}

// UnmatchedError lists the lexemes that no lexer rule accepted.
type UnmatchedError struct {
	Lexemes []string
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("%d lexeme(s) matched no rule: %q", len(e.Lexemes), e.Lexemes)
}

func (e *UnmatchedError) Is(target error) bool {
	return target == ErrUnmatched
}

func (e *UnmatchedError) Message() string {
	return "no rule matches " + strings.Join(e.Lexemes, ", ")
}

// Error is a general typed error with a message and one or more errors it
// considers its causes. Calling errors.Is on an Error with any of its causes
// returns true.
//
// If Error has at least one cause, Error() is its message with the Error() of
// the first cause appended to it.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of Error, or nil if there are none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether one of the causes of Error is target. This is needed on
// Go 1.19, where errors.Is does not walk a multi-error Unwrap.
func (e Error) Is(target error) bool {
	for i := range e.cause {
		if errors.Is(e.cause[i], target) {
			return true
		}
	}
	return false
}

// New creates a new Error with the given message along with any errors it
// should wrap as its causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// Message gives the message of e followed by the message of its first cause.
// A cause that is one of the error kinds of this package is not shown.
func (e Error) Message() string {
	if len(e.cause) == 0 {
		return e.msg
	}
	if isKind(e.cause[0]) {
		if e.msg == "" {
			return e.cause[0].Error()
		}
		return e.msg
	}
	causeMsg := Message(e.cause[0])
	if e.msg == "" {
		return causeMsg
	}
	return e.msg + ": " + causeMsg
}

func isKind(err error) bool {
	switch err {
	case ErrSyntax, ErrUnknownSymbol, ErrInvalidHead, ErrUnmatched, ErrMalformed, ErrCommand:
		return true
	default:
		return false
	}
}

// Commandf creates an Error that has ErrCommand as its cause. It is for
// problems with a command typed by a user, and its message is meant to be
// shown to them as-is.
func Commandf(format string, a ...interface{}) Error {
	return New(fmt.Sprintf(format, a...), ErrCommand)
}

// Malformedf creates an Error that has ErrMalformed as its cause.
func Malformedf(format string, a ...interface{}) Error {
	return New(fmt.Sprintf(format, a...), ErrMalformed)
}

// Wrapf adds context to an existing error. If err is nil, nil is returned.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// Append safely appends err onto reterr. Either may be nil; if both are nil,
// nil is returned. This makes it usable as a `reterr += err` when collecting
// every problem found during validation.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// Message gets the message to display to a user for the given error. If any
// error in the chain defines a Message method, the first one found is used.
// Otherwise, err.Error() is returned. A multierror has the message of each of
// its errors joined by "; ".
func Message(err error) string {
	if err == nil {
		return ""
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, len(merr.Errors))
		for i := range merr.Errors {
			msgs[i] = Message(merr.Errors[i])
		}
		return strings.Join(msgs, "; ")
	}

	var msger interface{ Message() string }
	if errors.As(err, &msger) {
		return msger.Message()
	}
	return err.Error()
}
