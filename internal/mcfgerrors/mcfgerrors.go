// Package mcfgerrors contains the typed errors surfaced by grammar
// construction and parsing.
package mcfgerrors

import "fmt"

// Kind distinguishes the broad category of error a caller is dealing with,
// so that errors.Is can be used to match on category without caring about
// the specific message.
type Kind string

const (
	// KindMalformedGrammar is returned when a grammar's rules or functions
	// are internally inconsistent: a rule names an unknown function, a
	// placeholder's argument name is not a formal, or arities disagree.
	KindMalformedGrammar Kind = "malformed grammar"

	// KindMalformedPlaceholder is returned when an atom string is neither a
	// plain terminal nor matches the Name(index) shape.
	KindMalformedPlaceholder Kind = "malformed placeholder"

	// KindInvalidInput is returned for a token stream that cannot be parsed
	// at all, such as an empty token stream.
	KindInvalidInput Kind = "invalid input"
)

// mcfgError is an error caused by a problem in a grammar definition or in
// the tokens handed to the parser. It carries both a short technical
// message (returned by Error) and a human-facing message suitable for
// showing to whoever supplied the bad grammar or input, and, where
// relevant, a wrapped cause.
type mcfgError struct {
	kind  Kind
	msg   string
	human string
	wrap  error
}

func (e *mcfgError) Error() string {
	return e.msg
}

// UserMessage gives the message meant for display to whoever triggered the
// error, as opposed to Error's technical description.
func (e *mcfgError) UserMessage() string {
	return e.human
}

// Unwrap gives the error that this one wraps, if any.
func (e *mcfgError) Unwrap() error {
	return e.wrap
}

// Is allows errors.Is(err, mcfgerrors.New(SomeKind, "")) to match any error
// of the same Kind regardless of message.
func (e *mcfgError) Is(target error) bool {
	other, ok := target.(*mcfgError)
	if !ok {
		return false
	}
	return e.kind == other.kind
}

// New returns an error of the given kind with the given technical message.
// The same text doubles as the user-facing message; use NewWithMessage to
// give the two independently.
func New(kind Kind, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	return &mcfgError{
		kind:  kind,
		msg:   msg,
		human: msg,
	}
}

// NewWithMessage returns an error of the given kind whose user-facing
// message is independent of its technical one.
func NewWithMessage(kind Kind, userMessage string, format string, a ...interface{}) error {
	return &mcfgError{
		kind:  kind,
		msg:   fmt.Sprintf(format, a...),
		human: userMessage,
	}
}

// Wrap returns an error of the given kind that wraps cause. The technical
// message also doubles as the user-facing one; use WrapWithMessage to give
// the two independently.
func Wrap(cause error, kind Kind, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	return &mcfgError{
		kind:  kind,
		msg:   msg,
		human: msg,
		wrap:  cause,
	}
}

// WrapWithMessage returns an error of the given kind that wraps cause, with
// a user-facing message independent of its technical one.
func WrapWithMessage(cause error, kind Kind, userMessage string, format string, a ...interface{}) error {
	return &mcfgError{
		kind:  kind,
		msg:   fmt.Sprintf(format, a...),
		human: userMessage,
		wrap:  cause,
	}
}

// UserMessage gives the message to show to whoever triggered err. If err is
// an mcfgError its dedicated human-facing message is returned; otherwise
// err.Error() is used as a fallback.
func UserMessage(err error) string {
	if me, ok := err.(*mcfgError); ok {
		return me.UserMessage()
	}
	return err.Error()
}

// Malformed is a sentinel usable with errors.Is to detect a malformed
// grammar regardless of its specific message.
var Malformed = &mcfgError{kind: KindMalformedGrammar}

// MalformedPlaceholder is a sentinel usable with errors.Is to detect a
// malformed placeholder atom regardless of its specific message.
var MalformedPlaceholder = &mcfgError{kind: KindMalformedPlaceholder}

// InvalidInput is a sentinel usable with errors.Is to detect invalid input
// regardless of its specific message.
var InvalidInput = &mcfgError{kind: KindInvalidInput}
