package runtime

import "fmt"

// ErrorKind is the native error constructor an error materializes as.
type ErrorKind int

const (
	ErrError ErrorKind = iota
	ErrEval
	ErrRange
	ErrReference
	ErrSyntax
	ErrType
	ErrURI
	numErrorKinds
)

var errorKindNames = [...]string{
	ErrError:     "Error",
	ErrEval:      "EvalError",
	ErrRange:     "RangeError",
	ErrReference: "ReferenceError",
	ErrSyntax:    "SyntaxError",
	ErrType:      "TypeError",
	ErrURI:       "URIError",
}

func (k ErrorKind) String() string {
	if k >= 0 && k < numErrorKinds {
		return errorKindNames[k]
	}
	return "Error"
}

// ErrorKinds lists every native error kind in constructor registration order.
func ErrorKinds() []ErrorKind {
	kinds := make([]ErrorKind, 0, numErrorKinds)
	for k := ErrError; k < numErrorKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Error is an error raised by the engine itself. It becomes a script-visible
// Error object only when something observes it (see Realm.ThrowValue).
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewTypeError(format string, args ...any) *Error {
	return NewError(ErrType, format, args...)
}

func NewReferenceError(format string, args ...any) *Error {
	return NewError(ErrReference, format, args...)
}

func NewRangeError(format string, args ...any) *Error {
	return NewError(ErrRange, format, args...)
}

func NewSyntaxError(format string, args ...any) *Error {
	return NewError(ErrSyntax, format, args...)
}

func NewURIError(format string, args ...any) *Error {
	return NewError(ErrURI, format, args...)
}

// Exception carries a value thrown by script code.
type Exception struct {
	Value Value
}

// Throw returns v as a Go error.
func Throw(v Value) error {
	return &Exception{Value: v}
}

func (e *Exception) Error() string {
	v := e.Value
	if !v.IsObject() {
		return "Uncaught " + v.String()
	}
	o := v.AsObject()
	name, _ := o.dataValue("name")
	msg, _ := o.dataValue("message")
	switch {
	case name.IsString() && msg.IsString() && msg.AsString() != "":
		return "Uncaught " + name.AsString() + ": " + msg.AsString()
	case name.IsString():
		return "Uncaught " + name.AsString()
	}
	return "Uncaught " + v.String()
}

// typeErrorResult reports a rejected operation: a TypeError when throw is
// set, otherwise a silent false.
func typeErrorResult(throw bool, format string, args ...any) (bool, error) {
	if throw {
		return false, NewTypeError(format, args...)
	}
	return false, nil
}
