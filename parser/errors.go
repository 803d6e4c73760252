package parser

import (
	"fmt"
	"strings"
)

// Error is a syntax error at a source position.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// ErrorList collects the syntax errors of one parse. A non-empty list is
// returned from ParseProgram as its error.
type ErrorList struct {
	Errors []*Error
}

func (l *ErrorList) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	}
	var b strings.Builder
	b.WriteString(l.Errors[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l.Errors)-1)
	return b.String()
}

// First returns the message of the first error, without position.
func (l *ErrorList) First() string {
	if len(l.Errors) == 0 {
		return ""
	}
	return l.Errors[0].Msg
}

func (l *ErrorList) add(line, col int, msg string) {
	l.Errors = append(l.Errors, &Error{Line: line, Column: col, Msg: msg})
}

func (l *ErrorList) err() error {
	if len(l.Errors) == 0 {
		return nil
	}
	return l
}
