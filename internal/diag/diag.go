// Package diag holds the error and position types shared by every stage of
// the pipeline: tokeniser, parser, IR generator, interpreter and wasmgen.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage identifies which pipeline phase raised an Error, matching the
// taxonomy in the specification's error handling design.
type Stage int

const (
	StageLexical Stage = iota
	StageSyntax
	StageResolve
	StageRuntime
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexical"
	case StageSyntax:
		return "syntax"
	case StageResolve:
		return "resolve"
	case StageRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Pos is a 1-based line/column pair into the source text.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error is the single error type returned by every pipeline stage. It wraps
// the underlying cause (built with github.com/pkg/errors so a %+v format
// verb prints a stack trace) and records where in the source it occurred.
type Error struct {
	Stage Stage
	Pos   Pos
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at %s: %s", e.Stage, e.Pos, e.cause)
}

// Unwrap lets errors.Is / errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Format forwards to the wrapped cause so %+v on an *Error still prints a
// pkg/errors stack trace when one is attached.
func (e *Error) Format(s fmt.State, verb rune) {
	if formatter, ok := e.cause.(fmt.Formatter); ok && verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s error at %s: ", e.Stage, e.Pos)
		formatter.Format(s, verb)
		return
	}
	fmt.Fprint(s, e.Error())
}

// New builds an *Error at pos for stage, wrapping a fresh errors.Errorf cause
// so a stack trace is captured at the call site.
func New(stage Stage, pos Pos, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Pos: pos, cause: errors.Errorf(format, args...)}
}

// Wrap attaches stage/pos context to an existing error, preserving its
// cause chain.
func Wrap(stage Stage, pos Pos, cause error, msg string) *Error {
	return &Error{Stage: stage, Pos: pos, cause: errors.Wrap(cause, msg)}
}
