// Package errors annotates errors with where they are wrapped.
//
// Usage:
//
//	if err != nil {
//		return xe.Wrap(err)
//	}
//
// The message of a wrapped error reads like
//
//	@ pkg.Func "/path/to/file.go" l42 <- cause
//
// so that chained wraps tell the path the error came through.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrWithCaller is an error annotated with the location where it is wrapped.
type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Func() string {
	return e.funcname
}

func (e *ErrWithCaller) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

// New creates a new error annotated with the caller.
func New(text string) error {
	return wrap("", errors.New(text))
}

// Wrap annotates err with the caller. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return wrap("", err)
}

// WrapWithNote is Wrap with a short note, like a name of the object in trouble.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(note, err)
}

// wrap should be called from exported functions directly.
func wrap(note string, err error) error {
	funcname := "(unknown func)"
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "?"
		line = -1
	} else if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
