package scheme

import (
	"fmt"
	"runtime"
)

// ErrorKind classifies an EvalError.
type ErrorKind int

const (
	ReadError ErrorKind = iota
	UnboundVariable
	NotProcedure
	TypeError
	ArityError
	UserError
	IOError
	DepthError
	Interrupted
)

var kindStr = [...]string{
	"read error", "unbound variable", "not a procedure", "type error",
	"arity error", "error", "i/o error", "depth error", "interrupted",
}

func (k ErrorKind) String() string {
	return kindStr[k]
}

// EvalError represents an error which aborts the current top-level form.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

// NewEvalError constructs an EvalError whose message ends with
// the written representation of x.
func NewEvalError(kind ErrorKind, msg string, x Any) *EvalError {
	return &EvalError{kind, msg + ": " + Stringify(x, true)}
}

// Errorf constructs an EvalError with a formatted message.
func Errorf(kind ErrorKind, format string, a ...Any) *EvalError {
	return &EvalError{kind, fmt.Sprintf(format, a...)}
}

func (err *EvalError) Error() string {
	return err.Kind.String() + ": " + err.Message
}

// ExitError is raised by (exit) to stop the interpreter.
type ExitError struct {
	Code int
}

func (err *ExitError) Error() string {
	return fmt.Sprintf("exit %d", err.Code)
}

// asError converts a recovered panic value into an error.
// Runtime errors such as failed type assertions become TypeErrors.
func asError(r Any) error {
	switch x := r.(type) {
	case *EvalError:
		return x
	case *ExitError:
		return x
	case runtime.Error:
		return &EvalError{TypeError, x.Error()}
	case error:
		return &EvalError{IOError, x.Error()}
	}
	return &EvalError{TypeError, fmt.Sprint(r)}
}
