package scheme

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Interp holds the interaction environment and the standard ports.
type Interp struct {
	Global *Cell // the interaction environment
	Stdin  *InputPort
	Stdout *OutputPort
	Stderr *OutputPort
	Logger *slog.Logger

	// Prompt is called by ReadEvalPrintLoop before reading each form.
	// By default it writes the prompt to Stdout.
	Prompt func(prompt string)

	prims []*Primitive
}

// NewInterp builds an interpreter whose standard ports read from stdin
// and write to stdout and stderr.  Closing those ports does not close
// the underlying streams.
func NewInterp(stdin io.Reader, stdout, stderr io.Writer) *Interp {
	in := &Interp{
		Stdin:  NewInputPort("stdin", struct{ io.Reader }{stdin}),
		Stdout: NewOutputPort("stdout", struct{ io.Writer }{stdout}, true),
		Stderr: NewOutputPort("stderr", struct{ io.Writer }{stderr}, true),
		Logger: slog.Default(),
	}
	in.Prompt = func(prompt string) { in.Stdout.WriteString(prompt) }
	in.prims = in.builtins()
	in.Global = in.newEnvironment()
	return in
}

// guard converts a panic raised during fn into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()
	fn()
	return nil
}

// readEvalLoop evaluates every form of p in the interaction environment
// and returns the last result.  It panics on failure.
func (in *Interp) readEvalLoop(p *InputPort) Any {
	var result Any = Ok
	n := 0
	for {
		exp := Read(p)
		if exp == EOF {
			in.Logger.Debug("forms evaluated",
				slog.String("port", p.Name),
				slog.Int("forms", n))
			return result
		}
		result = Evaluate(exp, in.Global)
		n++
	}
}

// load evaluates the named file in the interaction environment.
func (in *Interp) load(fileName string) Any {
	p := OpenInputFile(fileName)
	defer p.Close()
	in.Logger.Debug("load", slog.String("path", fileName))
	return in.readEvalLoop(p)
}

// Load evaluates the named file and returns the last result.
func (in *Interp) Load(fileName string) (result Any, err error) {
	err = guard(func() { result = in.load(fileName) })
	return
}

// EvalString evaluates every form in src and returns the last result.
func (in *Interp) EvalString(src string) (result Any, err error) {
	p := NewInputPort("string", strings.NewReader(src))
	err = guard(func() { result = in.readEvalLoop(p) })
	return
}

// RunFile loads fileName and then calls main with a list of args as
// strings.
func (in *Interp) RunFile(fileName string, args []string) error {
	err := guard(func() {
		in.load(fileName)
		argv := make([]Any, len(args))
		for i, s := range args {
			argv[i] = NewString(s)
		}
		in.Logger.Debug("call main", slog.Int("argc", len(args)))
		call := List(Intern("main"), List(Quote, List(argv...)))
		Evaluate(call, in.Global)
	})
	if err != nil {
		in.logError(err)
	}
	return err
}

func (in *Interp) logError(err error) {
	var ex *EvalError
	if errors.As(err, &ex) {
		in.Logger.Debug("top-level error",
			slog.String("kind", ex.Kind.String()),
			slog.String("message", ex.Message))
	}
}

// ReadEvalPrintLoop repeats read-eval-print until End-Of-File.
// An error aborts the current form only; it is reported on Stderr.
// The loop ends early if (exit) is called, returning its *ExitError.
func (in *Interp) ReadEvalPrintLoop() error {
	for {
		in.Prompt("> ")
		var result Any
		done := false
		err := guard(func() {
			exp := Read(in.Stdin)
			if exp == EOF {
				done = true
				return
			}
			result = Evaluate(exp, in.Global)
		})
		var exit *ExitError
		switch {
		case errors.As(err, &exit):
			return exit
		case err != nil:
			in.logError(err)
			var ex *EvalError
			if errors.As(err, &ex) && ex.Kind == Interrupted {
				continue
			}
			if errors.As(err, &ex) && ex.Kind == ReadError {
				in.Stdin.DiscardBufferedLine()
			}
			in.Stderr.WriteString(err.Error() + "\n")
		case done:
			in.Stdout.WriteString("\n")
			return nil
		default:
			in.Stdout.WriteString(Stringify(result, true) + "\n")
		}
	}
}
