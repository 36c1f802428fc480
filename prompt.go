package scheme

import (
	"errors"
	"io"
)

// ErrInterrupted is returned by a LineSource when the user abandons the
// line being edited.  The form being read is dropped.
var ErrInterrupted = errors.New("interrupted")

// LineSource reads a line after showing a prompt.
// *liner.State of github.com/peterh/liner satisfies it.
type LineSource interface {
	Prompt(prompt string) (string, error)
}

// PromptReader turns a LineSource into an io.Reader.
// The first line of each form is requested with the prompt given by
// SetPrompt, the following lines with the continuation prompt.
type PromptReader struct {
	src    LineSource
	prompt string
	cont   string
	buf    []byte
	err    error
}

// NewPromptReader returns a PromptReader reading lines from src.
func NewPromptReader(src LineSource, prompt, cont string) *PromptReader {
	return &PromptReader{src: src, prompt: prompt, cont: cont}
}

// SetPrompt sets the prompt for the next line to be requested.
func (r *PromptReader) SetPrompt(prompt string) {
	r.prompt = prompt
}

// Read implements io.Reader.
// An error other than ErrInterrupted is returned again by later calls
// without asking src.
func (r *PromptReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		line, err := r.src.Prompt(r.prompt)
		if err != nil {
			if !errors.Is(err, ErrInterrupted) {
				r.err = err
			}
			return 0, err
		}
		r.prompt = r.cont
		r.buf = append(r.buf[:0], line...)
		r.buf = append(r.buf, '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

var _ io.Reader = (*PromptReader)(nil)
