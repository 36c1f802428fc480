package scheme

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// InputPort represents a readable character source with one-character
// lookahead.
type InputPort struct {
	Name   string
	r      *bufio.Reader
	closer io.Closer
	closed bool
	eof    bool // sticky, so that an interactive source is not asked again
}

// NewInputPort wraps r as an input port.
// If r is also an io.Closer, close-port will close it.
func NewInputPort(name string, r io.Reader) *InputPort {
	c, _ := r.(io.Closer)
	return &InputPort{Name: name, r: bufio.NewReader(r), closer: c}
}

// OpenInputFile opens the named file as an input port.
func OpenInputFile(name string) *InputPort {
	f, err := os.Open(name)
	if err != nil {
		panic(&EvalError{IOError, err.Error()})
	}
	return NewInputPort(name, f)
}

func (p *InputPort) String() string { return "#<input-port>" }

func (p *InputPort) check() {
	if p.closed {
		panic(&EvalError{IOError, "input port is closed: " + p.Name})
	}
}

// readFailed records the end of input or panics with the error.
func (p *InputPort) readFailed(err error) {
	switch {
	case err == io.EOF:
		p.eof = true
	case errors.Is(err, ErrInterrupted):
		panic(&EvalError{Interrupted, "input dropped"})
	default:
		panic(&EvalError{IOError, err.Error()})
	}
}

// ReadChar reads one character; ok is false at the end of input.
// Once the end has been seen, the underlying reader is not read again.
func (p *InputPort) ReadChar() (c byte, ok bool) {
	p.check()
	if p.eof {
		return 0, false
	}
	c, err := p.r.ReadByte()
	if err != nil {
		p.readFailed(err)
		return 0, false
	}
	return c, true
}

// PeekChar returns the next character without consuming it.
func (p *InputPort) PeekChar() (c byte, ok bool) {
	p.check()
	if p.eof {
		return 0, false
	}
	b, err := p.r.Peek(1)
	if err != nil {
		p.readFailed(err)
		return 0, false
	}
	return b[0], true
}

// Close releases the underlying handle, if any.
func (p *InputPort) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			panic(&EvalError{IOError, err.Error()})
		}
	}
}

//----------------------------------------------------------------------

// OutputPort represents a writable character sink.
type OutputPort struct {
	Name      string
	w         *bufio.Writer
	closer    io.Closer
	autoFlush bool
	closed    bool
}

// NewOutputPort wraps w as an output port.
// If autoFlush is true, every write is flushed at once.
func NewOutputPort(name string, w io.Writer, autoFlush bool) *OutputPort {
	c, _ := w.(io.Closer)
	return &OutputPort{Name: name, w: bufio.NewWriter(w), closer: c,
		autoFlush: autoFlush}
}

// OpenOutputFile creates (or truncates) the named file as an output port.
func OpenOutputFile(name string) *OutputPort {
	f, err := os.Create(name)
	if err != nil {
		panic(&EvalError{IOError, err.Error()})
	}
	return NewOutputPort(name, f, false)
}

func (p *OutputPort) String() string { return "#<output-port>" }

// WriteString writes s to the port.
func (p *OutputPort) WriteString(s string) {
	if p.closed {
		panic(&EvalError{IOError, "output port is closed: " + p.Name})
	}
	if _, err := p.w.WriteString(s); err != nil {
		panic(&EvalError{IOError, err.Error()})
	}
	if p.autoFlush {
		p.Flush()
	}
}

// Flush writes any buffered data to the underlying writer.
func (p *OutputPort) Flush() {
	if err := p.w.Flush(); err != nil {
		panic(&EvalError{IOError, err.Error()})
	}
}

// Close flushes the port and releases the underlying handle, if any.
func (p *OutputPort) Close() {
	if p.closed {
		return
	}
	p.Flush()
	p.closed = true
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			panic(&EvalError{IOError, err.Error()})
		}
	}
}

// DiscardBufferedLine drops what is left of the current line, as far as
// it has been buffered already, so that the rest of a malformed line is
// not read as new forms.
func (p *InputPort) DiscardBufferedLine() {
	for !p.closed && p.r.Buffered() > 0 {
		if c, _ := p.r.ReadByte(); c == '\n' {
			return
		}
	}
}
