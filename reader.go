package scheme

import (
	"strconv"
	"strings"
)

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v', '(', ')':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c != '(' && c != ')' && isDelimiter(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func readError(msg string) *EvalError {
	return &EvalError{ReadError, msg}
}

// skipAtmosphere skips white spaces and ;-comments.
func skipAtmosphere(p *InputPort) {
	for {
		c, ok := p.PeekChar()
		if !ok {
			return
		}
		if c == ';' {
			for ok && c != '\n' {
				c, ok = p.ReadChar()
			}
		} else if isSpace(c) {
			p.ReadChar()
		} else {
			return
		}
	}
}

// atDelimiter reports whether the next character of p ends a token.
func atDelimiter(p *InputPort) bool {
	c, ok := p.PeekChar()
	return !ok || isDelimiter(c)
}

// readToken reads characters up to the next delimiter.
func readToken(p *InputPort, b *strings.Builder) string {
	for !atDelimiter(p) {
		c, _ := p.ReadChar()
		b.WriteByte(c)
	}
	return b.String()
}

// Read reads an expression from p.
// It returns EOF if p runs out before any token begins.
// It panics with a ReadError on malformed input.
func Read(p *InputPort) Any {
	skipAtmosphere(p)
	c, ok := p.PeekChar()
	if !ok {
		return EOF
	}
	p.ReadChar()
	switch c {
	case '(':
		return readList(p)
	case ')':
		panic(readError("unbalanced parenthesis"))
	case '\'':
		x := Read(p)
		if x == EOF {
			panic(readError("unexpected end of input after '"))
		}
		return &Cell{Quote, &Cell{x, Nil}} // 'x => (quote x)
	case '"':
		return readString(p)
	case '#':
		return readHash(p)
	case '|':
		return readBarSymbol(p)
	}
	var b strings.Builder
	b.WriteByte(c)
	token := readToken(p, &b)
	if isNumeral(token) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			panic(readError("integer out of range: " + token))
		}
		return n
	}
	return Intern(token)
}

// isNumeral reports whether s is an optional '-' followed by digits.
func isNumeral(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// readList reads the rest of a list after its opening parenthesis.
func readList(p *InputPort) Any {
	y := &Cell{Nil, Nil}
	z := y
	for {
		skipAtmosphere(p)
		c, ok := p.PeekChar()
		if !ok {
			panic(readError("unbalanced parenthesis"))
		}
		if c == ')' {
			p.ReadChar()
			return z.Cdr
		}
		if c == '.' && isDotToken(p) {
			if y == z {
				panic(readError("invalid use of ."))
			}
			p.ReadChar()
			x := Read(p)
			if x == EOF {
				panic(readError("unbalanced parenthesis"))
			}
			y.Cdr = x
			skipAtmosphere(p)
			if c, ok := p.ReadChar(); !ok || c != ')' {
				panic(readError("invalid use of ."))
			}
			return z.Cdr
		}
		x := Read(p)
		if x == EOF {
			panic(readError("unbalanced parenthesis"))
		}
		cell := &Cell{x, Nil}
		y.Cdr = cell
		y = cell
	}
}

// isDotToken reports whether the '.' ahead in p stands alone.
func isDotToken(p *InputPort) bool {
	b, err := p.r.Peek(2)
	return len(b) == 1 || (err == nil && isDelimiter(b[1]))
}

// readString reads the rest of a string after its opening quote.
func readString(p *InputPort) Any {
	var b []byte
	for {
		c, ok := p.ReadChar()
		if !ok {
			panic(readError("unterminated string"))
		}
		switch c {
		case '"':
			return &String{b}
		case '\\':
			c, ok = p.ReadChar()
			if !ok {
				panic(readError("unterminated string"))
			}
			switch c {
			case 'n':
				c = '\n'
			case '"', '\\':
			default:
				panic(readError("unknown escape: \\" + string(c)))
			}
		}
		b = append(b, c)
	}
}

// readBarSymbol reads the rest of a |...| symbol, in which \| and \\
// stand for | and \.
func readBarSymbol(p *InputPort) Any {
	var b strings.Builder
	for {
		c, ok := p.ReadChar()
		if !ok {
			panic(readError("unterminated |symbol|"))
		}
		switch c {
		case '|':
			return Intern(b.String())
		case '\\':
			if c, ok = p.ReadChar(); !ok {
				panic(readError("unterminated |symbol|"))
			}
		}
		b.WriteByte(c)
	}
}

// readHash reads #t, #f or a character literal after '#'.
func readHash(p *InputPort) Any {
	c, ok := p.ReadChar()
	if !ok {
		panic(readError("unexpected end of input after #"))
	}
	switch c {
	case 't', 'f':
		if !atDelimiter(p) {
			var b strings.Builder
			b.WriteString("#" + string(c))
			panic(readError("unknown # syntax: " + readToken(p, &b)))
		}
		return c == 't'
	case '\\':
		c, ok = p.ReadChar()
		if !ok {
			panic(readError("unexpected end of input after #\\"))
		}
		if atDelimiter(p) {
			return Char(c)
		}
		var b strings.Builder
		b.WriteByte(c)
		switch name := readToken(p, &b); name {
		case "space":
			return Char(' ')
		case "newline":
			return Char('\n')
		default:
			panic(readError("unknown character name: #\\" + name))
		}
	}
	panic(readError("unknown # syntax: #" + string(c)))
}
