package scheme

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify returns the string representation of an expression.
// If quote is true, it is the external representation used by write;
// otherwise strings and characters are shown as they are, as by display.
func Stringify(exp Any, quote bool) string {
	var b strings.Builder
	writeTo(&b, exp, quote)
	return b.String()
}

func writeTo(b *strings.Builder, exp Any, quote bool) {
	switch x := exp.(type) {
	case bool:
		if x {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case Char:
		if !quote {
			b.WriteByte(byte(x))
			return
		}
		switch x {
		case ' ':
			b.WriteString(`#\space`)
		case '\n':
			b.WriteString(`#\newline`)
		default:
			b.WriteString(`#\`)
			b.WriteByte(byte(x))
		}
	case *String:
		if !quote {
			b.Write(x.Bytes)
			return
		}
		b.WriteByte('"')
		for _, c := range x.Bytes {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			default:
				b.WriteByte(c)
			}
		}
		b.WriteByte('"')
	case *Symbol:
		if quote && needsBars(string(*x)) {
			writeBarSymbol(b, string(*x))
		} else {
			b.WriteString(string(*x))
		}
	case *Cell:
		writeList(b, x, quote)
	case *Primitive, *Closure:
		b.WriteString("#<procedure>")
	case *InputPort:
		b.WriteString("#<input-port>")
	case *OutputPort:
		b.WriteString("#<output-port>")
	default:
		if exp == EOF {
			b.WriteString("#<eof>")
		} else {
			fmt.Fprintf(b, "#<unknown %v>", exp)
		}
	}
}

// needsBars reports whether the symbol name s would not read back as
// itself, as with names made by string->symbol.
func needsBars(s string) bool {
	if s == "" || s == "." || isNumeral(s) ||
		strings.ContainsRune("'\"#;|", rune(s[0])) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if isDelimiter(s[i]) {
			return true
		}
	}
	return false
}

func writeBarSymbol(b *strings.Builder, s string) {
	b.WriteByte('|')
	for i := 0; i < len(s); i++ {
		if s[i] == '|' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('|')
}

func writeList(b *strings.Builder, x *Cell, quote bool) {
	if x == Nil {
		b.WriteString("()")
		return
	}
	if x.Car == Quote {
		if kdr, ok := x.Cdr.(*Cell); ok && kdr != Nil && kdr.Cdr == Nil {
			b.WriteByte('\'') // (quote e) => 'e
			writeTo(b, kdr.Car, quote)
			return
		}
	}
	b.WriteByte('(')
	for {
		writeTo(b, x.Car, quote)
		kdr, ok := x.Cdr.(*Cell)
		if !ok {
			b.WriteString(" . ")
			writeTo(b, x.Cdr, quote)
			break
		}
		if kdr == Nil {
			break
		}
		b.WriteByte(' ')
		x = kdr
	}
	b.WriteByte(')')
}
