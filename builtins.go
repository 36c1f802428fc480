package scheme

import (
	"strconv"
	"strings"
)

func pairArg(name string, x Any) *Cell {
	if j, ok := x.(*Cell); ok && j != Nil {
		return j
	}
	panic(NewEvalError(TypeError, name+": not a pair", x))
}

func stringArg(name string, x Any) *String {
	if s, ok := x.(*String); ok {
		return s
	}
	panic(NewEvalError(TypeError, name+": not a string", x))
}

func charArg(name string, x Any) Char {
	if c, ok := x.(Char); ok {
		return c
	}
	panic(NewEvalError(TypeError, name+": not a character", x))
}

// second returns the cadr of x.
func second(x *Cell) Any {
	return x.Tail().Car
}

// predicate builds a one-argument type predicate.
func predicate(name string, test func(Any) bool) *Primitive {
	return &Primitive{name, 1, 1, func(x *Cell) Any {
		return test(x.Car)
	}}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Any) bool {
	for {
		if a == b {
			return true
		}
		switch x := a.(type) {
		case *String:
			y, ok := b.(*String)
			return ok && string(x.Bytes) == string(y.Bytes)
		case *Cell:
			y, ok := b.(*Cell)
			if !ok || x == Nil || y == Nil || !Equal(x.Car, y.Car) {
				return false
			}
			a, b = x.Cdr, y.Cdr
		default:
			return false
		}
	}
}

// inputPort returns the optional port argument of x or the default one.
func (in *Interp) inputPort(name string, x *Cell) *InputPort {
	if x == Nil {
		return in.Stdin
	}
	if p, ok := x.Car.(*InputPort); ok {
		return p
	}
	panic(NewEvalError(TypeError, name+": not an input port", x.Car))
}

// outputPort returns the optional port argument of x or the default one.
func (in *Interp) outputPort(name string, x *Cell) *OutputPort {
	if x == Nil {
		return in.Stdout
	}
	if p, ok := x.Car.(*OutputPort); ok {
		return p
	}
	panic(NewEvalError(TypeError, name+": not an output port", x.Car))
}

// builtins returns the primitive procedures of the initial environment.
func (in *Interp) builtins() []*Primitive {
	return []*Primitive{
		predicate("number?", func(x Any) bool { _, ok := x.(int64); return ok }),
		predicate("boolean?", func(x Any) bool { _, ok := x.(bool); return ok }),
		predicate("char?", func(x Any) bool { _, ok := x.(Char); return ok }),
		predicate("string?", func(x Any) bool { _, ok := x.(*String); return ok }),
		predicate("symbol?", func(x Any) bool { _, ok := x.(*Symbol); return ok }),
		predicate("pair?", func(x Any) bool { j, ok := x.(*Cell); return ok && j != Nil }),
		predicate("null?", func(x Any) bool { return x == Nil }),
		predicate("procedure?", IsProcedure),
		predicate("eof-object?", func(x Any) bool { return x == EOF }),
		predicate("input-port?", func(x Any) bool { _, ok := x.(*InputPort); return ok }),
		predicate("output-port?", func(x Any) bool { _, ok := x.(*OutputPort); return ok }),
		predicate("not", func(x Any) bool { return !IsTrue(x) }),

		{"+", 0, -1, add},
		{"-", 1, -1, sub},
		{"*", 0, -1, mul},
		{"quotient", 2, 2, quotient},
		{"remainder", 2, 2, remainder},
		{"lsh", 2, 2, lsh},
		{"=", 0, -1, func(x *Cell) Any {
			return compareAll("=", x, func(c int) bool { return c == 0 })
		}},
		{"<", 0, -1, func(x *Cell) Any {
			return compareAll("<", x, func(c int) bool { return c < 0 })
		}},
		{"<=", 0, -1, func(x *Cell) Any {
			return compareAll("<=", x, func(c int) bool { return c <= 0 })
		}},
		{">", 0, -1, func(x *Cell) Any {
			return compareAll(">", x, func(c int) bool { return c > 0 })
		}},
		{">=", 0, -1, func(x *Cell) Any {
			return compareAll(">=", x, func(c int) bool { return c >= 0 })
		}},

		{"car", 1, 1, func(x *Cell) Any { return pairArg("car", x.Car).Car }},
		{"cdr", 1, 1, func(x *Cell) Any { return pairArg("cdr", x.Car).Cdr }},
		{"cons", 2, 2, func(x *Cell) Any { return &Cell{x.Car, second(x)} }},
		{"set-car!", 2, 2, func(x *Cell) Any {
			pairArg("set-car!", x.Car).Car = second(x)
			return Ok
		}},
		{"set-cdr!", 2, 2, func(x *Cell) Any {
			pairArg("set-cdr!", x.Car).Cdr = second(x)
			return Ok
		}},
		{"list", 0, -1, func(x *Cell) Any { return x }},
		{"length", 1, 1, func(x *Cell) Any {
			if !IsProperList(x.Car) {
				panic(NewEvalError(TypeError, "length: not a proper list", x.Car))
			}
			return int64(x.Car.(*Cell).Length())
		}},
		{"eq?", 2, 2, func(x *Cell) Any { return x.Car == second(x) }},
		{"eqv?", 2, 2, func(x *Cell) Any { return x.Car == second(x) }},
		{"equal?", 2, 2, func(x *Cell) Any { return Equal(x.Car, second(x)) }},

		{"number->string", 1, 1, func(x *Cell) Any {
			return NewString(strconv.FormatInt(intArg("number->string", x.Car), 10))
		}},
		{"string->number", 1, 1, func(x *Cell) Any {
			s := stringArg("string->number", x.Car).String()
			if !isNumeral(s) {
				return false
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return false
			}
			return n
		}},
		{"string->symbol", 1, 1, func(x *Cell) Any {
			return Intern(stringArg("string->symbol", x.Car).String())
		}},
		{"symbol->string", 1, 1, func(x *Cell) Any {
			if sym, ok := x.Car.(*Symbol); ok {
				return NewString(string(*sym))
			}
			panic(NewEvalError(TypeError, "symbol->string: not a symbol", x.Car))
		}},
		{"string-length", 1, 1, func(x *Cell) Any {
			return int64(len(stringArg("string-length", x.Car).Bytes))
		}},
		{"string-append", 0, -1, func(x *Cell) Any {
			var b []byte
			for j := x; j != Nil; j = j.Tail() {
				b = append(b, stringArg("string-append", j.Car).Bytes...)
			}
			return &String{b}
		}},

		{"read", 0, 1, func(x *Cell) Any {
			return Read(in.inputPort("read", x))
		}},
		{"read-char", 0, 1, func(x *Cell) Any {
			if c, ok := in.inputPort("read-char", x).ReadChar(); ok {
				return Char(c)
			}
			return EOF
		}},
		{"peek-char", 0, 1, func(x *Cell) Any {
			if c, ok := in.inputPort("peek-char", x).PeekChar(); ok {
				return Char(c)
			}
			return EOF
		}},
		{"write", 1, 2, func(x *Cell) Any {
			in.outputPort("write", x.Tail()).WriteString(Stringify(x.Car, true))
			return Ok
		}},
		{"display", 1, 2, func(x *Cell) Any {
			in.outputPort("display", x.Tail()).WriteString(Stringify(x.Car, false))
			return Ok
		}},
		{"write-char", 1, 2, func(x *Cell) Any {
			c := charArg("write-char", x.Car)
			in.outputPort("write-char", x.Tail()).WriteString(string([]byte{byte(c)}))
			return Ok
		}},
		{"newline", 0, 1, func(x *Cell) Any {
			in.outputPort("newline", x).WriteString("\n")
			return Ok
		}},
		{"open-input-file", 1, 1, func(x *Cell) Any {
			return OpenInputFile(stringArg("open-input-file", x.Car).String())
		}},
		{"open-output-file", 1, 1, func(x *Cell) Any {
			return OpenOutputFile(stringArg("open-output-file", x.Car).String())
		}},
		{"close-port", 1, 1, func(x *Cell) Any {
			switch p := x.Car.(type) {
			case *InputPort:
				p.Close()
			case *OutputPort:
				p.Close()
			default:
				panic(NewEvalError(TypeError, "close-port: not a port", x.Car))
			}
			return Ok
		}},
		{"eof-object", 0, 0, func(x *Cell) Any { return EOF }},

		{"load", 1, 1, func(x *Cell) Any {
			return in.load(stringArg("load", x.Car).String())
		}},
		{"interaction-environment", 0, 0, func(x *Cell) Any { return in.Global }},
		{"nullenv", 0, 0, func(x *Cell) Any { return NewFrame() }},
		{"environment", 0, 0, func(x *Cell) Any { return in.newEnvironment() }},
		EvalProc,
		ApplyProc,

		{"error", 0, -1, func(x *Cell) Any {
			ss := make([]string, 0, 4)
			for j := x; j != Nil; j = j.Tail() {
				if s, ok := j.Car.(*String); ok {
					ss = append(ss, s.String())
				} else {
					ss = append(ss, Stringify(j.Car, true))
				}
			}
			panic(&EvalError{UserError, strings.Join(ss, " ")})
		}},
		{"exit", 0, 1, func(x *Cell) Any {
			code := 0
			if x != Nil {
				code = int(intArg("exit", x.Car))
			}
			panic(&ExitError{code})
		}},
	}
}

// newEnvironment returns a fresh environment holding the built-in bindings.
func (in *Interp) newEnvironment() *Cell {
	env := NewFrame()
	for _, p := range in.prims {
		DefineVar(Intern(p.Name), p, env)
	}
	return env
}
