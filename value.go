// A mini Scheme in Go 1.21 by SUZUKI Hisao
package scheme

type Any = interface{}

//----------------------------------------------------------------------

// Cell represents a cons-cell.
type Cell struct {
	Car Any
	Cdr Any
}

// Nil represents the empty list ().
var Nil *Cell = nil

func (j *Cell) String() string {
	return Stringify(j, true)
}

// List builds a proper list (e1 ... eN).
func List(e ...Any) *Cell {
	result := Nil
	for i := len(e) - 1; i >= 0; i-- {
		result = &Cell{e[i], result}
	}
	return result
}

// Tail returns the cdr of j as *Cell, panicking with a TypeError
// if j is a dotted list at this point.
func (j *Cell) Tail() *Cell {
	if kdr, ok := j.Cdr.(*Cell); ok {
		return kdr
	}
	panic(NewEvalError(TypeError, "improper list", j))
}

// Length returns the number of cells in the proper list j.
func (j *Cell) Length() int {
	n := 0
	for j != Nil {
		n++
		j = j.Tail()
	}
	return n
}

// IsProperList reports whether x is a chain of cells ending in ().
func IsProperList(x Any) bool {
	for {
		j, ok := x.(*Cell)
		if !ok {
			return false
		}
		if j == Nil {
			return true
		}
		x = j.Cdr
	}
}

//----------------------------------------------------------------------

// Char represents a character, which is a single byte.
type Char byte

// String represents a mutable string.
// Each &String{...} has its own identity.
type String struct {
	Bytes []byte
}

// NewString allocates a fresh string holding a copy of s.
func NewString(s string) *String {
	return &String{[]byte(s)}
}

func (s *String) String() string {
	return string(s.Bytes)
}

type eofObject struct{}

func (*eofObject) String() string { return "#<eof>" }

// EOF is the end-of-file object.
var EOF Any = &eofObject{}

// Ok is the result of forms evaluated only for effect.
var Ok = Intern("ok")

//----------------------------------------------------------------------

// Primitive represents a built-in procedure.
// Fn receives arguments already counted against MinArgs and MaxArgs;
// MaxArgs < 0 means any number.
type Primitive struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      func(args *Cell) Any
}

// Call checks the number of args and calls p.Fn.
func (p *Primitive) Call(args *Cell) Any {
	n := args.Length()
	if n < p.MinArgs || (p.MaxArgs >= 0 && n > p.MaxArgs) {
		panic(Errorf(ArityError, "%s: wrong number of arguments: %d", p.Name, n))
	}
	return p.Fn(args)
}

// Closure represents a lambda expression with its environment.
// Params is a *Symbol, a proper list of symbols or a dotted list of them.
type Closure struct {
	Params Any
	Body   *Cell
	Env    *Cell
}

// IsProcedure reports whether x can be applied.
func IsProcedure(x Any) bool {
	switch x.(type) {
	case *Primitive, *Closure:
		return true
	}
	return false
}

// IsTrue reports whether x counts as true; only #f is false.
func IsTrue(x Any) bool {
	return x != false
}
