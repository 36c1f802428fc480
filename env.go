package scheme

// An environment is represented as a list of frames, innermost first:
//
//	(((sym1 . val1) (sym2 . val2) ...) ((symA . valA) ...) ...)
//
// Each frame is an association list.  Frames are held in the cars of the
// environment's cells, so an empty frame can receive its first binding in
// place and closures see later definitions.

// NewFrame returns an environment consisting of one empty frame.
func NewFrame() *Cell {
	return &Cell{Nil, Nil}
}

// Extend returns env extended with frame as its innermost scope.
func Extend(frame *Cell, env *Cell) *Cell {
	return &Cell{frame, env}
}

// FrameLookup returns the binding (sym . value) in frame, or Nil.
func FrameLookup(sym *Symbol, frame *Cell) *Cell {
	for j := frame; j != Nil; j = j.Tail() {
		if binding := j.Car.(*Cell); binding.Car == sym {
			return binding
		}
	}
	return Nil
}

// find returns the innermost binding of sym in env, or Nil.
func find(sym *Symbol, env *Cell) *Cell {
	for j := env; j != Nil; j = j.Tail() {
		frame, ok := j.Car.(*Cell)
		if !ok {
			panic(NewEvalError(TypeError, "invalid environment", env))
		}
		if binding := FrameLookup(sym, frame); binding != Nil {
			return binding
		}
	}
	return Nil
}

// LookFor searches the environment for a symbol and returns its binding.
func LookFor(sym *Symbol, env *Cell) *Cell {
	if binding := find(sym, env); binding != Nil {
		return binding
	}
	panic(&EvalError{UnboundVariable, string(*sym)})
}

// DefineVar binds sym to value in env.  An existing binding anywhere in
// env is updated; otherwise the binding is appended to the innermost frame.
func DefineVar(sym *Symbol, value Any, env *Cell) {
	if binding := find(sym, env); binding != Nil {
		binding.Cdr = value
		return
	}
	binding := &Cell{&Cell{sym, value}, Nil}
	frame := env.Car.(*Cell)
	if frame == Nil {
		env.Car = binding
		return
	}
	for frame.Cdr != Nil {
		frame = frame.Tail()
	}
	frame.Cdr = binding
}

// SetVar updates the existing binding of sym in env.
func SetVar(sym *Symbol, value Any, env *Cell) {
	LookFor(sym, env).Cdr = value
}

// BindFormals builds a fresh frame binding formals to args.
// formals may be a symbol (bound to all of args), a proper list of
// symbols, or a dotted list whose last symbol takes the rest of args.
func BindFormals(formals Any, args *Cell) *Cell {
	y := &Cell{Nil, Nil}
	z := y
	for {
		switch s := formals.(type) {
		case *Symbol:
			y.Cdr = &Cell{&Cell{s, args}, Nil}
			return z.Cdr.(*Cell)
		case *Cell:
			if s == Nil {
				if args != Nil {
					panic(NewEvalError(ArityError, "too many arguments", args))
				}
				return z.Cdr.(*Cell)
			}
			if args == Nil {
				panic(NewEvalError(ArityError, "too few arguments", s))
			}
			sym, ok := s.Car.(*Symbol)
			if !ok {
				panic(NewEvalError(TypeError, "not a symbol", s.Car))
			}
			cell := &Cell{&Cell{sym, args.Car}, Nil}
			y.Cdr = cell
			y = cell
			formals, args = s.Cdr, args.Tail()
		default:
			panic(NewEvalError(TypeError, "invalid formals", formals))
		}
	}
}

// checkFormals panics unless formals is a valid parameter list.
func checkFormals(formals Any) {
	for {
		switch s := formals.(type) {
		case *Symbol:
			return
		case *Cell:
			if s == Nil {
				return
			}
			if _, ok := s.Car.(*Symbol); !ok {
				panic(NewEvalError(TypeError, "not a symbol", s.Car))
			}
			formals = s.Cdr
		default:
			panic(NewEvalError(TypeError, "invalid formals", formals))
		}
	}
}
