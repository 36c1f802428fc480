package scheme

import "fmt"

// Step represents Scheme's step in a continuation.
type Step struct {
	Op  int
	Val Any
}

// Continuation represents Scheme's continuation as a stack.
type Continuation []Step

// MaxDepth is the maximum number of steps a continuation may hold.
// Only non-tail calls and pending sub-forms consume steps.
var MaxDepth = 1 << 22

// Push appends a step to the tail of the continuation.
func (k *Continuation) Push(op int, value Any) {
	if len(*k) >= MaxDepth {
		panic(Errorf(DepthError, "continuation stack overflow (%d steps)",
			len(*k)))
	}
	*k = append(*k, Step{op, value})
}

// Pop pops a step from the tail of the continuation.
func (k *Continuation) Pop() (int, Any) {
	n := len(*k) - 1
	step := (*k)[n]
	*k = (*k)[:n]
	return step.Op, step.Val
}

//----------------------------------------------------------------------

// Continuation operators
const (
	IfOp = iota
	BeginOp
	DefineOp
	SetQOp
	AndOp
	OrOp
	ApplyOp
	PushArgsOp
	SetNewEnvOp
	RestoreEnvOp
)

var OpStr = [...]string{
	"If", "Begin", "Define", "SetQ", "And", "Or", "Apply", "PushArgs",
	"SetNewEnv", "RestoreEnv",
}

// pendingArgs holds a call whose arguments are being evaluated.
type pendingArgs struct {
	fun        Any
	rest       *Cell // argument expressions not evaluated yet
	head, tail *Cell // evaluated arguments
}

func (p *pendingArgs) add(value Any) {
	cell := &Cell{value, Nil}
	if p.head == Nil {
		p.head = cell
	} else {
		p.tail.Cdr = cell
	}
	p.tail = cell
}

// ApplyProc and EvalProc are the values of apply and eval.
// They are recognized by the evaluator so that their calls stay in
// tail position.
var (
	ApplyProc = &Primitive{Name: "apply", MinArgs: 2, MaxArgs: -1}
	EvalProc  = &Primitive{Name: "eval", MinArgs: 2, MaxArgs: 2}
)

func checkLength(name string, x *Cell, min, max int) {
	n := x.Length()
	if n < min || (max >= 0 && n > max) {
		panic(NewEvalError(ArityError, "wrong # of args for "+name,
			&Cell{Intern(name), x}))
	}
}

// Evaluate evaluates an expresssion in an environment.
// It panics with an *EvalError on failure.
func Evaluate(exp Any, env *Cell) Any {
	k := make(Continuation, 0, 100)
	for {
	Loop1:
		for {
			switch x := exp.(type) {
			case *Cell:
				if x == Nil {
					panic(&EvalError{TypeError, "cannot evaluate ()"})
				}
				kar, kdr := x.Car, x.Tail()
				switch kar {
				case Quote: // (quote e)
					checkLength("quote", kdr, 1, 1)
					exp = kdr.Car
					break Loop1
				case If: // (if e1 e2 e3) or (if e1 e2)
					checkLength("if", kdr, 2, 3)
					exp = kdr.Car
					k.Push(IfOp, kdr.Cdr)
				case Begin, Else: // (begin e...)
					if kdr == Nil {
						exp = Ok
						break Loop1
					}
					exp = kdr.Car
					if kdr.Tail() != Nil {
						k.Push(BeginOp, kdr.Cdr)
					}
				case Lambda: // (lambda v e...)
					checkLength("lambda", kdr, 2, -1)
					checkFormals(kdr.Car)
					exp = &Closure{kdr.Car, kdr.Tail(), env}
					break Loop1
				case Define:
					switch v := kdr.Car.(type) {
					case *Symbol: // (define var e)
						checkLength("define", kdr, 2, 2)
						exp = kdr.Tail().Car
						k.Push(DefineOp, v)
					case *Cell: // (define (f v...) e...)
						checkLength("define", kdr, 2, -1)
						if v == Nil {
							panic(NewEvalError(TypeError, "not definable", v))
						}
						name, ok := v.Car.(*Symbol)
						if !ok {
							panic(NewEvalError(TypeError, "not definable", v.Car))
						}
						checkFormals(v.Cdr)
						DefineVar(name, &Closure{v.Cdr, kdr.Tail(), env}, env)
						exp = Ok
						break Loop1
					default:
						panic(NewEvalError(TypeError, "not definable", kdr.Car))
					}
				case SetQ: // (set! var e)
					checkLength("set!", kdr, 2, 2)
					v, ok := kdr.Car.(*Symbol)
					if !ok {
						panic(NewEvalError(TypeError, "not a variable", kdr.Car))
					}
					exp = kdr.Tail().Car
					k.Push(SetQOp, v)
				case Cond: // (cond clause...)
					exp = expandCond(kdr)
				case Let: // (let ((v e)...) e...)
					exp = expandLet(kdr)
				case And: // (and e...)
					if kdr == Nil {
						exp = true
						break Loop1
					}
					exp = kdr.Car
					if kdr.Tail() != Nil {
						k.Push(AndOp, kdr.Cdr)
					}
				case Or: // (or e...)
					if kdr == Nil {
						exp = false
						break Loop1
					}
					exp = kdr.Car
					if kdr.Tail() != Nil {
						k.Push(OrOp, kdr.Cdr)
					}
				case Apply: // (apply fun arg... list)
					exp = ApplyProc
					k.Push(ApplyOp, kdr)
					break Loop1
				case Eval: // (eval e env)
					exp = EvalProc
					k.Push(ApplyOp, kdr)
					break Loop1
				default: // (fun arg...)
					exp = kar
					k.Push(ApplyOp, kdr)
				}
			case *Symbol:
				exp = LookFor(x, env).Cdr
				break Loop1
			default: // as a number, #t, #f etc.
				break Loop1
			}
		}
	Loop2:
		for {
			if len(k) == 0 {
				return exp
			}
			op, x := k.Pop()
			switch op {
			case IfOp: // x = (e2 e3) or (e2)
				j := x.(*Cell)
				if !IsTrue(exp) {
					if j.Cdr == Nil {
						exp = false
					} else {
						exp = j.Tail().Car // e3
						break Loop2
					}
				} else {
					exp = j.Car // e2
					break Loop2
				}
			case BeginOp: //  x = (e...)
				j := x.(*Cell)
				if j.Tail() != Nil { // unless tail call...
					k.Push(BeginOp, j.Cdr)
				}
				exp = j.Car
				break Loop2
			case DefineOp: // x = var
				DefineVar(x.(*Symbol), exp, env)
				exp = Ok
			case SetQOp: // x = var
				SetVar(x.(*Symbol), exp, env)
				exp = Ok
			case AndOp: // x = (e...)
				if IsTrue(exp) {
					j := x.(*Cell)
					if j.Tail() != Nil {
						k.Push(AndOp, j.Cdr)
					}
					exp = j.Car
					break Loop2
				}
			case OrOp: // x = (e...)
				if !IsTrue(exp) {
					j := x.(*Cell)
					if j.Tail() != Nil {
						k.Push(OrOp, j.Cdr)
					}
					exp = j.Car
					break Loop2
				}
			case ApplyOp: // exp = fun; x = (arg...)
				j := x.(*Cell)
				if j == Nil {
					exp = applyFunction(exp, Nil, &k, env)
				} else {
					k.Push(PushArgsOp, &pendingArgs{exp, j.Tail(), Nil, Nil})
					exp = j.Car
					break Loop2
				}
			case PushArgsOp: // exp = evaluated arg; x = *pendingArgs
				p := x.(*pendingArgs)
				p.add(exp)
				if p.rest == Nil {
					exp = applyFunction(p.fun, p.head, &k, env)
				} else {
					exp = p.rest.Car
					p.rest = p.rest.Tail()
					k.Push(PushArgsOp, p)
					break Loop2
				}
			case SetNewEnvOp, RestoreEnvOp: // x = environment
				env = x.(*Cell)
			default:
				panic(fmt.Sprintf("bad op %s for %s", OpStr[op],
					Stringify(exp, true)))
			}
		} // end Loop2
	}
}

// applyFunction applies a function to arguments with a continuation.
// A closure is applied by pushing its body onto the continuation.
func applyFunction(fun Any, arg *Cell, k *Continuation, env *Cell) Any {
	for fun == ApplyProc {
		checkLength("apply", arg, 2, -1)
		fun, arg = arg.Car, spreadArgs(arg.Tail())
	}
	switch fn := fun.(type) {
	case *Primitive:
		if fn == EvalProc { // (eval e env)
			checkLength("eval", arg, 2, 2)
			newEnv, ok := arg.Tail().Car.(*Cell)
			if !ok || newEnv == Nil {
				panic(NewEvalError(TypeError, "eval: not an environment",
					arg.Tail().Car))
			}
			pushCall(k, env, &Cell{arg.Car, Nil}, newEnv)
			return Ok
		}
		return fn.Call(arg)
	case *Closure:
		pushCall(k, env, fn.Body, Extend(BindFormals(fn.Params, arg), fn.Env))
		return Ok
	}
	panic(NewEvalError(NotProcedure, "not a procedure", fun))
}

// pushCall arranges body to be evaluated in newEnv.
func pushCall(k *Continuation, env *Cell, body *Cell, newEnv *Cell) {
	n := len(*k) - 1
	if !(n >= 0 && (*k)[n].Op == RestoreEnvOp) { // unless tail call...
		k.Push(RestoreEnvOp, env)
	}
	k.Push(BeginOp, body)
	k.Push(SetNewEnvOp, newEnv)
}

// spreadArgs turns (a1 ... an list) into a fresh list of a1 ... an
// followed by the elements of list.
func spreadArgs(args *Cell) *Cell {
	if args.Cdr == Nil {
		list, ok := args.Car.(*Cell)
		if !ok || !IsProperList(list) {
			panic(NewEvalError(TypeError, "apply: not a proper list", args.Car))
		}
		var elems []Any
		for j := list; j != Nil; j = j.Tail() {
			elems = append(elems, j.Car)
		}
		return List(elems...)
	}
	return &Cell{args.Car, spreadArgs(args.Tail())}
}

//----------------------------------------------------------------------

// expandCond rewrites (cond (test e...) clause...) into
// (if test (begin e...) (cond clause...)) one clause at a time.
func expandCond(clauses *Cell) Any {
	if clauses == Nil {
		return false
	}
	clause, ok := clauses.Car.(*Cell)
	if !ok || clause == Nil {
		panic(NewEvalError(TypeError, "bad cond clause", clauses.Car))
	}
	rest := &Cell{Cond, clauses.Cdr}
	body := clause.Tail()
	if clause.Car == Else {
		return &Cell{Begin, body}
	}
	if body == Nil { // (cond (test) ...) yields the value of test
		return List(Or, clause.Car, rest)
	}
	return List(If, clause.Car, &Cell{Begin, body}, rest)
}

// expandLet rewrites (let ((v e)...) body...) into
// ((lambda (v...) body...) e...).
func expandLet(kdr *Cell) Any {
	checkLength("let", kdr, 2, -1)
	bindings, ok := kdr.Car.(*Cell)
	if !ok {
		panic(NewEvalError(TypeError, "let: bad bindings", kdr.Car))
	}
	var vars, exps []Any
	for j := bindings; j != Nil; j = j.Tail() {
		b, ok := j.Car.(*Cell)
		if !ok || b == Nil || b.Length() != 2 {
			panic(NewEvalError(TypeError, "let: bad binding", j.Car))
		}
		if _, ok := b.Car.(*Symbol); !ok {
			panic(NewEvalError(TypeError, "let: not a symbol", b.Car))
		}
		vars = append(vars, b.Car)
		exps = append(exps, b.Tail().Car)
	}
	fun := &Cell{Lambda, &Cell{List(vars...), kdr.Tail()}}
	return &Cell{fun, List(exps...)}
}

//----------------------------------------------------------------------

// SafeEval evaluates exp in env and returns the result and nil.
// If an error happens, it returns nil and the error.
func SafeEval(exp Any, env *Cell) (result Any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, asError(r)
		}
	}()
	return Evaluate(exp, env), nil
}
