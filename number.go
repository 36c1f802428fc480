package scheme

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/nukata/goarith"
)

// Integers are int64 values.  Arithmetic is carried out in goarith's mixed
// mode so that a result which leaves the int64 range is detected rather
// than wrapped around.

func asNumber(n int64) goarith.Number {
	return goarith.AsNumber(big.NewInt(n))
}

// narrow converts a goarith result back into an int64.
func narrow(name string, x goarith.Number) int64 {
	s := fmt.Sprint(x)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic(Errorf(TypeError, "%s: integer overflow: %s", name, s))
	}
	return n
}

// intArg returns x as an integer or panics with a TypeError.
func intArg(name string, x Any) int64 {
	if n, ok := x.(int64); ok {
		return n
	}
	panic(NewEvalError(TypeError, name+": not an integer", x))
}

// foldNumbers folds the integer arguments from left to right with op.
func foldNumbers(name string, acc int64, args *Cell,
	op func(a, b goarith.Number) goarith.Number) int64 {
	x := asNumber(acc)
	for j := args; j != Nil; j = j.Tail() {
		x = op(x, asNumber(intArg(name, j.Car)))
	}
	return narrow(name, x)
}

func add(args *Cell) Any {
	return foldNumbers("+", 0, args, goarith.Number.Add)
}

func mul(args *Cell) Any {
	return foldNumbers("*", 1, args, goarith.Number.Mul)
}

func sub(args *Cell) Any {
	if args == Nil {
		panic(&EvalError{ArityError, "-: at least one argument expected"})
	}
	first := intArg("-", args.Car)
	if args.Cdr == Nil { // (- x) => -x
		return narrow("-", asNumber(0).Sub(asNumber(first)))
	}
	return foldNumbers("-", first, args.Tail(), goarith.Number.Sub)
}

// compareAll returns (a b c d) => fn(a, b) && fn(b, c) && fn(c, d).
func compareAll(name string, args *Cell, fn func(cmp int) bool) Any {
	if args == Nil {
		return true
	}
	x := asNumber(intArg(name, args.Car))
	result := true
	for j := args.Tail(); j != Nil; j = j.Tail() {
		y := asNumber(intArg(name, j.Car))
		if !fn(x.Cmp(y)) {
			result = false // keep going to type-check every argument
		}
		x = y
	}
	return result
}

func quotient(args *Cell) Any {
	a, b := intArg("quotient", args.Car), intArg("quotient", args.Tail().Car)
	if b == 0 {
		panic(&EvalError{TypeError, "quotient: division by zero"})
	}
	q := new(big.Int).Quo(big.NewInt(a), big.NewInt(b))
	return narrow("quotient", goarith.AsNumber(q))
}

func remainder(args *Cell) Any {
	a, b := intArg("remainder", args.Car), intArg("remainder", args.Tail().Car)
	if b == 0 {
		panic(&EvalError{TypeError, "remainder: division by zero"})
	}
	return a % b
}

// lsh shifts a left by b bits; a negative b shifts right.
func lsh(args *Cell) Any {
	a, b := intArg("lsh", args.Car), intArg("lsh", args.Tail().Car)
	if b < 0 {
		if b < -63 {
			b = -63
		}
		return a >> uint(-b)
	}
	if b > 64 {
		b = 64
	}
	z := new(big.Int).Lsh(big.NewInt(a), uint(b))
	return narrow("lsh", goarith.AsNumber(z))
}
