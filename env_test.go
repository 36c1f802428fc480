package scheme

import (
	"errors"
	"testing"
)

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var ex *EvalError
	if !errors.As(err, &ex) {
		t.Fatalf("want %v, got %v", kind, err)
	}
	if ex.Kind != kind {
		t.Fatalf("want %v, got %v", kind, ex)
	}
}

func TestDefineAppendsToInnermostFrame(t *testing.T) {
	a, b, c := Intern("a"), Intern("b"), Intern("c")
	env := NewFrame()
	DefineVar(a, int64(1), env)
	if got := Stringify(env, true); got != "(((a . 1)))" {
		t.Fatalf("got %s", got)
	}
	DefineVar(b, int64(2), env)
	DefineVar(c, int64(3), env)
	if got := Stringify(env.Car, true); got != "((a . 1) (b . 2) (c . 3))" {
		t.Fatalf("got %s", got)
	}

	// Redefinition updates the binding in place.
	binding := LookFor(b, env)
	DefineVar(b, int64(20), env)
	if LookFor(b, env) != binding || binding.Cdr != int64(20) {
		t.Fatalf("redefinition did not reuse the binding: %s", Stringify(env, true))
	}
	if got := Stringify(env.Car, true); got != "((a . 1) (b . 20) (c . 3))" {
		t.Fatalf("got %s", got)
	}
}

func TestDefineUpdatesOuterBinding(t *testing.T) {
	x, y := Intern("x"), Intern("y")
	global := NewFrame()
	DefineVar(x, int64(1), global)
	inner := Extend(Nil, global)
	DefineVar(x, int64(2), inner)
	DefineVar(y, int64(3), inner)
	if got := Stringify(inner, true); got != "(((y . 3)) ((x . 2)))" {
		t.Fatalf("got %s", got)
	}
}

func TestLookupInnermostFirst(t *testing.T) {
	x := Intern("x")
	outer := Extend(List(&Cell{x, int64(1)}), Nil)
	inner := Extend(List(&Cell{x, int64(2)}), outer)
	if v := LookFor(x, inner).Cdr; v != int64(2) {
		t.Errorf("got %v", v)
	}
	if FrameLookup(x, outer.Car.(*Cell)).Cdr != int64(1) {
		t.Error("frame lookup failed")
	}
	if FrameLookup(Intern("nope"), outer.Car.(*Cell)) != Nil {
		t.Error("frame lookup of an unbound symbol")
	}
}

func TestUnboundAndSet(t *testing.T) {
	env := NewFrame()
	err := guard(func() { LookFor(Intern("undefined-thing"), env) })
	wantKind(t, err, UnboundVariable)
	if err.Error() != "unbound variable: undefined-thing" {
		t.Errorf("got %q", err.Error())
	}

	err = guard(func() { SetVar(Intern("undefined-thing"), int64(1), env) })
	wantKind(t, err, UnboundVariable)

	DefineVar(Intern("v"), int64(1), env)
	SetVar(Intern("v"), int64(5), env)
	if LookFor(Intern("v"), env).Cdr != int64(5) {
		t.Error("set did not update the binding")
	}
}

func TestBindFormals(t *testing.T) {
	a, b, rest := Intern("a"), Intern("b"), Intern("rest")
	args := List(int64(1), int64(2), int64(3))
	tests := []struct {
		formals Any
		want    string
	}{
		{rest, "((rest 1 2 3))"},
		{List(a, b, rest), "((a . 1) (b . 2) (rest . 3))"},
		{&Cell{a, rest}, "((a . 1) (rest 2 3))"},
		{&Cell{a, &Cell{b, rest}}, "((a . 1) (b . 2) (rest 3))"},
	}
	for _, tt := range tests {
		if got := Stringify(BindFormals(tt.formals, args), true); got != tt.want {
			t.Errorf("bind %s: got %s, want %s",
				Stringify(tt.formals, true), got, tt.want)
		}
	}
	if got := BindFormals(&Cell{a, &Cell{b, &Cell{Intern("c"), rest}}}, args); Stringify(got, true) != "((a . 1) (b . 2) (c . 3) (rest))" {
		t.Errorf("got %s", Stringify(got, true))
	}
	if BindFormals(Nil, Nil) != Nil {
		t.Error("empty formals should give an empty frame")
	}

	wantKind(t, guard(func() { BindFormals(List(a), args) }), ArityError)
	wantKind(t, guard(func() { BindFormals(List(a, b, rest, Intern("d")), args) }), ArityError)
	wantKind(t, guard(func() { BindFormals(List(int64(1)), List(int64(1))) }), TypeError)
}
