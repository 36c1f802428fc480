package scheme

import (
	"bytes"
	"strings"
	"testing"
)

func newTestInterp() (*Interp, *bytes.Buffer) {
	var out bytes.Buffer
	return NewInterp(strings.NewReader(""), &out, &out), &out
}

// wantWritten evaluates src and checks the written form of the last result.
func wantWritten(t *testing.T, src, want string) {
	t.Helper()
	in, _ := newTestInterp()
	x, err := in.EvalString(src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	if got := Stringify(x, true); got != want {
		t.Fatalf("eval %q: got %s, want %s", src, got, want)
	}
}

func wantError(t *testing.T, src string, kind ErrorKind) {
	t.Helper()
	in, _ := newTestInterp()
	_, err := in.EvalString(src)
	if err == nil {
		t.Fatalf("eval %q: want %v", src, kind)
	}
	wantKind(t, err, kind)
}

func TestScenarios(t *testing.T) {
	tests := []struct{ src, want string }{
		{"(+ 1 2 3)", "6"},
		{"(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))", "ok"},
		{"(define (fact n) (if (= n 0) 1 (* n (fact (- n 1))))) (fact 5)", "120"},
		{"(define (loop n) (if (= n 0) 'done (loop (- n 1)))) (loop 1000000)", "done"},
		{"(let ((x 10) (y 32)) (+ x y))", "42"},
		{"((lambda args (length args)) 'a 'b 'c)", "3"},
		{"(define c (let ((n 0)) (lambda () (set! n (+ n 1)) n))) (c) (c) (c)", "3"},
		{"(apply + '(1 2 3 4))", "10"},
		{"(eval '(+ 1 2) (interaction-environment))", "3"},
		{"(cond ((= 1 2) 'no) ((= 1 1) 'yes) (else 'else))", "yes"},
		{"'(a . (b . (c . ())))", "(a b c)"},
	}
	for _, tt := range tests {
		wantWritten(t, tt.src, tt.want)
	}
}

func TestSelfEvaluating(t *testing.T) {
	wantWritten(t, "42", "42")
	wantWritten(t, "#f", "#f")
	wantWritten(t, `#\x`, `#\x`)
	wantWritten(t, `"str"`, `"str"`)
	wantWritten(t, "(eof-object)", "#<eof>")
	wantError(t, "()", TypeError)
}

func TestTruthiness(t *testing.T) {
	wantWritten(t, "(if 0 'a 'b)", "a")
	wantWritten(t, "(if '() 'a 'b)", "a")
	wantWritten(t, `(if "" 'a 'b)`, "a")
	wantWritten(t, "(if #f 'a 'b)", "b")
	wantWritten(t, "(if #f 'a)", "#f")
}

func TestSymbolIdentity(t *testing.T) {
	wantWritten(t, "(eq? 'x 'x)", "#t")
	wantWritten(t, `(eq? 'abc (string->symbol "abc"))`, "#t")
	wantWritten(t, "(eq? 'x 'y)", "#f")
	wantWritten(t, `(eq? "x" "x")`, "#f")
	wantWritten(t, `(define s "x") (eq? s s)`, "#t")
}

func TestQuoteDefineSet(t *testing.T) {
	wantWritten(t, "(quote (1 . 2))", "(1 . 2)")
	wantWritten(t, "(define x 1) (set! x 2)", "ok")
	wantWritten(t, "(define x 1) (set! x (+ x 1)) x", "2")
	wantWritten(t, "(define (f . xs) xs) (f 1 2)", "(1 2)")
	wantWritten(t, "(define (f a . xs) (list a xs)) (f 1 2 3)", "(1 (2 3))")
	wantWritten(t, "(define x 1) (define x 2) x", "2")

	wantError(t, "(quote)", ArityError)
	wantError(t, "(quote 1 2)", ArityError)
	wantError(t, "(define x)", ArityError)
	wantError(t, "(define x 1 2)", ArityError)
	wantError(t, "(define 1 2)", TypeError)
	wantError(t, "(set! y 1)", UnboundVariable)
	wantError(t, "(set! y)", ArityError)
	wantError(t, "(if)", ArityError)
	wantError(t, "(if 1 2 3 4)", ArityError)
	wantError(t, "(lambda (x))", ArityError)
	wantError(t, "(lambda (1) 1)", TypeError)
	wantError(t, "undefined-variable", UnboundVariable)
}

func TestLexicalScope(t *testing.T) {
	wantWritten(t, `
(define x 'global)
(define (make) (let ((x 'captured)) (lambda () x)))
(define f (make))
(define (call-it x) (f))
(call-it 'call-site)`, "captured")
	wantWritten(t, `
(define (counter)
  (let ((n 0))
    (lambda () (set! n (+ n 1)) n)))
(define a (counter))
(define b (counter))
(a) (a) (b)
(list (a) (b))`, "(3 2)")
	// Definitions made later in a captured frame are visible.
	wantWritten(t, "(define (g) later) (define later 7) (g)", "7")
}

func TestBeginCondLetAndOr(t *testing.T) {
	wantWritten(t, "(begin 1 2 3)", "3")
	wantWritten(t, "(begin)", "ok")
	wantWritten(t, "(cond (#f 1))", "#f")
	wantWritten(t, "(cond ((+ 1 1)) (else 3))", "2")
	wantWritten(t, "(cond (#f 1) (else 2 3))", "3")
	wantWritten(t, "(cond ((= 1 1) 'a 'b))", "b")
	wantWritten(t, "(let () 5)", "5")
	wantWritten(t, "(let ((x 1)) (let ((x 2) (y x)) (list x y)))", "(2 1)")
	wantWritten(t, "(and)", "#t")
	wantWritten(t, "(and 1 2 3)", "3")
	wantWritten(t, "(and 1 #f (car '()))", "#f")
	wantWritten(t, "(or)", "#f")
	wantWritten(t, "(or #f 2 (car '()))", "2")
	wantWritten(t, "(or #f #f)", "#f")

	wantError(t, "(cond x)", TypeError)
	wantError(t, "(let ((x)) x)", TypeError)
	wantError(t, "(let ((1 2)) 1)", TypeError)
	wantError(t, "(let ((x 1)))", ArityError)
}

func TestApplyAndEval(t *testing.T) {
	wantWritten(t, "(apply + 1 2 '(3 4))", "10")
	wantWritten(t, "(apply + '())", "0")
	wantWritten(t, "(apply list 1 2 '())", "(1 2)")
	wantWritten(t, "(apply (lambda (a . b) b) 1 '(2 3))", "(2 3)")
	wantWritten(t, "(define ap apply) (ap * '(2 3))", "6")
	wantWritten(t, "(apply apply (list + '(1 2)))", "3")
	wantWritten(t, "(define l (list 1 2)) (set-car! (apply list l) 9) l", "(1 2)")
	wantWritten(t, "(define l (list 1 2)) (set-car! (apply (lambda a a) l) 9) l", "(1 2)")
	wantWritten(t, "(define l (list 2)) (set-car! (apply list 1 l) 9) l", "(2)")
	wantWritten(t, "(eval 'x (let ((e (nullenv))) (eval '(define x 5) e) e))", "5")
	wantWritten(t, "(eval '(car '(1 2)) (environment))", "1")
	wantWritten(t, "(define e (environment)) (eval '(define car cdr) e) (car '(1 2))", "1")

	wantError(t, "(apply +)", ArityError)
	wantError(t, "(apply + 1)", TypeError)
	wantError(t, "(apply + '(1 . 2))", TypeError)
	wantError(t, "(eval '(+ 1 2))", ArityError)
	wantError(t, "(eval '(+ 1 2) 3)", TypeError)
	wantError(t, "(eval '(+ 1 2) (nullenv))", UnboundVariable)
}

func TestApplication(t *testing.T) {
	wantWritten(t, "((lambda (x y) (+ x y)) 1 2)", "3")
	wantWritten(t, "((lambda () 1))", "1")
	wantWritten(t, "((if #t car cdr) '(1 2))", "1")

	wantError(t, "(1 2)", NotProcedure)
	wantError(t, `("f")`, NotProcedure)
	wantError(t, "((lambda (x) x))", ArityError)
	wantError(t, "((lambda (x) x) 1 2)", ArityError)
	wantError(t, "(car 1 2)", ArityError)
}

// Arguments are evaluated from left to right.
func TestEvaluationOrder(t *testing.T) {
	in, out := newTestInterp()
	_, err := in.EvalString(`(list (display 1) (display 2) (display 3))`)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "123" {
		t.Errorf("got %q", out.String())
	}
}

// Each loop below runs in a bounded continuation.
func TestProperTailCalls(t *testing.T) {
	saved := MaxDepth
	MaxDepth = 64
	defer func() { MaxDepth = saved }()

	loops := map[string]string{
		"if": "(define (f n) (if (= n 0) 'done (f (- n 1))))",
		"begin": "(define (f n) (begin (set! n n) (if (= n 0) 'done " +
			"(begin 1 (f (- n 1))))))",
		"cond": "(define (f n) (cond ((= n 0) 'done) (else (f (- n 1)))))",
		"let":  "(define (f n) (let ((m (- n 1))) (if (< m 0) 'done (f m))))",
		"and":  "(define (f n) (if (= n 0) 'done (and #t (f (- n 1)))))",
		"or":   "(define (f n) (if (= n 0) 'done (or #f (f (- n 1)))))",
		"apply": "(define (f n) (if (= n 0) 'done " +
			"(apply f (list (- n 1)))))",
		"eval": "(define (f n) (if (= n 0) 'done " +
			"(eval (list 'f (- n 1)) (interaction-environment))))",
		"body": "(define (f n) 1 2 (if (= n 0) 'done (f (- n 1))))",
	}
	for name, def := range loops {
		t.Run(name, func(t *testing.T) {
			wantWritten(t, def+" (f 100000)", "done")
		})
	}
	t.Run("mutual", func(t *testing.T) {
		wantWritten(t, `
(define (even? n) (if (= n 0) #t (odd? (- n 1))))
(define (odd? n) (if (= n 0) #f (even? (- n 1))))
(even? 100001)`, "#f")
	})

	// A non-tail recursion does grow the continuation.
	wantError(t, "(define (g n) (if (= n 0) 0 (+ 1 (g (- n 1))))) (g 1000)",
		DepthError)
}

func TestDeepNonTailRecursion(t *testing.T) {
	wantWritten(t, "(define (g n) (if (= n 0) 0 (+ 1 (g (- n 1))))) (g 100000)",
		"100000")
}

func TestErrorsLeaveStateIntact(t *testing.T) {
	in, _ := newTestInterp()
	if _, err := in.EvalString("(define x 1)"); err != nil {
		t.Fatal(err)
	}
	if _, err := in.EvalString("(begin (set! x 2) (car '()))"); err == nil {
		t.Fatal("want an error")
	}
	x, err := in.EvalString("x")
	if err != nil || x != int64(2) {
		t.Fatalf("got %v, %v", x, err)
	}
}
