package scheme

import "sync"

// Symbol represents Scheme's symbol.
type Symbol string

func (sym *Symbol) String() string {
	return string(*sym)
}

// The mapping from string to *Symbol
var Symbols sync.Map

// Intern interns a name as a symbol.
func Intern(name string) *Symbol {
	if sym, ok := Symbols.Load(name); ok {
		return sym.(*Symbol)
	}
	newSym := Symbol(name)
	sym, _ := Symbols.LoadOrStore(name, &newSym)
	return sym.(*Symbol)
}

// Special-form keywords
var (
	Quote  = Intern("quote")
	Define = Intern("define")
	SetQ   = Intern("set!")
	If     = Intern("if")
	Lambda = Intern("lambda")
	Begin  = Intern("begin")
	Cond   = Intern("cond")
	Else   = Intern("else")
	Let    = Intern("let")
	And    = Intern("and")
	Or     = Intern("or")
	Apply  = Intern("apply")
	Eval   = Intern("eval")
)
