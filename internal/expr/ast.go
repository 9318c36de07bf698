package expr

import (
	"math"
	"strconv"
	"strings"
)

// Node is one of Literal, Variable, Unknown, Unary, Binary or Call.
// eval returns ok=false when the node's own computation failed; callers absorb
// the failure as zero so that one bad sub-expression never poisons its parent.
type Node interface {
	eval(env env) (float64, bool)
	String() string
}

type env struct {
	t, y float64
}

// Symbol is a reserved variable.
type Symbol byte

const (
	SymT Symbol = 't'
	SymY Symbol = 'y'
)

type Literal struct {
	Value float64
	// Invalid marks a literal whose text could not be parsed; it evaluates to zero.
	Invalid bool
}

func (n *Literal) eval(env) (float64, bool) {
	if n.Invalid {
		return 0, false
	}
	return n.Value, true
}

func (n *Literal) String() string {
	if n.Invalid {
		return "0"
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Variable is a reference to t or y. Any other identifier is parsed as an
// Unknown node instead.
type Variable struct {
	Sym Symbol
}

func (n *Variable) eval(e env) (float64, bool) {
	if n.Sym == SymT {
		return e.t, true
	}
	return e.y, true
}

func (n *Variable) String() string { return string(rune(n.Sym)) }

// Unknown is an unrecognised identifier. It contributes zero.
type Unknown struct {
	Name string
}

func (n *Unknown) eval(env) (float64, bool) { return 0, false }
func (n *Unknown) String() string           { return n.Name }

type Unary struct {
	Op      byte
	Operand Node
}

func (n *Unary) eval(e env) (float64, bool) {
	v, ok := orZero(n.Operand.eval(e))
	if n.Op == '-' {
		return -v, ok
	}
	return v, ok
}

func (n *Unary) String() string {
	return "(" + string(n.Op) + n.Operand.String() + ")"
}

type Binary struct {
	Op          byte
	Left, Right Node
}

func (n *Binary) eval(e env) (float64, bool) {
	l, lok := orZero(n.Left.eval(e))
	r, rok := orZero(n.Right.eval(e))
	ok := lok && rok

	var v float64
	switch n.Op {
	case '+':
		v = l + r
	case '-':
		v = l - r
	case '*':
		v = l * r
	case '/':
		if r == 0 {
			return 0, false
		}
		v = l / r
	case '%':
		if r == 0 {
			return 0, false
		}
		v = math.Mod(l, r)
	case '^':
		v = math.Pow(l, r)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, ok
}

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + string(n.Op) + " " + n.Right.String() + ")"
}

type Call struct {
	Name string
	Args []Node
}

func (n *Call) eval(e env) (float64, bool) {
	fn, ok := functions[n.Name]
	if !ok || fn.arity != len(n.Args) {
		return 0, false
	}
	args := make([]float64, len(n.Args))
	allOK := true
	for i, a := range n.Args {
		v, aok := orZero(a.eval(e))
		args[i] = v
		allOK = allOK && aok
	}
	v := fn.apply(args)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, allOK
}

func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// orZero collapses a failed evaluation to zero while remembering that it failed.
func orZero(v float64, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	return v, true
}

type function struct {
	arity int
	apply func(args []float64) float64
}

func unary(f func(float64) float64) function {
	return function{arity: 1, apply: func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(float64, float64) float64) function {
	return function{arity: 2, apply: func(a []float64) float64 { return f(a[0], a[1]) }}
}

var functions = map[string]function{
	"sqrt":  unary(math.Sqrt),
	"exp":   unary(math.Exp),
	"ln":    unary(math.Log),
	"log":   unary(math.Log10),
	"abs":   unary(math.Abs),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"signum": unary(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}),
	"max":   binary(math.Max),
	"min":   binary(math.Min),
	"atan2": binary(math.Atan2),
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}
