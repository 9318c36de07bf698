// Package expr parses and evaluates the cash-flow expression language.
//
// Expressions are arithmetic over two reserved symbols, t (period index) and
// y (previous cash-flow value). Evaluation is total: unknown identifiers,
// division by zero, malformed literals and non-finite intermediates all
// collapse to zero at the sub-expression where they occur, and an expression
// that fails to parse evaluates to zero as a whole. This keeps partially typed
// input from ever interrupting a recomputation.
package expr

import (
	"math"
	"strconv"
)

// Program is a parsed expression.
type Program struct {
	src  string
	root Node
}

// Parse parses src. The returned error is diagnostic only; Evaluate never
// surfaces it.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + strconv.Quote(t.text)}
	}
	return &Program{src: src, root: root}, nil
}

// Compile is Parse without the error: a program that does not parse
// evaluates to zero everywhere.
func Compile(src string) *Program {
	prog, err := Parse(src)
	if err != nil {
		return &Program{src: src}
	}
	return prog
}

// Eval evaluates the program at (t, y). ok is false if any part of the
// expression was absorbed to zero, or if the program did not parse.
func (p *Program) Eval(t, y float64) (float64, bool) {
	if p == nil || p.root == nil {
		return 0, false
	}
	v, ok := orZero(p.root.eval(env{t: t, y: y}))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, ok
}

// Func binds the program as f(t, y) for the ODE stepper.
func (p *Program) Func() func(t, y float64) float64 {
	return func(t, y float64) float64 {
		v, _ := p.Eval(t, y)
		return v
	}
}

// Source returns the text the program was built from.
func (p *Program) Source() string { return p.src }

// String renders the fully parenthesised tree.
func (p *Program) String() string {
	if p == nil || p.root == nil {
		return "0"
	}
	return p.root.String()
}

// Evaluate parses and evaluates src at (t, y). It always returns a finite number.
func Evaluate(src string, t int, y float64) float64 {
	v, _ := Compile(src).Eval(float64(t), y)
	return v
}

// Refs records which reserved symbols an expression uses.
type Refs struct {
	T, Y bool
}

// References reports the reserved symbols used by src. Unparseable input
// reports none.
func References(src string) Refs {
	var r Refs
	prog, err := Parse(src)
	if err != nil {
		return r
	}
	walk(prog.root, func(n Node) {
		if v, ok := n.(*Variable); ok {
			switch v.Sym {
			case SymT:
				r.T = true
			case SymY:
				r.Y = true
			}
		}
	})
	return r
}

func walk(n Node, visit func(Node)) {
	visit(n)
	switch n := n.(type) {
	case *Unary:
		walk(n.Operand, visit)
	case *Binary:
		walk(n.Left, visit)
		walk(n.Right, visit)
	case *Call:
		for _, a := range n.Args {
			walk(a, visit)
		}
	}
}
