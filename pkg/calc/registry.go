package calc

import (
	_ "embed"

	"github.com/matzehuels/treegen/pkg/tree"
)

// Registry holds every calc node variant.
var Registry = tree.MustRegistry(
	&Program{}, &Decl{},
	&Assign{}, &Goto{}, &Label{}, &Block{},
	&IntLit{}, &FloatLit{}, &StrLit{}, &BoolLit{}, &Ref{}, &Binary{}, &Call{},
)

// SchemaTOML describes this package's schema in the format read by
// package schema.
//
//go:embed calc.toml
var SchemaTOML []byte

// Deserialize decodes a serialized calc program.
func Deserialize(data []byte) (*Program, error) {
	return tree.DeserializeAs[*Program](Registry, data)
}

// NewProgram returns a program named name with the given body.
func NewProgram(name string, body ...Stmt) *Program {
	p := &Program{}
	p.Name.Set(name)
	p.Body.Append(body...)
	return p
}

// Declare adds a declaration named name to p and returns it.
func (p *Program) Declare(name string, init Expr) *Decl {
	d := &Decl{}
	d.Name.Set(name)
	if init != nil {
		d.Init.Set(init)
	}
	p.Decls.Append(d)
	return d
}

// NewAssign returns an assignment of value to target.
func NewAssign(target *Decl, value Expr) *Assign {
	a := &Assign{}
	a.Target.Set(target)
	a.Value.Set(value)
	return a
}

// NewGoto returns a jump to target, conditional on cond if it is non-nil.
func NewGoto(target *Label, cond Expr) *Goto {
	g := &Goto{}
	g.Target.Set(target)
	if cond != nil {
		g.Cond.Set(cond)
	}
	return g
}

// NewLabel returns a label named name.
func NewLabel(name string) *Label {
	l := &Label{}
	l.Name.Set(name)
	return l
}

// NewBlock returns a block holding body.
func NewBlock(body ...Stmt) *Block {
	b := &Block{}
	b.Body.Append(body...)
	return b
}

// NewInt returns an integer literal.
func NewInt(v int64) *IntLit {
	n := &IntLit{}
	n.Value.Set(v)
	return n
}

// NewFloat returns a floating-point literal.
func NewFloat(v float64) *FloatLit {
	n := &FloatLit{}
	n.Value.Set(v)
	return n
}

// NewStr returns a string literal.
func NewStr(v string) *StrLit {
	n := &StrLit{}
	n.Value.Set(v)
	return n
}

// NewBool returns a boolean literal.
func NewBool(v bool) *BoolLit {
	n := &BoolLit{}
	n.Value.Set(v)
	return n
}

// NewRef returns a reference to d.
func NewRef(d *Decl) *Ref {
	r := &Ref{}
	r.Decl.Set(d)
	return r
}

// NewBinary returns left op right.
func NewBinary(op Op, left, right Expr) *Binary {
	b := &Binary{}
	b.Op.Set(op)
	b.Left.Set(left)
	b.Right.Set(right)
	return b
}

// NewCall returns a call of fn with args.
func NewCall(fn string, args ...Expr) *Call {
	c := &Call{}
	c.Func.Set(fn)
	c.Args.Append(args...)
	return c
}

// Sample returns a small well-formed program exercising every variant:
//
//	var x = 1
//	var msg
//	top:
//	  x = x + 2.5 * len("abc")
//	  { msg = "again" }
//	  goto top if x < 10 == true
func Sample() *Program {
	p := NewProgram("example")
	x := p.Declare("x", NewInt(1))
	msg := p.Declare("msg", nil)
	top := NewLabel("top")

	p.Body.Append(
		top,
		NewAssign(x, NewBinary(OpAdd, NewRef(x),
			NewBinary(OpMul, NewFloat(2.5), NewCall("len", NewStr("abc"))))),
		NewBlock(NewAssign(msg, NewStr("again"))),
		NewGoto(top, NewBinary(OpEqual,
			NewBinary(OpLess, NewRef(x), NewInt(10)), NewBool(true))),
	)
	return p
}
