package calc

import "github.com/matzehuels/treegen/pkg/tree"

// Stmt is a statement. Implemented by [Assign], [Goto], [Label], [Block].
type Stmt interface {
	tree.Node
	isStmt()
}

// Expr is an expression. Implemented by [IntLit], [FloatLit], [StrLit],
// [BoolLit], [Ref], [Binary], [Call].
type Expr interface {
	tree.Node
	isExpr()
}

// Program is the root of a calc tree.
type Program struct {
	tree.Base
	Name  tree.Prim[string]
	Decls tree.Any[*Decl]
	Body  tree.Many[Stmt]
}

func (*Program) Type() string   { return "Program" }
func (*Program) New() tree.Node { return &Program{} }
func (n *Program) Fields() []tree.Field {
	return []tree.Field{
		{Name: "name", Edge: &n.Name},
		{Name: "decls", Edge: &n.Decls},
		{Name: "body", Edge: &n.Body},
	}
}

// Decl declares a variable with an optional initializer.
type Decl struct {
	tree.Base
	Name tree.Prim[string]
	Init tree.Maybe[Expr]
}

func (*Decl) Type() string   { return "Decl" }
func (*Decl) New() tree.Node { return &Decl{} }
func (n *Decl) Fields() []tree.Field {
	return []tree.Field{
		{Name: "name", Edge: &n.Name},
		{Name: "init", Edge: &n.Init},
	}
}

// Assign stores Value into the declared variable Target.
type Assign struct {
	tree.Base
	Target tree.Link[*Decl]
	Value  tree.One[Expr]
}

func (*Assign) Type() string   { return "Assign" }
func (*Assign) New() tree.Node { return &Assign{} }
func (*Assign) isStmt()        {}
func (n *Assign) Fields() []tree.Field {
	return []tree.Field{
		{Name: "target", Edge: &n.Target},
		{Name: "value", Edge: &n.Value},
	}
}

// Goto jumps to Target, if Cond is unset or evaluates to true.
type Goto struct {
	tree.Base
	Target tree.Link[*Label]
	Cond   tree.Maybe[Expr]
}

func (*Goto) Type() string   { return "Goto" }
func (*Goto) New() tree.Node { return &Goto{} }
func (*Goto) isStmt()        {}
func (n *Goto) Fields() []tree.Field {
	return []tree.Field{
		{Name: "target", Edge: &n.Target},
		{Name: "cond", Edge: &n.Cond},
	}
}

// Label marks a jump target.
type Label struct {
	tree.Base
	Name tree.Prim[string]
}

func (*Label) Type() string   { return "Label" }
func (*Label) New() tree.Node { return &Label{} }
func (*Label) isStmt()        {}
func (n *Label) Fields() []tree.Field {
	return []tree.Field{{Name: "name", Edge: &n.Name}}
}

// Block groups statements.
type Block struct {
	tree.Base
	Body tree.Any[Stmt]
}

func (*Block) Type() string   { return "Block" }
func (*Block) New() tree.Node { return &Block{} }
func (*Block) isStmt()        {}
func (n *Block) Fields() []tree.Field {
	return []tree.Field{{Name: "body", Edge: &n.Body}}
}

// IntLit is an integer literal.
type IntLit struct {
	tree.Base
	Value tree.Prim[int64]
}

func (*IntLit) Type() string   { return "IntLit" }
func (*IntLit) New() tree.Node { return &IntLit{} }
func (*IntLit) isExpr()        {}
func (n *IntLit) Fields() []tree.Field {
	return []tree.Field{{Name: "value", Edge: &n.Value}}
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	tree.Base
	Value tree.Prim[float64]
}

func (*FloatLit) Type() string   { return "FloatLit" }
func (*FloatLit) New() tree.Node { return &FloatLit{} }
func (*FloatLit) isExpr()        {}
func (n *FloatLit) Fields() []tree.Field {
	return []tree.Field{{Name: "value", Edge: &n.Value}}
}

// StrLit is a string literal.
type StrLit struct {
	tree.Base
	Value tree.Prim[string]
}

func (*StrLit) Type() string   { return "StrLit" }
func (*StrLit) New() tree.Node { return &StrLit{} }
func (*StrLit) isExpr()        {}
func (n *StrLit) Fields() []tree.Field {
	return []tree.Field{{Name: "value", Edge: &n.Value}}
}

// BoolLit is a boolean literal.
type BoolLit struct {
	tree.Base
	Value tree.Prim[bool]
}

func (*BoolLit) Type() string   { return "BoolLit" }
func (*BoolLit) New() tree.Node { return &BoolLit{} }
func (*BoolLit) isExpr()        {}
func (n *BoolLit) Fields() []tree.Field {
	return []tree.Field{{Name: "value", Edge: &n.Value}}
}

// Ref reads the variable declared by Decl.
type Ref struct {
	tree.Base
	Decl tree.Link[*Decl]
}

func (*Ref) Type() string   { return "Ref" }
func (*Ref) New() tree.Node { return &Ref{} }
func (*Ref) isExpr()        {}
func (n *Ref) Fields() []tree.Field {
	return []tree.Field{{Name: "decl", Edge: &n.Decl}}
}

// Binary applies Op to Left and Right.
type Binary struct {
	tree.Base
	Op    tree.Prim[Op]
	Left  tree.One[Expr]
	Right tree.One[Expr]
}

func (*Binary) Type() string   { return "Binary" }
func (*Binary) New() tree.Node { return &Binary{} }
func (*Binary) isExpr()        {}
func (n *Binary) Fields() []tree.Field {
	return []tree.Field{
		{Name: "op", Edge: &n.Op},
		{Name: "left", Edge: &n.Left},
		{Name: "right", Edge: &n.Right},
	}
}

// Call calls the builtin function Func with Args.
type Call struct {
	tree.Base
	Func tree.Prim[string]
	Args tree.Any[Expr]
}

func (*Call) Type() string   { return "Call" }
func (*Call) New() tree.Node { return &Call{} }
func (*Call) isExpr()        {}
func (n *Call) Fields() []tree.Field {
	return []tree.Field{
		{Name: "func", Edge: &n.Func},
		{Name: "args", Edge: &n.Args},
	}
}
