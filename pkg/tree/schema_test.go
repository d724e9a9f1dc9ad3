package tree

// A small schema used throughout the package tests.

type testStmt interface {
	Node
	isStmt()
}

type testExpr interface {
	Node
	isExpr()
}

type Program struct {
	Base
	Name  Prim[string]
	Entry Link[*Label]
	Body  Many[testStmt]
}

func (*Program) Type() string { return "Program" }
func (*Program) New() Node    { return &Program{} }
func (p *Program) Fields() []Field {
	return []Field{
		{Name: "name", Edge: &p.Name},
		{Name: "entry", Edge: &p.Entry},
		{Name: "body", Edge: &p.Body},
	}
}

type Label struct {
	Base
	Name Prim[string]
}

func (*Label) Type() string { return "Label" }
func (*Label) New() Node    { return &Label{} }
func (*Label) isStmt()      {}
func (l *Label) Fields() []Field {
	return []Field{{Name: "name", Edge: &l.Name}}
}

type Goto struct {
	Base
	Target Link[*Label]
	Cond   Maybe[testExpr]
}

func (*Goto) Type() string { return "Goto" }
func (*Goto) New() Node    { return &Goto{} }
func (*Goto) isStmt()      {}
func (g *Goto) Fields() []Field {
	return []Field{
		{Name: "target", Edge: &g.Target},
		{Name: "cond", Edge: &g.Cond},
	}
}

type Print struct {
	Base
	Value One[testExpr]
}

func (*Print) Type() string { return "Print" }
func (*Print) New() Node    { return &Print{} }
func (*Print) isStmt()      {}
func (p *Print) Fields() []Field {
	return []Field{{Name: "value", Edge: &p.Value}}
}

type Integer struct {
	Base
	Value Prim[int64]
}

func (*Integer) Type() string { return "Integer" }
func (*Integer) New() Node    { return &Integer{} }
func (*Integer) isExpr()      {}
func (i *Integer) Fields() []Field {
	return []Field{{Name: "value", Edge: &i.Value}}
}

type Blob struct {
	Base
	Data  Prim[[]byte]
	Ratio Prim[float64]
	Flag  Prim[bool]
}

func (*Blob) Type() string { return "Blob" }
func (*Blob) New() Node    { return &Blob{} }
func (*Blob) isExpr()      {}
func (b *Blob) Fields() []Field {
	return []Field{
		{Name: "data", Edge: &b.Data},
		{Name: "ratio", Edge: &b.Ratio},
		{Name: "flag", Edge: &b.Flag},
	}
}

type Container struct {
	Base
	Items Any[testExpr]
}

func (*Container) Type() string { return "Container" }
func (*Container) New() Node    { return &Container{} }
func (*Container) isExpr()      {}
func (c *Container) Fields() []Field {
	return []Field{{Name: "items", Edge: &c.Items}}
}

var testRegistry = MustRegistry(
	&Program{}, &Label{}, &Goto{}, &Print{},
	&Integer{}, &Blob{}, &Container{},
)

func integer(v int64) *Integer {
	n := &Integer{}
	n.Value.Set(v)
	return n
}

func label(name string) *Label {
	l := &Label{}
	l.Name.Set(name)
	return l
}

func printOf(e testExpr) *Print {
	p := &Print{}
	p.Value.Set(e)
	return p
}

// sampleProgram builds:
//
//	Program "main", entry --> loop
//	  Goto --> loop, cond = Container[Integer 42]
//	  Print Blob
//	  Label loop
//
// The Goto's link refers forward to the label.
func sampleProgram() (*Program, *Label) {
	loop := label("loop")

	g := &Goto{}
	g.Target.Set(loop)
	c := &Container{}
	c.Items.Append(integer(42))
	g.Cond.Set(c)

	b := &Blob{}
	b.Data.Set([]byte{0xCA, 0xFE})
	b.Ratio.Set(0.5)
	b.Flag.Set(true)

	p := &Program{}
	p.Name.Set("main")
	p.Entry.Set(loop)
	p.Body.Append(g, printOf(b), loop)
	return p, loop
}
