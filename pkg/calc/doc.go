// Package calc is a small statically typed tree schema for a calculator
// language: declarations, assignments, labels and gotos, blocks, and
// arithmetic expressions.
//
// It serves as the built-in schema of the treegen tool and as a worked
// example of writing a schema by hand. Each node variant is a struct
// embedding [tree.Base]; the abstract categories [Stmt] and [Expr] are
// sealed interfaces, so an edge typed tree.One[Expr] only accepts
// expression variants at compile time.
//
// The same schema is described in TOML by [SchemaTOML], which package
// schema loads into an equivalent run-time schema.
//
//	prog := calc.NewProgram("demo",
//	    calc.NewAssign(x, calc.NewBinary(calc.OpAdd, calc.NewRef(x), calc.NewInt(1))),
//	)
//	data, err := tree.Serialize(prog)
//	...
//	back, err := calc.Deserialize(data)
package calc
