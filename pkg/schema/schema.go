package schema

import (
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/tree"
)

// Primitive field types.
const (
	PrimString = "string"
	PrimInt    = "int"
	PrimFloat  = "float"
	PrimBool   = "bool"
	PrimBytes  = "bytes"
)

var primTypes = []string{PrimString, PrimInt, PrimFloat, PrimBool, PrimBytes}

// file is the TOML layout of a schema description.
type file struct {
	Node     []nodeDecl     `toml:"node"`
	Category []categoryDecl `toml:"category"`
}

type nodeDecl struct {
	Name  string      `toml:"name"`
	Doc   string      `toml:"doc"`
	Field []fieldDecl `toml:"field"`
}

type fieldDecl struct {
	Name string `toml:"name"`
	Doc  string `toml:"doc"`
	Kind string `toml:"kind"`
	Type string `toml:"type"`
}

type categoryDecl struct {
	Name     string   `toml:"name"`
	Doc      string   `toml:"doc"`
	Variants []string `toml:"variants"`
}

// Schema is a validated set of node types and categories.
type Schema struct {
	nodes      []*NodeType
	byName     map[string]*NodeType
	categories map[string][]string
	registry   *tree.Registry
}

// NodeType describes one node variant.
type NodeType struct {
	Name   string
	Doc    string
	Fields []FieldType
}

// FieldType describes one field of a node variant.
type FieldType struct {
	Name string
	Doc  string
	Kind tree.Kind
	// Type is the primitive type of a prim field, or the node type or
	// category an edge points to.
	Type string
	// Variants is the set of node types an edge accepts. Nil for prim
	// fields.
	Variants []string
}

// Load parses and validates a TOML schema description.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read schema")
	}
	return Parse(data)
}

// LoadFile is [Load] for a file on disk.
func LoadFile(path string) (*Schema, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "schema file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read schema %s", path)
	}
	return Parse(data)
}

// Parse is [Load] for an in-memory description.
func Parse(data []byte) (*Schema, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "parse schema")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "unknown schema key %q", undecoded[0].String())
	}
	return build(f)
}

func build(f file) (*Schema, error) {
	if len(f.Node) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "schema declares no node types")
	}
	s := &Schema{
		byName:     make(map[string]*NodeType, len(f.Node)),
		categories: make(map[string][]string, len(f.Category)),
	}

	for _, nd := range f.Node {
		if err := errors.ValidateIdentifier("node type", nd.Name); err != nil {
			return nil, err
		}
		if _, dup := s.byName[nd.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "node type %s is declared twice", nd.Name)
		}
		nt := &NodeType{Name: nd.Name, Doc: nd.Doc}
		s.nodes = append(s.nodes, nt)
		s.byName[nd.Name] = nt
	}

	for _, cd := range f.Category {
		if err := errors.ValidateIdentifier("category", cd.Name); err != nil {
			return nil, err
		}
		if _, clash := s.byName[cd.Name]; clash {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "category %s has the name of a node type", cd.Name)
		}
		if _, dup := s.categories[cd.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "category %s is declared twice", cd.Name)
		}
		if len(cd.Variants) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "category %s has no variants", cd.Name)
		}
		for _, v := range cd.Variants {
			if _, ok := s.byName[v]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidSchema, "category %s: unknown variant %q", cd.Name, v)
			}
		}
		s.categories[cd.Name] = slices.Clone(cd.Variants)
	}

	for i, nd := range f.Node {
		nt := s.nodes[i]
		seen := make(map[string]bool, len(nd.Field))
		for _, fd := range nd.Field {
			ft, err := s.field(nt.Name, fd)
			if err != nil {
				return nil, err
			}
			if seen[ft.Name] {
				return nil, errors.New(errors.ErrCodeInvalidSchema, "%s.%s is declared twice", nt.Name, ft.Name)
			}
			seen[ft.Name] = true
			nt.Fields = append(nt.Fields, ft)
		}
	}

	reg, err := tree.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, nt := range s.nodes {
		if err := reg.RegisterFunc(nt.Name, nt.new); err != nil {
			return nil, err
		}
	}
	s.registry = reg
	return s, nil
}

func (s *Schema) field(owner string, fd fieldDecl) (FieldType, error) {
	if err := errors.ValidateIdentifier("field", fd.Name); err != nil {
		return FieldType{}, errors.Wrap(errors.ErrCodeInvalidSchema, err, "node type %s", owner)
	}
	kind, ok := tree.ParseKind(fd.Kind)
	if !ok {
		return FieldType{}, errors.New(errors.ErrCodeInvalidSchema, "%s.%s: unknown kind %q", owner, fd.Name, fd.Kind)
	}
	ft := FieldType{Name: fd.Name, Doc: fd.Doc, Kind: kind, Type: fd.Type}

	if kind == tree.KindPrim {
		if !slices.Contains(primTypes, fd.Type) {
			return FieldType{}, errors.New(errors.ErrCodeInvalidSchema, "%s.%s: unknown primitive type %q", owner, fd.Name, fd.Type)
		}
		return ft, nil
	}
	if _, ok := s.byName[fd.Type]; ok {
		ft.Variants = []string{fd.Type}
		return ft, nil
	}
	if vs, ok := s.categories[fd.Type]; ok {
		ft.Variants = vs
		return ft, nil
	}
	return FieldType{}, errors.New(errors.ErrCodeInvalidSchema, "%s.%s: unknown node type or category %q", owner, fd.Name, fd.Type)
}

// Registry returns a registry with a factory for every node type.
func (s *Schema) Registry() *tree.Registry { return s.registry }

// Nodes returns the node types in declaration order.
func (s *Schema) Nodes() []*NodeType { return slices.Clone(s.nodes) }

// NodeType returns the node type called name.
func (s *Schema) NodeType(name string) (*NodeType, bool) {
	nt, ok := s.byName[name]
	return nt, ok
}

// Category returns the variants of the category called name.
func (s *Schema) Category(name string) ([]string, bool) {
	vs, ok := s.categories[name]
	return slices.Clone(vs), ok
}

// New returns an empty node of type name.
func (s *Schema) New(name string) (*Node, error) {
	nt, ok := s.byName[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", name)
	}
	return nt.new().(*Node), nil
}
