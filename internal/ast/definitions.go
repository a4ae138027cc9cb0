package ast

import "github.com/triplang/triplang/internal/token"

// Definition is a top-level program entry. Term names and type names
// live in disjoint namespaces; a definition's name is unique within its
// namespace.
type Definition interface {
	definitionNode()
	DefName() string
	GetToken() token.Token
}

// PolyDef is a System F term definition. Rec marks the definition as
// recursive: the resolver then leaves references to its own name alone.
type PolyDef struct {
	Token token.Token
	Name  string
	Rec   bool
	Term  Value
}

// TypedDef is a simply-typed lambda definition.
type TypedDef struct {
	Token token.Token
	Name  string
	Term  Value
}

// UntypedDef is an untyped lambda definition.
type UntypedDef struct {
	Token token.Token
	Name  string
	Term  Value
}

// CombinatorDef is an SKI expression definition.
type CombinatorDef struct {
	Token token.Token
	Name  string
	Term  Value
}

// TypeDef is a named type definition.
type TypeDef struct {
	Token token.Token
	Name  string
	Type  Value
}

// DataConstructor is one constructor of a data declaration. Field
// types may reference the declaration's type parameters.
type DataConstructor struct {
	Name   string
	Fields []Value
}

// DataDef is an algebraic data type declaration.
type DataDef struct {
	Token        token.Token
	Name         string
	TypeParams   []string
	Constructors []DataConstructor
}

// ModuleDecl names the program's module. Exactly one per program.
type ModuleDecl struct {
	Token token.Token
	Name  string
}

// ImportDecl declares that Name (term or type) originates in module Ref.
type ImportDecl struct {
	Token token.Token
	Name  string
	Ref   string
}

// ExportDecl marks an already-defined name as exported.
type ExportDecl struct {
	Token token.Token
	Name  string
}

func (*PolyDef) definitionNode()       {}
func (*TypedDef) definitionNode()      {}
func (*UntypedDef) definitionNode()    {}
func (*CombinatorDef) definitionNode() {}
func (*TypeDef) definitionNode()       {}
func (*DataDef) definitionNode()       {}
func (*ModuleDecl) definitionNode()    {}
func (*ImportDecl) definitionNode()    {}
func (*ExportDecl) definitionNode()    {}

func (d *PolyDef) DefName() string       { return d.Name }
func (d *TypedDef) DefName() string      { return d.Name }
func (d *UntypedDef) DefName() string    { return d.Name }
func (d *CombinatorDef) DefName() string { return d.Name }
func (d *TypeDef) DefName() string       { return d.Name }
func (d *DataDef) DefName() string       { return d.Name }
func (d *ModuleDecl) DefName() string    { return d.Name }
func (d *ImportDecl) DefName() string    { return d.Name }
func (d *ExportDecl) DefName() string    { return d.Name }

func (d *PolyDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *TypedDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *UntypedDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *CombinatorDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *TypeDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *DataDef) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *ModuleDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *ImportDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

func (d *ExportDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// TermBody returns the value body of a term-namespace definition, or
// nil for declarations that have none.
func TermBody(d Definition) Value {
	switch def := d.(type) {
	case *PolyDef:
		return def.Term
	case *TypedDef:
		return def.Term
	case *UntypedDef:
		return def.Term
	case *CombinatorDef:
		return def.Term
	case *TypeDef:
		return def.Type
	default:
		return nil
	}
}

// Program is the root node: a module's definition sequence.
type Program struct {
	File        string
	Definitions []Definition
}

// ModuleName returns the program's module declaration name, or "".
func (p *Program) ModuleName() string {
	for _, d := range p.Definitions {
		if m, ok := d.(*ModuleDecl); ok {
			return m.Name
		}
	}
	return ""
}
