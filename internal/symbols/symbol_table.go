package symbols

import (
	"github.com/triplang/triplang/internal/ast"
)

// ConstructorInfo records where a constructor was declared. Index is
// the constructor's position in its data declaration and fixes the arm
// order of elaborated eliminators.
type ConstructorInfo struct {
	DataName    string
	Index       int
	Constructor ast.DataConstructor
}

// Table aggregates the program's name→definition maps. Term and type
// names are disjoint namespaces; imports is their union because the
// resolver checks it for both.
type Table struct {
	terms        map[string]ast.Definition
	types        map[string]*ast.TypeDef
	data         map[string]*ast.DataDef
	constructors map[string]ConstructorInfo
	imports      map[string]*ast.ImportDecl
	dataParams   map[string]struct{}
	moduleName   string
}

func NewTable() *Table {
	return &Table{
		terms:        make(map[string]ast.Definition),
		types:        make(map[string]*ast.TypeDef),
		data:         make(map[string]*ast.DataDef),
		constructors: make(map[string]ConstructorInfo),
		imports:      make(map[string]*ast.ImportDecl),
		dataParams:   make(map[string]struct{}),
	}
}

// ModuleName returns the indexed program's module name for diagnostics.
func (t *Table) ModuleName() string { return t.moduleName }

// LookupTerm returns the term-namespace definition for name.
func (t *Table) LookupTerm(name string) (ast.Definition, bool) {
	d, ok := t.terms[name]
	return d, ok
}

// LookupType returns the type definition for name.
func (t *Table) LookupType(name string) (*ast.TypeDef, bool) {
	d, ok := t.types[name]
	return d, ok
}

// LookupData returns the data declaration for name.
func (t *Table) LookupData(name string) (*ast.DataDef, bool) {
	d, ok := t.data[name]
	return d, ok
}

// LookupConstructor returns the declaration site of a constructor.
func (t *Table) LookupConstructor(name string) (ConstructorInfo, bool) {
	c, ok := t.constructors[name]
	return c, ok
}

// IsImported reports whether name was declared as an import, in either
// namespace.
func (t *Table) IsImported(name string) bool {
	_, ok := t.imports[name]
	return ok
}

// IsDataTypeParam reports whether name is a type parameter of some
// data declaration. Such names reach the resolver through desugared
// eliminator annotations (field types quote the declaration) and stay
// nominal rather than resolving.
func (t *Table) IsDataTypeParam(name string) bool {
	_, ok := t.dataParams[name]
	return ok
}

// Imports returns the import declarations by name.
func (t *Table) Imports() map[string]*ast.ImportDecl { return t.imports }
