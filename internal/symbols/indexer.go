package symbols

import (
	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/diagnostics"
)

// Index walks the program's definitions once and builds its symbol
// table. The first duplicate in a namespace fails the build; the error
// names the later occurrence (the earlier one is the indexed survivor).
func Index(program *ast.Program) (*Table, *diagnostics.DiagnosticError) {
	t := NewTable()
	for _, def := range program.Definitions {
		switch d := def.(type) {
		case *ast.PolyDef, *ast.TypedDef, *ast.UntypedDef, *ast.CombinatorDef:
			name := def.DefName()
			if _, exists := t.terms[name]; exists {
				err := diagnostics.NewStageError(diagnostics.StageIndex, diagnostics.ErrI001, name)
				err.Token = def.GetToken()
				return nil, err
			}
			t.terms[name] = def
		case *ast.TypeDef:
			if _, exists := t.types[d.Name]; exists {
				err := diagnostics.NewStageError(diagnostics.StageIndex, diagnostics.ErrI002, d.Name)
				err.Token = d.Token
				return nil, err
			}
			t.types[d.Name] = d
		case *ast.DataDef:
			if _, exists := t.data[d.Name]; exists {
				err := diagnostics.NewStageError(diagnostics.StageIndex, diagnostics.ErrI003, d.Name)
				err.Token = d.Token
				return nil, err
			}
			t.data[d.Name] = d
			for _, p := range d.TypeParams {
				t.dataParams[p] = struct{}{}
			}
			for i, ctor := range d.Constructors {
				if _, exists := t.constructors[ctor.Name]; exists {
					err := diagnostics.NewStageError(diagnostics.StageIndex, diagnostics.ErrI004, ctor.Name)
					err.Token = d.Token
					return nil, err
				}
				t.constructors[ctor.Name] = ConstructorInfo{
					DataName:    d.Name,
					Index:       i,
					Constructor: ctor,
				}
			}
		case *ast.ModuleDecl:
			if t.moduleName != "" {
				err := diagnostics.NewStageError(diagnostics.StageIndex, diagnostics.ErrI005, d.Name)
				err.Token = d.Token
				return nil, err
			}
			t.moduleName = d.Name
		case *ast.ImportDecl:
			t.imports[d.Name] = d
		case *ast.ExportDecl:
			// Verification of exports is deferred to the linker.
		}
	}
	return t, nil
}
