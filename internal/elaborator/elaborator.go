// Package elaborator rewrites parsed definitions into their resolved
// surface-free form: syntactically ambiguous applications become type
// applications when the right-hand side names a defined type, and
// match expressions desugar into typed eliminator applications.
package elaborator

import (
	"strings"

	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/symbols"
)

type Elaborator struct {
	table *symbols.Table
}

func New(table *symbols.Table) *Elaborator {
	return &Elaborator{table: table}
}

// Program elaborates every definition body, in order. The first
// failing definition aborts the pass.
func (e *Elaborator) Program(program *ast.Program) (*ast.Program, *diagnostics.DiagnosticError) {
	defs := make([]ast.Definition, len(program.Definitions))
	for i, def := range program.Definitions {
		next, err := e.definition(def)
		if err != nil {
			err.Token = def.GetToken()
			return nil, err
		}
		defs[i] = next
	}
	return &ast.Program{File: program.File, Definitions: defs}, nil
}

func (e *Elaborator) definition(def ast.Definition) (ast.Definition, *diagnostics.DiagnosticError) {
	switch d := def.(type) {
	case *ast.PolyDef:
		term, err := e.value(d.Term)
		if err != nil {
			return nil, err
		}
		if term == d.Term {
			return d, nil
		}
		return &ast.PolyDef{Token: d.Token, Name: d.Name, Rec: d.Rec, Term: term}, nil
	case *ast.TypedDef:
		term, err := e.value(d.Term)
		if err != nil {
			return nil, err
		}
		if term == d.Term {
			return d, nil
		}
		return &ast.TypedDef{Token: d.Token, Name: d.Name, Term: term}, nil
	case *ast.UntypedDef, *ast.CombinatorDef, *ast.TypeDef, *ast.DataDef,
		*ast.ModuleDecl, *ast.ImportDecl, *ast.ExportDecl:
		// Untyped and SKI applications stay generic; type and data
		// bodies have nothing to disambiguate.
		return def, nil
	default:
		return nil, diagnostics.InternalError(diagnostics.StageElaborate, "unknown definition variant")
	}
}

// value rewrites bottom-up.
func (e *Elaborator) value(v ast.Value) (ast.Value, *diagnostics.DiagnosticError) {
	switch n := v.(type) {
	case *ast.Var, *ast.PolyVar, *ast.TypeVar, *ast.Combinator, nil:
		return v, nil
	case *ast.Lambda:
		body, err := e.value(n.Body)
		if err != nil {
			return nil, err
		}
		if body == n.Body {
			return n, nil
		}
		return &ast.Lambda{Param: n.Param, Body: body}, nil
	case *ast.TypedLambda:
		body, err := e.value(n.Body)
		if err != nil {
			return nil, err
		}
		if body == n.Body {
			return n, nil
		}
		return &ast.TypedLambda{Param: n.Param, ParamType: n.ParamType, Body: body}, nil
	case *ast.PolyLambda:
		body, err := e.value(n.Body)
		if err != nil {
			return nil, err
		}
		if body == n.Body {
			return n, nil
		}
		return &ast.PolyLambda{Param: n.Param, ParamType: n.ParamType, Body: body}, nil
	case *ast.TypeAbs:
		body, err := e.value(n.Body)
		if err != nil {
			return nil, err
		}
		if body == n.Body {
			return n, nil
		}
		return &ast.TypeAbs{TypeParam: n.TypeParam, Body: body}, nil
	case *ast.Inst:
		term, err := e.value(n.Term)
		if err != nil {
			return nil, err
		}
		if term == n.Term {
			return n, nil
		}
		return &ast.Inst{Term: term, TypeArg: n.TypeArg}, nil
	case *ast.Let:
		boundVal, err := e.value(n.Bound)
		if err != nil {
			return nil, err
		}
		body, err := e.value(n.Body)
		if err != nil {
			return nil, err
		}
		if boundVal == n.Bound && body == n.Body {
			return n, nil
		}
		return &ast.Let{Name: n.Name, Bound: boundVal, Body: body}, nil
	case *ast.App:
		left, err := e.value(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.value(n.Right)
		if err != nil {
			return nil, err
		}
		// A bare System F variable naming a defined type is a type
		// argument: the type table is the signal, not a syntactic
		// type-kind check.
		if pv, ok := right.(*ast.PolyVar); ok {
			if _, isType := e.table.LookupType(pv.Name); isType {
				return &ast.Inst{Term: left, TypeArg: &ast.TypeVar{Name: pv.Name}}, nil
			}
		}
		if left == n.Left && right == n.Right {
			return n, nil
		}
		return &ast.App{Left: left, Right: right}, nil
	case *ast.Match:
		return e.match(n)
	case *ast.Forall:
		return n, nil
	case *ast.TypeApp:
		return n, nil
	default:
		return nil, diagnostics.InternalError(diagnostics.StageElaborate, "unknown value variant")
	}
}

// match desugars a match into the Church-encoded eliminator
// ((scrutinee [returnType]) arm_0 … arm_k) with arms reordered to the
// data declaration's constructor order and each arm curried over its
// constructor's fields.
func (e *Elaborator) match(m *ast.Match) (ast.Value, *diagnostics.DiagnosticError) {
	if len(m.Arms) == 0 {
		return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE001)
	}

	dataName := ""
	infos := make([]symbols.ConstructorInfo, len(m.Arms))
	for i, arm := range m.Arms {
		info, ok := e.table.LookupConstructor(arm.Constructor)
		if !ok {
			return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE002, arm.Constructor)
		}
		if dataName == "" {
			dataName = info.DataName
		} else if info.DataName != dataName {
			return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE003,
				dataName+", "+info.DataName).WithNames([]string{dataName, info.DataName})
		}
		infos[i] = info
	}

	data, ok := e.table.LookupData(dataName)
	if !ok {
		return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE004, dataName)
	}

	// Exhaustiveness: the arm set must equal the constructor set,
	// without duplicates; arity must match the declaration.
	covered := make(map[string]*ast.MatchArm, len(m.Arms))
	for i := range m.Arms {
		arm := &m.Arms[i]
		if _, dup := covered[arm.Constructor]; dup {
			return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE005, arm.Constructor)
		}
		covered[arm.Constructor] = arm
		if got, want := len(arm.Params), len(infos[i].Constructor.Fields); got != want {
			return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE007,
				arm.Constructor, got, want)
		}
	}
	var missing []string
	for _, ctor := range data.Constructors {
		if _, ok := covered[ctor.Name]; !ok {
			missing = append(missing, ctor.Name)
		}
	}
	if len(missing) > 0 {
		return nil, diagnostics.NewStageError(diagnostics.StageElaborate, diagnostics.ErrE006,
			strings.Join(missing, ", ")).WithNames(missing)
	}

	scrutinee, err := e.value(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	// Scrutinee type-applied to the declared return type, then applied
	// to one handler per constructor in declaration order.
	result := ast.Value(&ast.Inst{Term: scrutinee, TypeArg: m.ReturnType})
	for _, ctor := range data.Constructors {
		arm := covered[ctor.Name]
		body, err := e.value(arm.Body)
		if err != nil {
			return nil, err
		}
		handler := body
		for i := len(arm.Params) - 1; i >= 0; i-- {
			handler = &ast.PolyLambda{
				Param:     arm.Params[i],
				ParamType: ctor.Fields[i],
				Body:      handler,
			}
		}
		result = &ast.App{Left: result, Right: handler}
	}
	return result, nil
}
