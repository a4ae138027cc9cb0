// Package resolver inlines cross-definition references until each
// definition body is closed up to imports. One sweep batch-substitutes
// every definition independently; sweeps repeat to a bounded fixed
// point because batch substitution deliberately never chains.
package resolver

import (
	"sort"
	"strings"

	"github.com/triplang/triplang/internal/analyzer"
	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/config"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/subst"
	"github.com/triplang/triplang/internal/symbols"
)

// Resolve returns a program of identical shape whose bodies contain no
// external references except names declared as imports.
func Resolve(program *ast.Program, table *symbols.Table) (*ast.Program, *diagnostics.DiagnosticError) {
	defs := append([]ast.Definition(nil), program.Definitions...)

	for iter := 0; iter < config.MaxResolveIterations; iter++ {
		changed, err := sweep(defs, table)
		if err != nil {
			return nil, err
		}
		if len(changed) == 0 {
			if err := checkClosed(defs, table); err != nil {
				return nil, err
			}
			return &ast.Program{File: program.File, Definitions: defs}, nil
		}
		if iter == config.MaxResolveIterations-1 {
			sort.Strings(changed)
			return nil, diagnostics.NewStageError(diagnostics.StageResolve, diagnostics.ErrR003,
				config.MaxResolveIterations, strings.Join(changed, ", ")).WithNames(changed)
		}
	}
	return &ast.Program{File: program.File, Definitions: defs}, nil
}

// sweep substitutes once into every definition body, in place, and
// returns the names of the definitions that changed.
func sweep(defs []ast.Definition, table *symbols.Table) ([]string, *diagnostics.DiagnosticError) {
	// Definitions resolve against the current sweep's bodies, not the
	// originally indexed ones.
	termDefs := make(map[string]ast.Definition)
	typeDefs := make(map[string]*ast.TypeDef)
	for _, def := range defs {
		switch d := def.(type) {
		case *ast.PolyDef, *ast.TypedDef, *ast.UntypedDef, *ast.CombinatorDef:
			termDefs[def.DefName()] = def
		case *ast.TypeDef:
			typeDefs[d.Name] = d
		}
	}

	an := analyzer.New()
	var changed []string

	for i, def := range defs {
		body := ast.TermBody(def)
		if body == nil {
			continue
		}
		selfName := ""
		if poly, ok := def.(*ast.PolyDef); ok && poly.Rec {
			selfName = poly.Name
		}

		refs := an.ExternalRefs(body)
		termSubs := make(map[string]subst.TermReplacement)
		typeSubs := make(map[string]ast.Value)

		for name, node := range refs.Terms {
			if name == selfName || table.IsImported(name) {
				continue
			}
			if _, isCtor := table.LookupConstructor(name); isCtor {
				// Constructor references are nominal; the declaration
				// gives them meaning downstream.
				continue
			}
			target, ok := termDefs[name]
			if !ok {
				err := diagnostics.NewStageError(diagnostics.StageResolve, diagnostics.ErrR001, name)
				err.Token = def.GetToken()
				return nil, err.WithNames([]string{name}).WithTerm(describeRef(node))
			}
			termSubs[name] = replacementFor(target)
		}
		for name, node := range refs.Types {
			if name == config.ArrowTypeName || table.IsImported(name) {
				continue
			}
			if _, isData := table.LookupData(name); isData {
				// Data type names stay nominal.
				continue
			}
			if table.IsDataTypeParam(name) {
				// So do data type parameters quoted by eliminator
				// annotations.
				continue
			}
			target, ok := typeDefs[name]
			if !ok {
				err := diagnostics.NewStageError(diagnostics.StageResolve, diagnostics.ErrR002, name)
				err.Token = def.GetToken()
				return nil, err.WithNames([]string{name}).WithTerm(describeRef(node))
			}
			typeSubs[name] = target.Type
		}

		if len(termSubs) == 0 && len(typeSubs) == 0 {
			continue
		}
		next := subst.Batch(body, termSubs, typeSubs)
		if next == body {
			continue
		}
		defs[i] = withBody(def, next)
		changed = append(changed, def.DefName())
	}
	return changed, nil
}

// checkClosed verifies the fixed point left no resolvable reference in
// place. A name that is still free yet has a definition means its
// substitution was the identity: a reference cycle through a
// definition not marked recursive.
func checkClosed(defs []ast.Definition, table *symbols.Table) *diagnostics.DiagnosticError {
	an := analyzer.New()
	var cyclic []string
	seen := make(map[string]struct{})
	for _, def := range defs {
		body := ast.TermBody(def)
		if body == nil {
			continue
		}
		selfName := ""
		if poly, ok := def.(*ast.PolyDef); ok && poly.Rec {
			selfName = poly.Name
		}
		refs := an.ExternalRefs(body)
		for name := range refs.Terms {
			if name == selfName || table.IsImported(name) {
				continue
			}
			if _, isCtor := table.LookupConstructor(name); isCtor {
				continue
			}
			if _, seenIt := seen[name]; !seenIt {
				seen[name] = struct{}{}
				cyclic = append(cyclic, name)
			}
		}
		for name := range refs.Types {
			if name == config.ArrowTypeName || table.IsImported(name) {
				continue
			}
			if _, isData := table.LookupData(name); isData {
				continue
			}
			if table.IsDataTypeParam(name) {
				continue
			}
			if _, seenIt := seen[name]; !seenIt {
				seen[name] = struct{}{}
				cyclic = append(cyclic, name)
			}
		}
	}
	if len(cyclic) == 0 {
		return nil
	}
	sort.Strings(cyclic)
	return diagnostics.NewStageError(diagnostics.StageResolve, diagnostics.ErrR005,
		strings.Join(cyclic, ", ")).WithNames(cyclic)
}

// replacementFor implements the cross-calculus replace matrix: the
// flavor of the referencing leaf picks the shape the definition's body
// is inlined in.
func replacementFor(def ast.Definition) subst.TermReplacement {
	switch d := def.(type) {
	case *ast.PolyDef:
		return subst.TermReplacement{
			Poly:    d.Term,
			Untyped: SystemFToTypedLambda(d.Term),
		}
	case *ast.TypedDef:
		return subst.TermReplacement{Untyped: d.Term}
	case *ast.UntypedDef:
		return subst.TermReplacement{Untyped: d.Term, Poly: d.Term}
	case *ast.CombinatorDef:
		return subst.TermReplacement{Untyped: d.Term, Poly: d.Term}
	default:
		return subst.TermReplacement{}
	}
}

func withBody(def ast.Definition, body ast.Value) ast.Definition {
	switch d := def.(type) {
	case *ast.PolyDef:
		return &ast.PolyDef{Token: d.Token, Name: d.Name, Rec: d.Rec, Term: body}
	case *ast.TypedDef:
		return &ast.TypedDef{Token: d.Token, Name: d.Name, Term: body}
	case *ast.UntypedDef:
		return &ast.UntypedDef{Token: d.Token, Name: d.Name, Term: body}
	case *ast.CombinatorDef:
		return &ast.CombinatorDef{Token: d.Token, Name: d.Name, Term: body}
	case *ast.TypeDef:
		return &ast.TypeDef{Token: d.Token, Name: d.Name, Type: body}
	default:
		return def
	}
}

func describeRef(node ast.Value) string {
	switch n := node.(type) {
	case *ast.Var:
		return n.Name
	case *ast.PolyVar:
		return n.Name
	case *ast.TypeVar:
		return n.Name
	default:
		return ""
	}
}
