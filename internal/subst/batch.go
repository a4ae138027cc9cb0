package subst

import (
	"github.com/triplang/triplang/internal/analyzer"
	"github.com/triplang/triplang/internal/ast"
)

// TermReplacement carries the replacement value for a term name, per
// flavor of the referencing leaf. A nil field leaves that leaf flavor
// unchanged (the cross-calculus replace matrix has no entry for it).
type TermReplacement struct {
	Untyped ast.Value // used at untyped/typed lambda-var leaves
	Poly    ast.Value // used at System F var leaves
}

// Batch substitutes every key of terms and types in one pass.
// Substitutions are independent: a replacement is never itself
// rewritten by the map during this pass; the resolver's outer loop
// reaches the fixed point. If no key fires anywhere in v, the result
// is v itself (pointer-equal). Natural-literal identifiers are never
// substituted even when present as keys.
func Batch(v ast.Value, terms map[string]TermReplacement, types map[string]ast.Value) ast.Value {
	if len(terms) == 0 && len(types) == 0 {
		return v
	}
	be := &batchEngine{an: analyzer.New(), terms: terms, types: types}
	return be.walk(v, nameset{}, nameset{})
}

type batchEngine struct {
	an    *analyzer.Analyzer
	terms map[string]TermReplacement
	types map[string]ast.Value
}

// activeTermReplFVs returns the free term names of every term
// replacement that can still fire inside body: its key is free in
// body, not bound, and not one of the binder's own names.
func (be *batchEngine) activeTermReplFVs(body ast.Value, termBound nameset, binders []string) nameset {
	refs := be.an.ExternalRefs(body)
	out := nameset{}
	for key, r := range be.terms {
		if has(termBound, key) || containsName(binders, key) {
			continue
		}
		if _, free := refs.Terms[key]; !free {
			continue
		}
		if r.Untyped != nil {
			for n := range be.an.FreeTermNames(r.Untyped) {
				out[n] = struct{}{}
			}
		}
		if r.Poly != nil {
			for n := range be.an.FreeTermNames(r.Poly) {
				out[n] = struct{}{}
			}
		}
	}
	return out
}

// activeTypeReplFVs returns the free type names of every replacement,
// term or type flavored, that can still fire inside body. Term
// replacements count because their bodies may carry free type
// variables that a type binder could capture.
func (be *batchEngine) activeTypeReplFVs(body ast.Value, termBound, typeBound nameset, binders []string) nameset {
	refs := be.an.ExternalRefs(body)
	out := nameset{}
	for key, r := range be.terms {
		if has(termBound, key) {
			continue
		}
		if _, free := refs.Terms[key]; !free {
			continue
		}
		if r.Untyped != nil {
			for n := range be.an.FreeTypeNames(r.Untyped) {
				out[n] = struct{}{}
			}
		}
		if r.Poly != nil {
			for n := range be.an.FreeTypeNames(r.Poly) {
				out[n] = struct{}{}
			}
		}
	}
	for key, r := range be.types {
		if has(typeBound, key) || containsName(binders, key) {
			continue
		}
		if _, free := refs.Types[key]; !free {
			continue
		}
		for n := range be.an.FreeTypeNames(r) {
			out[n] = struct{}{}
		}
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (be *batchEngine) walk(v ast.Value, termBound, typeBound nameset) ast.Value {
	switch n := v.(type) {
	case *ast.Var:
		if ast.IsNatLiteral(n.Name) || has(termBound, n.Name) {
			return n
		}
		if r, ok := be.terms[n.Name]; ok && r.Untyped != nil {
			return r.Untyped
		}
		return n
	case *ast.PolyVar:
		if ast.IsNatLiteral(n.Name) || has(termBound, n.Name) {
			return n
		}
		if r, ok := be.terms[n.Name]; ok && r.Poly != nil {
			return r.Poly
		}
		return n
	case *ast.TypeVar:
		if has(typeBound, n.Name) {
			return n
		}
		if r, ok := be.types[n.Name]; ok {
			return r
		}
		return n
	case *ast.Lambda:
		param, body := be.renameTermCapture(n.Param, n.Body, termBound)
		body2 := be.walk(body, extend(termBound, param), typeBound)
		if param == n.Param && body2 == n.Body {
			return n
		}
		return &ast.Lambda{Param: param, Body: body2}
	case *ast.TypedLambda:
		ty := be.walk(n.ParamType, termBound, typeBound)
		param, body := be.renameTermCapture(n.Param, n.Body, termBound)
		body2 := be.walk(body, extend(termBound, param), typeBound)
		if ty == n.ParamType && param == n.Param && body2 == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: param, ParamType: ty, Body: body2}
	case *ast.PolyLambda:
		ty := be.walk(n.ParamType, termBound, typeBound)
		param, body := be.renameTermCapture(n.Param, n.Body, termBound)
		body2 := be.walk(body, extend(termBound, param), typeBound)
		if ty == n.ParamType && param == n.Param && body2 == n.Body {
			return n
		}
		return &ast.PolyLambda{Param: param, ParamType: ty, Body: body2}
	case *ast.TypeAbs:
		param, body := be.renameTypeCapture(n.TypeParam, n.Body, termBound, typeBound)
		body2 := be.walk(body, termBound, extend(typeBound, param))
		if param == n.TypeParam && body2 == n.Body {
			return n
		}
		return &ast.TypeAbs{TypeParam: param, Body: body2}
	case *ast.Inst:
		term := be.walk(n.Term, termBound, typeBound)
		arg := be.walk(n.TypeArg, termBound, typeBound)
		if term == n.Term && arg == n.TypeArg {
			return n
		}
		return &ast.Inst{Term: term, TypeArg: arg}
	case *ast.Let:
		boundVal := be.walk(n.Bound, termBound, typeBound)
		name, body := be.renameTermCapture(n.Name, n.Body, termBound)
		body2 := be.walk(body, extend(termBound, name), typeBound)
		if boundVal == n.Bound && name == n.Name && body2 == n.Body {
			return n
		}
		return &ast.Let{Name: name, Bound: boundVal, Body: body2}
	case *ast.Match:
		scrutinee := be.walk(n.Scrutinee, termBound, typeBound)
		returnType := be.walk(n.ReturnType, termBound, typeBound)
		arms := make([]ast.MatchArm, len(n.Arms))
		changed := scrutinee != n.Scrutinee || returnType != n.ReturnType
		for i, arm := range n.Arms {
			next := be.walkArm(arm, termBound, typeBound)
			arms[i] = next
			if !sameArm(next, arm) {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &ast.Match{Scrutinee: scrutinee, ReturnType: returnType, Arms: arms}
	case *ast.App:
		left := be.walk(n.Left, termBound, typeBound)
		right := be.walk(n.Right, termBound, typeBound)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	case *ast.Forall:
		param, body := be.renameTypeCapture(n.TypeParam, n.Body, termBound, typeBound)
		body2 := be.walk(body, termBound, extend(typeBound, param))
		if param == n.TypeParam && body2 == n.Body {
			return n
		}
		return &ast.Forall{TypeParam: param, Body: body2}
	case *ast.TypeApp:
		fn := be.walk(n.Fn, termBound, typeBound)
		arg := be.walk(n.Arg, termBound, typeBound)
		if fn == n.Fn && arg == n.Arg {
			return n
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}
	default:
		return v
	}
}

// renameTermCapture alpha-renames a term binder only when a
// substitution that will fire in body has the binder's name free in
// its replacement. Doing nothing otherwise preserves the identity
// guarantee for no-op batches.
func (be *batchEngine) renameTermCapture(param string, body ast.Value, termBound nameset) (string, ast.Value) {
	fvs := be.activeTermReplFVs(body, termBound, []string{param})
	if !has(fvs, param) {
		return param, body
	}
	avoid := union(fvs, termBound, be.an.FreeTermNames(body))
	fresh := Fresh(param, avoid)
	return fresh, RenameTermBinder(body, param, fresh)
}

func (be *batchEngine) renameTypeCapture(param string, body ast.Value, termBound, typeBound nameset) (string, ast.Value) {
	fvs := be.activeTypeReplFVs(body, termBound, typeBound, []string{param})
	if !has(fvs, param) {
		return param, body
	}
	avoid := union(fvs, typeBound, be.an.FreeTypeNames(body))
	fresh := Fresh(param, avoid)
	return fresh, RenameTypeBinder(body, param, fresh)
}

func (be *batchEngine) walkArm(arm ast.MatchArm, termBound, typeBound nameset) ast.MatchArm {
	params := arm.Params
	body := arm.Body
	fvs := be.activeTermReplFVs(body, termBound, params)
	copied := false
	for i, p := range params {
		if !has(fvs, p) {
			continue
		}
		avoid := union(fvs, termBound, be.an.FreeTermNames(body), extend(nil, params...))
		fresh := Fresh(p, avoid)
		body = RenameTermBinder(body, p, fresh)
		if !copied {
			params = append([]string(nil), arm.Params...)
			copied = true
		}
		params[i] = fresh
	}
	body = be.walk(body, extend(termBound, params...), typeBound)
	return ast.MatchArm{Constructor: arm.Constructor, Params: params, Body: body}
}
