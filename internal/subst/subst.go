// Package subst implements capture-avoiding substitution over the
// shared value AST, in both the term and type namespaces. Binders that
// would capture a free name of the replacement are alpha-renamed to a
// deterministic fresh name first.
package subst

import (
	"github.com/triplang/triplang/internal/analyzer"
	"github.com/triplang/triplang/internal/ast"
)

type nameset = map[string]struct{}

func extend(bound nameset, names ...string) nameset {
	next := make(nameset, len(bound)+len(names))
	for k := range bound {
		next[k] = struct{}{}
	}
	for _, n := range names {
		next[n] = struct{}{}
	}
	return next
}

func has(set nameset, name string) bool {
	_, ok := set[name]
	return ok
}

func union(sets ...nameset) nameset {
	out := make(nameset)
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

// Term substitutes term-name x by repl in v. Names in bound are
// treated as already bound by the caller and never substituted; nil
// means none.
func Term(v ast.Value, x string, repl ast.Value, bound nameset) ast.Value {
	if bound == nil {
		bound = nameset{}
	}
	e := &engine{an: analyzer.New()}
	e.fvRepl = e.an.FreeTermNames(repl)
	return e.term(v, x, repl, bound)
}

// Type substitutes type-name alpha by repl in v under the same
// contract as Term, in the type namespace.
func Type(v ast.Value, alpha string, repl ast.Value, bound nameset) ast.Value {
	if bound == nil {
		bound = nameset{}
	}
	e := &engine{an: analyzer.New()}
	e.fvRepl = e.an.FreeTypeNames(repl)
	return e.typ(v, alpha, repl, bound)
}

type engine struct {
	an     *analyzer.Analyzer
	fvRepl nameset
}

// freshFor picks a replacement binder name: it must avoid the
// replacement's free names, the caller's bound set, and every name free
// in the subtree being renamed.
func (e *engine) freshFor(base string, bound nameset, scope ast.Value, typeNS bool) string {
	var fvScope nameset
	if typeNS {
		fvScope = e.an.FreeTypeNames(scope)
	} else {
		fvScope = e.an.FreeTermNames(scope)
	}
	return Fresh(base, union(e.fvRepl, bound, fvScope))
}

func (e *engine) term(v ast.Value, x string, repl ast.Value, bound nameset) ast.Value {
	switch n := v.(type) {
	case *ast.Var:
		if n.Name == x && !has(bound, x) {
			return repl
		}
		return n
	case *ast.PolyVar:
		if ast.IsNatLiteral(n.Name) {
			return n
		}
		if n.Name == x && !has(bound, x) {
			return repl
		}
		return n
	case *ast.Lambda:
		if n.Param == x {
			return n
		}
		param, body := n.Param, n.Body
		if has(e.fvRepl, param) {
			fresh := e.freshFor(param, bound, n, false)
			body = RenameTermBinder(body, param, fresh)
			param = fresh
		}
		body = e.term(body, x, repl, extend(bound, param))
		if param == n.Param && body == n.Body {
			return n
		}
		return &ast.Lambda{Param: param, Body: body}
	case *ast.TypedLambda:
		if n.Param == x {
			return n
		}
		param, body := n.Param, n.Body
		if has(e.fvRepl, param) {
			fresh := e.freshFor(param, bound, n, false)
			body = RenameTermBinder(body, param, fresh)
			param = fresh
		}
		body = e.term(body, x, repl, extend(bound, param))
		if param == n.Param && body == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: param, ParamType: n.ParamType, Body: body}
	case *ast.PolyLambda:
		if n.Param == x {
			return n
		}
		param, body := n.Param, n.Body
		if has(e.fvRepl, param) {
			fresh := e.freshFor(param, bound, n, false)
			body = RenameTermBinder(body, param, fresh)
			param = fresh
		}
		body = e.term(body, x, repl, extend(bound, param))
		if param == n.Param && body == n.Body {
			return n
		}
		return &ast.PolyLambda{Param: param, ParamType: n.ParamType, Body: body}
	case *ast.TypeAbs:
		body := e.term(n.Body, x, repl, bound)
		if body == n.Body {
			return n
		}
		return &ast.TypeAbs{TypeParam: n.TypeParam, Body: body}
	case *ast.Inst:
		term := e.term(n.Term, x, repl, bound)
		if term == n.Term {
			return n
		}
		return &ast.Inst{Term: term, TypeArg: n.TypeArg}
	case *ast.Let:
		boundVal := e.term(n.Bound, x, repl, bound)
		name, body := n.Name, n.Body
		if name != x {
			if has(e.fvRepl, name) {
				fresh := e.freshFor(name, bound, n, false)
				body = RenameTermBinder(body, name, fresh)
				name = fresh
			}
			body = e.term(body, x, repl, extend(bound, name))
		}
		if boundVal == n.Bound && name == n.Name && body == n.Body {
			return n
		}
		return &ast.Let{Name: name, Bound: boundVal, Body: body}
	case *ast.Match:
		scrutinee := e.term(n.Scrutinee, x, repl, bound)
		arms := make([]ast.MatchArm, len(n.Arms))
		changed := scrutinee != n.Scrutinee
		for i, arm := range n.Arms {
			next := e.termArm(arm, x, repl, bound)
			arms[i] = next
			if !sameArm(next, arm) {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &ast.Match{Scrutinee: scrutinee, ReturnType: n.ReturnType, Arms: arms}
	case *ast.App:
		left := e.term(n.Left, x, repl, bound)
		right := e.term(n.Right, x, repl, bound)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	default:
		// Combinator atoms and pure type nodes contain no term names.
		return v
	}
}

// termArm capture-checks every arm param against the replacement's
// free names, then substitutes in the body under bound ∪ params.
func (e *engine) termArm(arm ast.MatchArm, x string, repl ast.Value, bound nameset) ast.MatchArm {
	params := arm.Params
	body := arm.Body
	for i, p := range params {
		if !has(e.fvRepl, p) {
			continue
		}
		avoid := union(e.fvRepl, bound, e.an.FreeTermNames(body), extend(nil, params...))
		fresh := Fresh(p, avoid)
		body = RenameTermBinder(body, p, fresh)
		if &params[0] == &arm.Params[0] {
			params = append([]string(nil), arm.Params...)
		}
		params[i] = fresh
	}
	body = e.term(body, x, repl, extend(bound, params...))
	return ast.MatchArm{Constructor: arm.Constructor, Params: params, Body: body}
}

func (e *engine) typ(v ast.Value, alpha string, repl ast.Value, bound nameset) ast.Value {
	switch n := v.(type) {
	case *ast.TypeVar:
		if n.Name == alpha && !has(bound, alpha) {
			return repl
		}
		return n
	case *ast.Forall:
		if n.TypeParam == alpha {
			return n
		}
		param, body := n.TypeParam, n.Body
		if has(e.fvRepl, param) {
			fresh := e.freshFor(param, bound, n, true)
			body = RenameTypeBinder(body, param, fresh)
			param = fresh
		}
		body = e.typ(body, alpha, repl, extend(bound, param))
		if param == n.TypeParam && body == n.Body {
			return n
		}
		return &ast.Forall{TypeParam: param, Body: body}
	case *ast.TypeAbs:
		if n.TypeParam == alpha {
			return n
		}
		param, body := n.TypeParam, n.Body
		if has(e.fvRepl, param) {
			fresh := e.freshFor(param, bound, n, true)
			body = RenameTypeBinder(body, param, fresh)
			param = fresh
		}
		body = e.typ(body, alpha, repl, extend(bound, param))
		if param == n.TypeParam && body == n.Body {
			return n
		}
		return &ast.TypeAbs{TypeParam: param, Body: body}
	case *ast.TypeApp:
		fn := e.typ(n.Fn, alpha, repl, bound)
		arg := e.typ(n.Arg, alpha, repl, bound)
		if fn == n.Fn && arg == n.Arg {
			return n
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}
	case *ast.Lambda:
		body := e.typ(n.Body, alpha, repl, bound)
		if body == n.Body {
			return n
		}
		return &ast.Lambda{Param: n.Param, Body: body}
	case *ast.TypedLambda:
		ty := e.typ(n.ParamType, alpha, repl, bound)
		body := e.typ(n.Body, alpha, repl, bound)
		if ty == n.ParamType && body == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: n.Param, ParamType: ty, Body: body}
	case *ast.PolyLambda:
		ty := e.typ(n.ParamType, alpha, repl, bound)
		body := e.typ(n.Body, alpha, repl, bound)
		if ty == n.ParamType && body == n.Body {
			return n
		}
		return &ast.PolyLambda{Param: n.Param, ParamType: ty, Body: body}
	case *ast.Inst:
		term := e.typ(n.Term, alpha, repl, bound)
		arg := e.typ(n.TypeArg, alpha, repl, bound)
		if term == n.Term && arg == n.TypeArg {
			return n
		}
		return &ast.Inst{Term: term, TypeArg: arg}
	case *ast.Let:
		boundVal := e.typ(n.Bound, alpha, repl, bound)
		body := e.typ(n.Body, alpha, repl, bound)
		if boundVal == n.Bound && body == n.Body {
			return n
		}
		return &ast.Let{Name: n.Name, Bound: boundVal, Body: body}
	case *ast.Match:
		scrutinee := e.typ(n.Scrutinee, alpha, repl, bound)
		returnType := e.typ(n.ReturnType, alpha, repl, bound)
		arms := make([]ast.MatchArm, len(n.Arms))
		changed := scrutinee != n.Scrutinee || returnType != n.ReturnType
		for i, arm := range n.Arms {
			body := e.typ(arm.Body, alpha, repl, bound)
			arms[i] = ast.MatchArm{Constructor: arm.Constructor, Params: arm.Params, Body: body}
			if body != arm.Body {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &ast.Match{Scrutinee: scrutinee, ReturnType: returnType, Arms: arms}
	case *ast.App:
		left := e.typ(n.Left, alpha, repl, bound)
		right := e.typ(n.Right, alpha, repl, bound)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	default:
		return v
	}
}
