package subst

import (
	"github.com/triplang/triplang/internal/ast"
)

// RenameTermBinder renames every term binder named old to next, along
// with every free occurrence of old, halting under a pre-existing
// binder of next (shadowing). Type positions are untouched: term names
// do not occur in types.
func RenameTermBinder(v ast.Value, old, next string) ast.Value {
	if v == nil || old == next {
		return v
	}
	switch n := v.(type) {
	case *ast.Var:
		if n.Name == old {
			return &ast.Var{Name: next}
		}
		return n
	case *ast.PolyVar:
		if n.Name == old {
			return &ast.PolyVar{Name: next}
		}
		return n
	case *ast.Lambda:
		if n.Param == old {
			return &ast.Lambda{Param: next, Body: RenameTermBinder(n.Body, old, next)}
		}
		if n.Param == next {
			return n
		}
		body := RenameTermBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.Lambda{Param: n.Param, Body: body}
	case *ast.TypedLambda:
		if n.Param == old {
			return &ast.TypedLambda{Param: next, ParamType: n.ParamType, Body: RenameTermBinder(n.Body, old, next)}
		}
		if n.Param == next {
			return n
		}
		body := RenameTermBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: n.Param, ParamType: n.ParamType, Body: body}
	case *ast.PolyLambda:
		if n.Param == old {
			return &ast.PolyLambda{Param: next, ParamType: n.ParamType, Body: RenameTermBinder(n.Body, old, next)}
		}
		if n.Param == next {
			return n
		}
		body := RenameTermBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.PolyLambda{Param: n.Param, ParamType: n.ParamType, Body: body}
	case *ast.TypeAbs:
		body := RenameTermBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.TypeAbs{TypeParam: n.TypeParam, Body: body}
	case *ast.Inst:
		term := RenameTermBinder(n.Term, old, next)
		if term == n.Term {
			return n
		}
		return &ast.Inst{Term: term, TypeArg: n.TypeArg}
	case *ast.Let:
		bound := RenameTermBinder(n.Bound, old, next)
		if n.Name == old {
			return &ast.Let{Name: next, Bound: bound, Body: RenameTermBinder(n.Body, old, next)}
		}
		if n.Name == next {
			if bound == n.Bound {
				return n
			}
			return &ast.Let{Name: n.Name, Bound: bound, Body: n.Body}
		}
		body := RenameTermBinder(n.Body, old, next)
		if bound == n.Bound && body == n.Body {
			return n
		}
		return &ast.Let{Name: n.Name, Bound: bound, Body: body}
	case *ast.Match:
		scrutinee := RenameTermBinder(n.Scrutinee, old, next)
		arms := make([]ast.MatchArm, len(n.Arms))
		changed := scrutinee != n.Scrutinee
		for i, arm := range n.Arms {
			arms[i] = renameArm(arm, old, next)
			if !sameArm(arms[i], arm) {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &ast.Match{Scrutinee: scrutinee, ReturnType: n.ReturnType, Arms: arms}
	case *ast.App:
		left := RenameTermBinder(n.Left, old, next)
		right := RenameTermBinder(n.Right, old, next)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	default:
		// Combinator atoms and pure type nodes carry no term names.
		return v
	}
}

func renameArm(arm ast.MatchArm, old, next string) ast.MatchArm {
	binds := func(name string) bool {
		for _, p := range arm.Params {
			if p == name {
				return true
			}
		}
		return false
	}
	if binds(old) {
		if binds(next) {
			// Renaming would collide with a sibling param; the arm
			// already shadows old, so nothing to do.
			return arm
		}
		params := make([]string, len(arm.Params))
		for i, p := range arm.Params {
			if p == old {
				params[i] = next
			} else {
				params[i] = p
			}
		}
		return ast.MatchArm{
			Constructor: arm.Constructor,
			Params:      params,
			Body:        RenameTermBinder(arm.Body, old, next),
		}
	}
	if binds(next) {
		return arm
	}
	return ast.MatchArm{
		Constructor: arm.Constructor,
		Params:      arm.Params,
		Body:        RenameTermBinder(arm.Body, old, next),
	}
}

func sameArm(a, b ast.MatchArm) bool {
	if a.Constructor != b.Constructor || a.Body != b.Body || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

// RenameTypeBinder is the type-namespace analog: it renames forall and
// type-abstraction binders named old to next together with free
// type-variable occurrences of old, halting under a shadowing binder of
// next. Term binders are transparent; their annotations recurse.
func RenameTypeBinder(v ast.Value, old, next string) ast.Value {
	if v == nil || old == next {
		return v
	}
	switch n := v.(type) {
	case *ast.TypeVar:
		if n.Name == old {
			return &ast.TypeVar{Name: next}
		}
		return n
	case *ast.Forall:
		if n.TypeParam == old {
			return &ast.Forall{TypeParam: next, Body: RenameTypeBinder(n.Body, old, next)}
		}
		if n.TypeParam == next {
			return n
		}
		body := RenameTypeBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.Forall{TypeParam: n.TypeParam, Body: body}
	case *ast.TypeAbs:
		if n.TypeParam == old {
			return &ast.TypeAbs{TypeParam: next, Body: RenameTypeBinder(n.Body, old, next)}
		}
		if n.TypeParam == next {
			return n
		}
		body := RenameTypeBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.TypeAbs{TypeParam: n.TypeParam, Body: body}
	case *ast.TypeApp:
		fn := RenameTypeBinder(n.Fn, old, next)
		arg := RenameTypeBinder(n.Arg, old, next)
		if fn == n.Fn && arg == n.Arg {
			return n
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}
	case *ast.Lambda:
		body := RenameTypeBinder(n.Body, old, next)
		if body == n.Body {
			return n
		}
		return &ast.Lambda{Param: n.Param, Body: body}
	case *ast.TypedLambda:
		ty := RenameTypeBinder(n.ParamType, old, next)
		body := RenameTypeBinder(n.Body, old, next)
		if ty == n.ParamType && body == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: n.Param, ParamType: ty, Body: body}
	case *ast.PolyLambda:
		ty := RenameTypeBinder(n.ParamType, old, next)
		body := RenameTypeBinder(n.Body, old, next)
		if ty == n.ParamType && body == n.Body {
			return n
		}
		return &ast.PolyLambda{Param: n.Param, ParamType: ty, Body: body}
	case *ast.Inst:
		term := RenameTypeBinder(n.Term, old, next)
		arg := RenameTypeBinder(n.TypeArg, old, next)
		if term == n.Term && arg == n.TypeArg {
			return n
		}
		return &ast.Inst{Term: term, TypeArg: arg}
	case *ast.Let:
		bound := RenameTypeBinder(n.Bound, old, next)
		body := RenameTypeBinder(n.Body, old, next)
		if bound == n.Bound && body == n.Body {
			return n
		}
		return &ast.Let{Name: n.Name, Bound: bound, Body: body}
	case *ast.Match:
		scrutinee := RenameTypeBinder(n.Scrutinee, old, next)
		returnType := RenameTypeBinder(n.ReturnType, old, next)
		arms := make([]ast.MatchArm, len(n.Arms))
		changed := scrutinee != n.Scrutinee || returnType != n.ReturnType
		for i, arm := range n.Arms {
			body := RenameTypeBinder(arm.Body, old, next)
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
		left := RenameTypeBinder(n.Left, old, next)
		right := RenameTypeBinder(n.Right, old, next)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	default:
		return v
	}
}
