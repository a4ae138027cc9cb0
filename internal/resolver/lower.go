package resolver

import (
	"github.com/triplang/triplang/internal/ast"
)

// SystemFToTypedLambda erases the second-order structure of a System F
// term so it can stand in a simply-typed position: type abstractions
// and instantiations vanish, value abstractions keep their annotations,
// and let becomes an immediate application.
func SystemFToTypedLambda(v ast.Value) ast.Value {
	switch n := v.(type) {
	case *ast.PolyVar:
		return &ast.Var{Name: n.Name}
	case *ast.PolyLambda:
		return &ast.TypedLambda{Param: n.Param, ParamType: n.ParamType, Body: SystemFToTypedLambda(n.Body)}
	case *ast.TypeAbs:
		return SystemFToTypedLambda(n.Body)
	case *ast.Inst:
		return SystemFToTypedLambda(n.Term)
	case *ast.Let:
		// No annotation is derivable without inference; the binder
		// erases to an untyped redex.
		return &ast.App{
			Left:  &ast.Lambda{Param: n.Name, Body: SystemFToTypedLambda(n.Body)},
			Right: SystemFToTypedLambda(n.Bound),
		}
	case *ast.Lambda:
		body := SystemFToTypedLambda(n.Body)
		if body == n.Body {
			return n
		}
		return &ast.Lambda{Param: n.Param, Body: body}
	case *ast.TypedLambda:
		body := SystemFToTypedLambda(n.Body)
		if body == n.Body {
			return n
		}
		return &ast.TypedLambda{Param: n.Param, ParamType: n.ParamType, Body: body}
	case *ast.App:
		left := SystemFToTypedLambda(n.Left)
		right := SystemFToTypedLambda(n.Right)
		if left == n.Left && right == n.Right {
			return n
		}
		return &ast.App{Left: left, Right: right}
	case *ast.Match:
		// Matches are desugared before lowering runs; erase through
		// the pieces if one survives.
		arms := make([]ast.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = ast.MatchArm{Constructor: arm.Constructor, Params: arm.Params, Body: SystemFToTypedLambda(arm.Body)}
		}
		return &ast.Match{Scrutinee: SystemFToTypedLambda(n.Scrutinee), ReturnType: n.ReturnType, Arms: arms}
	default:
		return v
	}
}
