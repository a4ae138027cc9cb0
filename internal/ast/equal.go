package ast

// Equal reports structural equality of two values. Nil equals nil.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch av := a.(type) {
	case *Var:
		bv, ok := b.(*Var)
		return ok && av.Name == bv.Name
	case *Lambda:
		bv, ok := b.(*Lambda)
		return ok && av.Param == bv.Param && Equal(av.Body, bv.Body)
	case *TypedLambda:
		bv, ok := b.(*TypedLambda)
		return ok && av.Param == bv.Param && Equal(av.ParamType, bv.ParamType) && Equal(av.Body, bv.Body)
	case *PolyVar:
		bv, ok := b.(*PolyVar)
		return ok && av.Name == bv.Name
	case *PolyLambda:
		bv, ok := b.(*PolyLambda)
		return ok && av.Param == bv.Param && Equal(av.ParamType, bv.ParamType) && Equal(av.Body, bv.Body)
	case *TypeAbs:
		bv, ok := b.(*TypeAbs)
		return ok && av.TypeParam == bv.TypeParam && Equal(av.Body, bv.Body)
	case *Inst:
		bv, ok := b.(*Inst)
		return ok && Equal(av.Term, bv.Term) && Equal(av.TypeArg, bv.TypeArg)
	case *Let:
		bv, ok := b.(*Let)
		return ok && av.Name == bv.Name && Equal(av.Bound, bv.Bound) && Equal(av.Body, bv.Body)
	case *Match:
		bv, ok := b.(*Match)
		if !ok || len(av.Arms) != len(bv.Arms) {
			return false
		}
		if !Equal(av.Scrutinee, bv.Scrutinee) || !Equal(av.ReturnType, bv.ReturnType) {
			return false
		}
		for i := range av.Arms {
			if !armEqual(av.Arms[i], bv.Arms[i]) {
				return false
			}
		}
		return true
	case *App:
		bv, ok := b.(*App)
		return ok && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *Combinator:
		bv, ok := b.(*Combinator)
		return ok && av.Sym == bv.Sym
	case *TypeVar:
		bv, ok := b.(*TypeVar)
		return ok && av.Name == bv.Name
	case *Forall:
		bv, ok := b.(*Forall)
		return ok && av.TypeParam == bv.TypeParam && Equal(av.Body, bv.Body)
	case *TypeApp:
		bv, ok := b.(*TypeApp)
		return ok && Equal(av.Fn, bv.Fn) && Equal(av.Arg, bv.Arg)
	default:
		return false
	}
}

func armEqual(a, b MatchArm) bool {
	if a.Constructor != b.Constructor || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return Equal(a.Body, b.Body)
}

// DefEqual reports structural equality of two definitions, ignoring
// token positions.
func DefEqual(a, b Definition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ad := a.(type) {
	case *PolyDef:
		bd, ok := b.(*PolyDef)
		return ok && ad.Name == bd.Name && ad.Rec == bd.Rec && Equal(ad.Term, bd.Term)
	case *TypedDef:
		bd, ok := b.(*TypedDef)
		return ok && ad.Name == bd.Name && Equal(ad.Term, bd.Term)
	case *UntypedDef:
		bd, ok := b.(*UntypedDef)
		return ok && ad.Name == bd.Name && Equal(ad.Term, bd.Term)
	case *CombinatorDef:
		bd, ok := b.(*CombinatorDef)
		return ok && ad.Name == bd.Name && Equal(ad.Term, bd.Term)
	case *TypeDef:
		bd, ok := b.(*TypeDef)
		return ok && ad.Name == bd.Name && Equal(ad.Type, bd.Type)
	case *DataDef:
		bd, ok := b.(*DataDef)
		if !ok || ad.Name != bd.Name || len(ad.TypeParams) != len(bd.TypeParams) || len(ad.Constructors) != len(bd.Constructors) {
			return false
		}
		for i := range ad.TypeParams {
			if ad.TypeParams[i] != bd.TypeParams[i] {
				return false
			}
		}
		for i := range ad.Constructors {
			ac, bc := ad.Constructors[i], bd.Constructors[i]
			if ac.Name != bc.Name || len(ac.Fields) != len(bc.Fields) {
				return false
			}
			for j := range ac.Fields {
				if !Equal(ac.Fields[j], bc.Fields[j]) {
					return false
				}
			}
		}
		return true
	case *ModuleDecl:
		bd, ok := b.(*ModuleDecl)
		return ok && ad.Name == bd.Name
	case *ImportDecl:
		bd, ok := b.(*ImportDecl)
		return ok && ad.Name == bd.Name && ad.Ref == bd.Ref
	case *ExportDecl:
		bd, ok := b.(*ExportDecl)
		return ok && ad.Name == bd.Name
	default:
		return false
	}
}

// ProgramEqual reports structural equality of two programs.
func ProgramEqual(a, b *Program) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.Definitions) != len(b.Definitions) {
		return false
	}
	for i := range a.Definitions {
		if !DefEqual(a.Definitions[i], b.Definitions[i]) {
			return false
		}
	}
	return true
}
