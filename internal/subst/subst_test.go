package subst

import (
	"testing"

	"github.com/triplang/triplang/internal/analyzer"
	"github.com/triplang/triplang/internal/ast"
)

func pv(name string) *ast.PolyVar { return &ast.PolyVar{Name: name} }
func tv(name string) *ast.TypeVar { return &ast.TypeVar{Name: name} }
func uv(name string) *ast.Var     { return &ast.Var{Name: name} }

func TestTermSubstLeaf(t *testing.T) {
	got := Term(pv("x"), "x", pv("y"), nil)
	if !ast.Equal(got, pv("y")) {
		t.Errorf("substituted leaf = %v", got)
	}
}

func TestTermSubstRespectsBoundSet(t *testing.T) {
	bound := map[string]struct{}{"x": {}}
	v := pv("x")
	got := Term(v, "x", pv("y"), bound)
	if got != ast.Value(v) {
		t.Errorf("bound name substituted")
	}
}

func TestTermSubstShadowing(t *testing.T) {
	// (\x : T. x) keeps its own x when substituting x.
	v := &ast.PolyLambda{Param: "x", ParamType: tv("T"), Body: pv("x")}
	got := Term(v, "x", pv("y"), nil)
	if got != ast.Value(v) {
		t.Errorf("shadowed binder body changed: %v", got)
	}
}

func TestTermSubstCaptureAvoidance(t *testing.T) {
	// (\y : T. x)[x := y] must not capture: the binder renames first.
	v := &ast.PolyLambda{Param: "y", ParamType: tv("T"), Body: pv("x")}
	got := Term(v, "x", pv("y"), nil)

	lam, ok := got.(*ast.PolyLambda)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if lam.Param == "y" {
		t.Fatalf("binder not renamed")
	}
	body, ok := lam.Body.(*ast.PolyVar)
	if !ok || body.Name != "y" {
		t.Errorf("body = %v, want free y", lam.Body)
	}
	// The replacement's y stays free.
	an := analyzer.New()
	refs := an.ExternalRefs(got)
	if _, free := refs.Terms["y"]; !free {
		t.Errorf("free y of replacement was captured")
	}
}

func TestTermSubstMatchArmCapture(t *testing.T) {
	// substTerm(match m [T] { Some x => x }, m, x) renames the arm's
	// binder and rewrites its body; the scrutinee becomes x.
	v := &ast.Match{
		Scrutinee:  pv("m"),
		ReturnType: tv("T"),
		Arms: []ast.MatchArm{
			{Constructor: "Some", Params: []string{"x"}, Body: pv("x")},
		},
	}
	got := Term(v, "m", pv("x"), nil)

	m, ok := got.(*ast.Match)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if !ast.Equal(m.Scrutinee, pv("x")) {
		t.Errorf("scrutinee = %v, want x", m.Scrutinee)
	}
	arm := m.Arms[0]
	if arm.Params[0] == "x" {
		t.Fatalf("arm param not renamed")
	}
	if !ast.Equal(arm.Body, pv(arm.Params[0])) {
		t.Errorf("arm body = %v, want %s", arm.Body, arm.Params[0])
	}
}

func TestTermSubstLet(t *testing.T) {
	// let y = x in y x: the bound value substitutes, the binder
	// renames away from the replacement's free y.
	v := &ast.Let{
		Name:  "y",
		Bound: pv("x"),
		Body:  &ast.App{Left: pv("y"), Right: pv("x")},
	}
	got := Term(v, "x", pv("y"), nil)

	let, ok := got.(*ast.Let)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if !ast.Equal(let.Bound, pv("y")) {
		t.Errorf("bound value = %v", let.Bound)
	}
	if let.Name == "y" {
		t.Fatalf("let binder not renamed")
	}
	want := &ast.App{Left: pv(let.Name), Right: pv("y")}
	if !ast.Equal(let.Body, want) {
		t.Errorf("let body = %v", let.Body)
	}
}

func TestTermSubstHygieneProperty(t *testing.T) {
	// freeTermVars(v') ⊆ (freeTermVars(v) \ {x}) ∪ freeTermVars(r)
	v := &ast.App{
		Left:  &ast.PolyLambda{Param: "f", ParamType: tv("T"), Body: &ast.App{Left: pv("f"), Right: pv("x")}},
		Right: &ast.Let{Name: "g", Bound: pv("x"), Body: pv("g")},
	}
	r := &ast.App{Left: pv("f"), Right: pv("g")}
	got := Term(v, "x", r, nil)

	an := analyzer.New()
	allowed := map[string]struct{}{"f": {}, "g": {}}
	for name := range an.ExternalRefs(got).Terms {
		if _, ok := allowed[name]; !ok {
			t.Errorf("unexpected free name %q", name)
		}
	}
}

func TestTermSubstNatLiteralOpaque(t *testing.T) {
	v := pv("42")
	if got := Term(v, "42", pv("y"), nil); got != ast.Value(v) {
		t.Errorf("nat literal substituted")
	}
}

func TestTypeSubstForall(t *testing.T) {
	// (forall X. X -> Y)[Y := X] renames the forall binder.
	arrow := func(a, b ast.Value) ast.Value {
		return &ast.TypeApp{Fn: &ast.TypeApp{Fn: tv("->"), Arg: a}, Arg: b}
	}
	v := &ast.Forall{TypeParam: "X", Body: arrow(tv("X"), tv("Y"))}
	got := Type(v, "Y", tv("X"), nil)

	fa, ok := got.(*ast.Forall)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if fa.TypeParam == "X" {
		t.Fatalf("forall binder not renamed")
	}
	want := arrow(tv(fa.TypeParam), tv("X"))
	if !ast.Equal(fa.Body, want) {
		t.Errorf("body = %v", fa.Body)
	}
}

func TestTypeSubstAnnotation(t *testing.T) {
	v := &ast.PolyLambda{Param: "x", ParamType: tv("A"), Body: pv("x")}
	got := Type(v, "A", tv("B"), nil)
	lam, ok := got.(*ast.PolyLambda)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if !ast.Equal(lam.ParamType, tv("B")) {
		t.Errorf("annotation = %v", lam.ParamType)
	}
}

func TestTypeSubstShadowedByTypeAbs(t *testing.T) {
	v := &ast.TypeAbs{TypeParam: "A", Body: &ast.Inst{Term: pv("x"), TypeArg: tv("A")}}
	if got := Type(v, "A", tv("B"), nil); got != ast.Value(v) {
		t.Errorf("shadowed type var substituted: %v", got)
	}
}

func TestRenameTermBinderShadowing(t *testing.T) {
	// Renaming x->y stops under an inner binder of y.
	inner := &ast.Lambda{Param: "y", Body: uv("x")}
	v := &ast.Lambda{Param: "x", Body: inner}
	got := RenameTermBinder(v, "x", "y")

	lam := got.(*ast.Lambda)
	if lam.Param != "y" {
		t.Fatalf("outer binder = %q", lam.Param)
	}
	if lam.Body != ast.Value(inner) {
		t.Errorf("descended under shadowing binder")
	}
}

func TestRenameTypeBinderRenamesOccurrences(t *testing.T) {
	v := &ast.Forall{TypeParam: "X", Body: &ast.TypeApp{Fn: tv("List"), Arg: tv("X")}}
	got := RenameTypeBinder(v, "X", "Z")
	want := &ast.Forall{TypeParam: "Z", Body: &ast.TypeApp{Fn: tv("List"), Arg: tv("Z")}}
	if !ast.Equal(got, want) {
		t.Errorf("renamed = %v", got)
	}
}
