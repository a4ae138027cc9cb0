package subst

import (
	"testing"

	"github.com/triplang/triplang/internal/ast"
)

func TestBatchEmptyIsIdentity(t *testing.T) {
	v := &ast.App{Left: pv("f"), Right: pv("x")}
	if got := Batch(v, nil, nil); got != ast.Value(v) {
		t.Errorf("empty batch rebuilt the value")
	}
}

func TestBatchNoKeyFiresIsIdentity(t *testing.T) {
	v := &ast.PolyLambda{Param: "x", ParamType: tv("T"), Body: pv("x")}
	terms := map[string]TermReplacement{"unused": {Poly: pv("y")}}
	if got := Batch(v, terms, nil); got != ast.Value(v) {
		t.Errorf("no-op batch rebuilt the value")
	}
}

func TestBatchSubstitutesBothNamespaces(t *testing.T) {
	v := &ast.Inst{Term: pv("f"), TypeArg: tv("T")}
	terms := map[string]TermReplacement{"f": {Poly: pv("g")}}
	types := map[string]ast.Value{"T": tv("U")}
	got := Batch(v, terms, types)
	want := &ast.Inst{Term: pv("g"), TypeArg: tv("U")}
	if !ast.Equal(got, want) {
		t.Errorf("batch result = %v", got)
	}
}

func TestBatchIsNonChaining(t *testing.T) {
	// x := y while y := z in the same pass: the inserted y must not be
	// rewritten to z.
	v := pv("x")
	terms := map[string]TermReplacement{
		"x": {Poly: pv("y")},
		"y": {Poly: pv("z")},
	}
	got := Batch(v, terms, nil)
	if !ast.Equal(got, pv("y")) {
		t.Errorf("batch chained: %v", got)
	}
}

func TestBatchNatLiteralKeyIgnored(t *testing.T) {
	v := pv("7")
	terms := map[string]TermReplacement{"7": {Poly: pv("seven")}}
	if got := Batch(v, terms, nil); got != ast.Value(v) {
		t.Errorf("nat literal substituted by batch")
	}
}

func TestBatchRespectsBinders(t *testing.T) {
	v := &ast.PolyLambda{Param: "x", ParamType: tv("T"), Body: pv("x")}
	terms := map[string]TermReplacement{"x": {Poly: pv("y")}}
	if got := Batch(v, terms, nil); got != ast.Value(v) {
		t.Errorf("bound occurrence substituted: %v", got)
	}
}

func TestBatchCaptureAvoidance(t *testing.T) {
	// \y : T. x with x := y: the binder renames before insertion.
	v := &ast.PolyLambda{Param: "y", ParamType: tv("T"), Body: pv("x")}
	terms := map[string]TermReplacement{"x": {Poly: pv("y")}}
	got := Batch(v, terms, nil)

	lam, ok := got.(*ast.PolyLambda)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if lam.Param == "y" {
		t.Fatalf("capturing binder kept its name")
	}
	if !ast.Equal(lam.Body, pv("y")) {
		t.Errorf("body = %v, want inserted y", lam.Body)
	}
}

func TestBatchTypeCaptureAvoidance(t *testing.T) {
	// forall X. T with T := X renames the forall binder.
	v := &ast.Forall{TypeParam: "X", Body: tv("T")}
	types := map[string]ast.Value{"T": tv("X")}
	got := Batch(v, nil, types)

	fa, ok := got.(*ast.Forall)
	if !ok {
		t.Fatalf("result is %T", got)
	}
	if fa.TypeParam == "X" {
		t.Fatalf("capturing forall kept its name")
	}
	if !ast.Equal(fa.Body, tv("X")) {
		t.Errorf("body = %v", fa.Body)
	}
}

func TestBatchLeafFlavorSelectsReplacement(t *testing.T) {
	// The same key replaces differently at untyped and System F leaves.
	terms := map[string]TermReplacement{
		"f": {Untyped: uv("erased"), Poly: pv("generic")},
	}
	if got := Batch(uv("f"), terms, nil); !ast.Equal(got, uv("erased")) {
		t.Errorf("untyped leaf = %v", got)
	}
	if got := Batch(pv("f"), terms, nil); !ast.Equal(got, pv("generic")) {
		t.Errorf("poly leaf = %v", got)
	}
}

func TestBatchMissingFlavorLeavesLeaf(t *testing.T) {
	// A typed definition has no System F replacement shape.
	v := pv("f")
	terms := map[string]TermReplacement{"f": {Untyped: uv("t")}}
	if got := Batch(v, terms, nil); got != ast.Value(v) {
		t.Errorf("poly leaf replaced by untyped-only entry: %v", got)
	}
}
