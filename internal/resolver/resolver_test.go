package resolver

import (
	"testing"

	"github.com/triplang/triplang/internal/analyzer"
	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/symbols"
)

func pv(name string) *ast.PolyVar { return &ast.PolyVar{Name: name} }
func tv(name string) *ast.TypeVar { return &ast.TypeVar{Name: name} }

func index(t *testing.T, p *ast.Program) *symbols.Table {
	t.Helper()
	table, err := symbols.Index(p)
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	return table
}

func TestResolveInlinesDefinition(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "id", Term: &ast.PolyLambda{Param: "x", ParamType: tv("Nat"), Body: pv("x")}},
		&ast.PolyDef{Name: "main", Term: &ast.App{Left: pv("id"), Right: pv("0")}},
		&ast.TypeDef{Name: "Nat", Type: &ast.Forall{TypeParam: "X", Body: tv("X")}},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	main := got.Definitions[2].(*ast.PolyDef).Term
	app, ok := main.(*ast.App)
	if !ok {
		t.Fatalf("main = %T", main)
	}
	lam, ok := app.Left.(*ast.PolyLambda)
	if !ok {
		t.Fatalf("id not inlined: %T", app.Left)
	}
	// The id body's annotation resolved against the Nat definition.
	if !ast.Equal(lam.ParamType, &ast.Forall{TypeParam: "X", Body: tv("X")}) {
		t.Errorf("annotation not resolved: %v", lam.ParamType)
	}
}

func TestResolveUnresolvedExternalTerm(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "main", Term: pv("foo")},
	}}
	_, err := Resolve(p, index(t, p))
	if err == nil {
		t.Fatalf("Resolve() succeeded with free foo")
	}
	if err.Code != diagnostics.ErrR001 {
		t.Errorf("code = %s, want %s", err.Code, diagnostics.ErrR001)
	}
	if len(err.Names) != 1 || err.Names[0] != "foo" {
		t.Errorf("error does not name foo: %v", err.Names)
	}
}

func TestResolveImportTolerated(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.ImportDecl{Name: "foo", Ref: "Other"},
		&ast.PolyDef{Name: "main", Term: pv("foo")},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	main := got.Definitions[2].(*ast.PolyDef).Term
	if !ast.Equal(main, pv("foo")) {
		t.Errorf("imported foo should stay free, got %v", main)
	}
}

func TestResolveUnresolvedExternalType(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "main", Term: &ast.PolyLambda{Param: "x", ParamType: tv("Mystery"), Body: pv("x")}},
	}}
	_, err := Resolve(p, index(t, p))
	if err == nil || err.Code != diagnostics.ErrR002 {
		t.Errorf("err = %v, want %s", err, diagnostics.ErrR002)
	}
}

func TestResolveTransitiveFixedPoint(t *testing.T) {
	// c -> b -> a across two sweeps.
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "a", Term: pv("0")},
		&ast.PolyDef{Name: "b", Term: pv("a")},
		&ast.PolyDef{Name: "c", Term: pv("b")},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	c := got.Definitions[3].(*ast.PolyDef).Term
	if !ast.Equal(c, pv("0")) {
		t.Errorf("c = %v, want 0", c)
	}
}

func TestResolveIdempotent(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "a", Term: pv("1")},
		&ast.PolyDef{Name: "b", Term: &ast.App{Left: pv("a"), Right: pv("2")}},
	}}
	table := index(t, p)
	once, err := Resolve(p, table)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	twice, err := Resolve(once, table)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if !ast.ProgramEqual(once, twice) {
		t.Errorf("resolution not idempotent")
	}
}

func TestResolveRecursiveDefinitionKeepsOwnName(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "loop", Rec: true, Term: &ast.App{Left: pv("loop"), Right: pv("0")}},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	loop := got.Definitions[1].(*ast.PolyDef).Term
	want := &ast.App{Left: pv("loop"), Right: pv("0")}
	if !ast.Equal(loop, want) {
		t.Errorf("recursive body changed: %v", loop)
	}
}

func TestResolveCycleReported(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "a", Term: pv("b")},
		&ast.PolyDef{Name: "b", Term: pv("a")},
	}}
	_, err := Resolve(p, index(t, p))
	if err == nil || err.Code != diagnostics.ErrR005 {
		t.Errorf("err = %v, want %s", err, diagnostics.ErrR005)
	}
}

func TestResolveCrossCalculusLowering(t *testing.T) {
	// A lambda-var referencing a poly definition gets the erased form.
	polyBody := &ast.Inst{
		Term:    &ast.PolyLambda{Param: "x", ParamType: tv("Nat"), Body: pv("x")},
		TypeArg: tv("Nat"),
	}
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "id", Term: polyBody},
		&ast.UntypedDef{Name: "use", Term: &ast.App{Left: &ast.Var{Name: "id"}, Right: &ast.Var{Name: "y"}}},
		&ast.UntypedDef{Name: "y", Term: &ast.Lambda{Param: "w", Body: &ast.Var{Name: "w"}}},
		&ast.TypeDef{Name: "Nat", Type: &ast.Forall{TypeParam: "X", Body: tv("X")}},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	use := got.Definitions[2].(*ast.UntypedDef).Term
	app := use.(*ast.App)
	if _, ok := app.Left.(*ast.TypedLambda); !ok {
		t.Errorf("poly def not lowered at lambda-var site: %T", app.Left)
	}
}

func TestResolveDataTypeNamesStayNominal(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.DataDef{Name: "Option", TypeParams: []string{"A"},
			Constructors: []ast.DataConstructor{{Name: "Some", Fields: []ast.Value{tv("A")}}, {Name: "None"}}},
		&ast.PolyDef{Name: "main", Term: &ast.PolyLambda{Param: "x", ParamType: &ast.TypeApp{Fn: tv("Option"), Arg: tv("Nat")}, Body: pv("x")}},
		&ast.TypeDef{Name: "Nat", Type: &ast.Forall{TypeParam: "X", Body: tv("X")}},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	main := got.Definitions[2].(*ast.PolyDef).Term.(*ast.PolyLambda)
	app := main.ParamType.(*ast.TypeApp)
	if !ast.Equal(app.Fn, tv("Option")) {
		t.Errorf("data name rewritten: %v", app.Fn)
	}
	if !ast.Equal(app.Arg, &ast.Forall{TypeParam: "X", Body: tv("X")}) {
		t.Errorf("type argument not resolved: %v", app.Arg)
	}
}

func TestSystemFToTypedLambda(t *testing.T) {
	v := &ast.TypeAbs{TypeParam: "X",
		Body: &ast.Inst{
			Term: &ast.PolyLambda{Param: "x", ParamType: tv("X"),
				Body: &ast.Let{Name: "y", Bound: pv("x"), Body: pv("y")}},
			TypeArg: tv("X"),
		}}
	got := SystemFToTypedLambda(v)
	lam, ok := got.(*ast.TypedLambda)
	if !ok {
		t.Fatalf("lowered = %T", got)
	}
	app, ok := lam.Body.(*ast.App)
	if !ok {
		t.Fatalf("let not lowered: %T", lam.Body)
	}
	if _, ok := app.Left.(*ast.Lambda); !ok {
		t.Errorf("let binder not an untyped lambda: %T", app.Left)
	}
	if !ast.Equal(app.Right, &ast.Var{Name: "x"}) {
		t.Errorf("bound value = %v", app.Right)
	}
}

func TestResolvedProgramClosed(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.PolyDef{Name: "zero", Term: pv("0")},
		&ast.PolyDef{Name: "wrap", Term: &ast.PolyLambda{Param: "x", ParamType: tv("Nat"), Body: pv("zero")}},
		&ast.TypeDef{Name: "Nat", Type: &ast.Forall{TypeParam: "X", Body: tv("X")}},
	}}
	got, err := Resolve(p, index(t, p))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	an := analyzer.New()
	for _, def := range got.Definitions {
		body := ast.TermBody(def)
		if body == nil {
			continue
		}
		refs := an.ExternalRefs(body)
		for name := range refs.Terms {
			t.Errorf("%s: free term %q after resolution", def.DefName(), name)
		}
		for name := range refs.Types {
			if name != "->" {
				t.Errorf("%s: free type %q after resolution", def.DefName(), name)
			}
		}
	}
}
