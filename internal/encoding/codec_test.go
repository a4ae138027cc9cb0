package encoding

import (
	"testing"

	"github.com/triplang/triplang/internal/ast"
)

func pv(name string) *ast.PolyVar { return &ast.PolyVar{Name: name} }
func tv(name string) *ast.TypeVar { return &ast.TypeVar{Name: name} }

func TestValueRoundTrip(t *testing.T) {
	values := map[string]ast.Value{
		"variable": pv("x"),
		"abstraction": &ast.PolyLambda{
			Param:     "x",
			ParamType: &ast.TypeApp{Fn: &ast.TypeApp{Fn: tv("->"), Arg: tv("X")}, Arg: tv("X")},
			Body:      pv("x"),
		},
		"type abstraction": &ast.TypeAbs{TypeParam: "X", Body: &ast.Inst{Term: pv("f"), TypeArg: tv("X")}},
		"let": &ast.Let{Name: "y", Bound: pv("x"), Body: pv("y")},
		"match": &ast.Match{
			Scrutinee:  pv("m"),
			ReturnType: tv("U"),
			Arms: []ast.MatchArm{
				{Constructor: "Some", Params: []string{"v"}, Body: pv("v")},
				{Constructor: "None", Body: pv("z")},
			},
		},
		"ski": &ast.App{
			Left:  &ast.App{Left: &ast.Combinator{Sym: "S"}, Right: &ast.Combinator{Sym: "K"}},
			Right: &ast.Combinator{Sym: "I"},
		},
		"untyped": &ast.Lambda{Param: "x", Body: &ast.App{Left: &ast.Var{Name: "x"}, Right: &ast.Var{Name: "x"}}},
		"typed":   &ast.TypedLambda{Param: "x", ParamType: tv("Nat"), Body: &ast.Var{Name: "x"}},
		"forall":  &ast.Forall{TypeParam: "X", Body: &ast.TypeApp{Fn: tv("List"), Arg: tv("X")}},
	}

	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !ast.Equal(v, back) {
				t.Errorf("round trip changed value:\n in:  %v\n out: %v", v, back)
			}
		})
	}
}

func TestProgramRoundTrip(t *testing.T) {
	p := &ast.Program{Definitions: []ast.Definition{
		&ast.ModuleDecl{Name: "Main"},
		&ast.ImportDecl{Name: "foo", Ref: "Other"},
		&ast.PolyDef{Name: "id", Term: &ast.PolyLambda{Param: "x", ParamType: tv("T"), Body: pv("x")}},
		&ast.PolyDef{Name: "loop", Rec: true, Term: pv("loop")},
		&ast.TypedDef{Name: "w", Term: &ast.TypedLambda{Param: "x", ParamType: tv("Nat"), Body: &ast.Var{Name: "x"}}},
		&ast.UntypedDef{Name: "k", Term: &ast.Lambda{Param: "x", Body: &ast.Var{Name: "x"}}},
		&ast.CombinatorDef{Name: "s", Term: &ast.Combinator{Sym: "S"}},
		&ast.TypeDef{Name: "Id", Type: &ast.Forall{TypeParam: "X", Body: tv("X")}},
		&ast.DataDef{
			Name:       "Option",
			TypeParams: []string{"A"},
			Constructors: []ast.DataConstructor{
				{Name: "Some", Fields: []ast.Value{tv("A")}},
				{Name: "None"},
			},
		},
		&ast.ExportDecl{Name: "id"},
	}}

	data, err := EncodeProgram(p)
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}
	back, err := DecodeProgram(data)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if !ast.ProgramEqual(p, back) {
		t.Errorf("program round trip changed structure")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xFF, 0x00}); err == nil {
		t.Errorf("garbage decoded without error")
	}
}

func TestEmptyNameRoundTrip(t *testing.T) {
	data, err := Encode(&ast.Combinator{Sym: ""})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c, ok := back.(*ast.Combinator); !ok || c.Sym != "" {
		t.Errorf("empty name round trip = %v", back)
	}
}
