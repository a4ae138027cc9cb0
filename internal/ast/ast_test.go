package ast

import (
	"math/big"
	"testing"
)

func TestParseNatLiteral(t *testing.T) {
	tests := []struct {
		name  string
		ident string
		want  string
		isNat bool
	}{
		{"zero", "0", "0", true},
		{"plain number", "42", "42", true},
		{"huge number", "123456789012345678901234567890", "123456789012345678901234567890", true},
		{"empty", "", "", false},
		{"letters", "succ", "", false},
		{"mixed", "4two", "", false},
		{"negative not a nat", "-1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNatLiteral(tt.ident)
			if ok != tt.isNat {
				t.Fatalf("ParseNatLiteral(%q) ok = %v, want %v", tt.ident, ok, tt.isNat)
			}
			if !ok {
				return
			}
			want, _ := new(big.Int).SetString(tt.want, 10)
			if got.Cmp(want) != 0 {
				t.Errorf("ParseNatLiteral(%q) = %s, want %s", tt.ident, got, tt.want)
			}
		})
	}
}

func TestEqualStructural(t *testing.T) {
	mk := func() Value {
		return &PolyLambda{
			Param:     "x",
			ParamType: &TypeVar{Name: "T"},
			Body: &Match{
				Scrutinee:  &PolyVar{Name: "x"},
				ReturnType: &TypeVar{Name: "U"},
				Arms: []MatchArm{
					{Constructor: "Some", Params: []string{"v"}, Body: &PolyVar{Name: "v"}},
					{Constructor: "None", Body: &PolyVar{Name: "z"}},
				},
			},
		}
	}
	a, b := mk(), mk()
	if a == b {
		t.Fatalf("distinct allocations compare pointer-equal")
	}
	if !Equal(a, b) {
		t.Errorf("structurally equal values reported unequal")
	}
}

func TestEqualDistinguishesVariants(t *testing.T) {
	if Equal(&Var{Name: "x"}, &PolyVar{Name: "x"}) {
		t.Errorf("lambda-var equals systemF-var")
	}
	if Equal(&TypeVar{Name: "T"}, &PolyVar{Name: "T"}) {
		t.Errorf("type-var equals systemF-var")
	}
}

func TestEqualNil(t *testing.T) {
	if !Equal(nil, nil) {
		t.Errorf("nil != nil")
	}
	if Equal(nil, &Var{Name: "x"}) {
		t.Errorf("nil equals a value")
	}
}

func TestDefEqualIgnoresTokens(t *testing.T) {
	a := &PolyDef{Name: "f", Term: &PolyVar{Name: "x"}}
	b := &PolyDef{Name: "f", Term: &PolyVar{Name: "x"}}
	b.Token.Line = 7
	if !DefEqual(a, b) {
		t.Errorf("token position affects equality")
	}
}

func TestTermBody(t *testing.T) {
	term := &PolyVar{Name: "x"}
	if TermBody(&PolyDef{Name: "f", Term: term}) != Value(term) {
		t.Errorf("poly body lost")
	}
	ty := &TypeVar{Name: "T"}
	if TermBody(&TypeDef{Name: "T", Type: ty}) != Value(ty) {
		t.Errorf("type body lost")
	}
	if TermBody(&ModuleDecl{Name: "M"}) != nil {
		t.Errorf("module has a body")
	}
}

func TestProgramModuleName(t *testing.T) {
	p := &Program{Definitions: []Definition{
		&PolyDef{Name: "f", Term: &PolyVar{Name: "x"}},
		&ModuleDecl{Name: "Main"},
	}}
	if p.ModuleName() != "Main" {
		t.Errorf("ModuleName = %q", p.ModuleName())
	}
	if (&Program{}).ModuleName() != "" {
		t.Errorf("empty program has a module name")
	}
}
