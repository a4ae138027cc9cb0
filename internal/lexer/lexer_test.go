package lexer

import (
	"testing"

	"github.com/triplang/triplang/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `poly id = \x : Nat. x
-- a comment
type Id = forall X. X -> X
combinator skk = S K K
`
	want := []struct {
		typ    token.TokenType
		lexeme string
	}{
		{token.POLY, "poly"},
		{token.IDENT_LOWER, "id"},
		{token.ASSIGN, "="},
		{token.LAMBDA, "\\"},
		{token.IDENT_LOWER, "x"},
		{token.COLON, ":"},
		{token.IDENT_UPPER, "Nat"},
		{token.DOT, "."},
		{token.IDENT_LOWER, "x"},
		{token.NEWLINE, "\\n"},
		{token.NEWLINE, "\\n"},
		{token.TYPE, "type"},
		{token.IDENT_UPPER, "Id"},
		{token.ASSIGN, "="},
		{token.FORALL, "forall"},
		{token.IDENT_UPPER, "X"},
		{token.DOT, "."},
		{token.IDENT_UPPER, "X"},
		{token.ARROW, "->"},
		{token.IDENT_UPPER, "X"},
		{token.NEWLINE, "\\n"},
		{token.COMBINATOR, "combinator"},
		{token.IDENT_LOWER, "skk"},
		{token.ASSIGN, "="},
		{token.IDENT_UPPER, "S"},
		{token.IDENT_UPPER, "K"},
		{token.IDENT_UPPER, "K"},
		{token.NEWLINE, "\\n"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s (%q), want %s", i, tok.Type, tok.Lexeme, w.typ)
		}
		if tok.Lexeme != w.lexeme {
			t.Errorf("token %d: lexeme = %q, want %q", i, tok.Lexeme, w.lexeme)
		}
	}
}

func TestNatAndTypeLambdaTokens(t *testing.T) {
	tokens := Tokenize(`poly two = succ 1 [T]` + "\n" + `poly f = /\X. x`)
	var types []token.TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	want := []token.TokenType{
		token.POLY, token.IDENT_LOWER, token.ASSIGN,
		token.IDENT_LOWER, token.NAT, token.LBRACKET, token.IDENT_UPPER, token.RBRACKET,
		token.NEWLINE,
		token.POLY, token.IDENT_LOWER, token.ASSIGN,
		token.TYLAMBDA, token.IDENT_UPPER, token.DOT, token.IDENT_LOWER,
		token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestIllegalCharacter(t *testing.T) {
	tokens := Tokenize("poly a = ?")
	sawIllegal := false
	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			sawIllegal = true
		}
	}
	if !sawIllegal {
		t.Errorf("no ILLEGAL token for '?'")
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := Tokenize("module M\npoly a = b")
	// "poly" is the first token of line 2.
	for _, tok := range tokens {
		if tok.Type == token.POLY {
			if tok.Line != 2 {
				t.Errorf("poly line = %d, want 2", tok.Line)
			}
			return
		}
	}
	t.Fatalf("poly token not found")
}
