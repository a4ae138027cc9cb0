// Package parser turns a token stream into an ast.Program. It is a
// hand-written recursive-descent parser; each parse function is
// entered on the first token of its construct and returns on the last.
package parser

import (
	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/config"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/token"
)

// Mode selects the term flavor a definition body parses into.
type Mode int

const (
	ModePoly Mode = iota
	ModeTyped
	ModeUntyped
	ModeSKI
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	depth  int
	errors []*diagnostics.DiagnosticError
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse tokenizes nothing itself: it consumes an already-lexed stream
// and returns the program plus any syntax errors.
func Parse(tokens []token.Token, file string) (*ast.Program, []*diagnostics.DiagnosticError) {
	p := New(tokens)
	program := p.ParseProgram()
	program.File = file
	for _, err := range p.errors {
		if err.File == "" {
			err.File = file
		}
	}
	return program, p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken, string(t), p.peekToken.Lexeme))
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, args ...interface{}) {
	err := diagnostics.NewError(code, p.curToken, args...)
	err.Stage = diagnostics.StageParse
	p.errors = append(p.errors, err)
}

// skipToLineEnd recovers from a syntax error by dropping the rest of
// the definition.
func (p *Parser) skipToLineEnd() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		def := p.parseDefinition()
		if def != nil {
			program.Definitions = append(program.Definitions, def)
		} else {
			p.skipToLineEnd()
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseDefinition() ast.Definition {
	switch p.curToken.Type {
	case token.MODULE:
		tok := p.curToken
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		return &ast.ModuleDecl{Token: tok, Name: p.curToken.Lexeme}
	case token.IMPORT:
		tok := p.curToken
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		ref := p.curToken.Lexeme
		if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken, "identifier", p.peekToken.Lexeme))
			return nil
		}
		p.nextToken()
		return &ast.ImportDecl{Token: tok, Name: p.curToken.Lexeme, Ref: ref}
	case token.EXPORT:
		tok := p.curToken
		if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken, "identifier", p.peekToken.Lexeme))
			return nil
		}
		p.nextToken()
		return &ast.ExportDecl{Token: tok, Name: p.curToken.Lexeme}
	case token.REC:
		if !p.expectPeek(token.POLY) {
			return nil
		}
		def := p.parseTermDefinition(ModePoly)
		if poly, ok := def.(*ast.PolyDef); ok {
			poly.Rec = true
			return poly
		}
		return def
	case token.POLY:
		return p.parseTermDefinition(ModePoly)
	case token.TYPED:
		return p.parseTermDefinition(ModeTyped)
	case token.UNTYPED:
		return p.parseTermDefinition(ModeUntyped)
	case token.COMBINATOR:
		return p.parseTermDefinition(ModeSKI)
	case token.TYPE:
		tok := p.curToken
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		name := p.curToken.Lexeme
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		return &ast.TypeDef{Token: tok, Name: name, Type: ty}
	case token.DATA:
		return p.parseDataDefinition()
	default:
		p.errorf(diagnostics.ErrP001, p.curToken.Lexeme)
		return nil
	}
}

// parseTermDefinition parses "<keyword> name = term" with the body in
// the flavor the keyword selects.
func (p *Parser) parseTermDefinition(mode Mode) ast.Definition {
	tok := p.curToken
	if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken, "identifier", p.peekToken.Lexeme))
		return nil
	}
	p.nextToken()
	name := p.curToken.Lexeme
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	term := p.parseTerm(mode)
	if term == nil {
		return nil
	}
	switch mode {
	case ModePoly:
		return &ast.PolyDef{Token: tok, Name: name, Term: term}
	case ModeTyped:
		return &ast.TypedDef{Token: tok, Name: name, Term: term}
	case ModeUntyped:
		return &ast.UntypedDef{Token: tok, Name: name, Term: term}
	default:
		return &ast.CombinatorDef{Token: tok, Name: name, Term: term}
	}
}

// data Name a b = Ctor ty ty | Ctor
func (p *Parser) parseDataDefinition() ast.Definition {
	tok := p.curToken
	if !p.expectPeek(token.IDENT_UPPER) {
		return nil
	}
	name := p.curToken.Lexeme
	var params []string
	for p.peekTokenIs(token.IDENT_LOWER) || p.peekTokenIs(token.IDENT_UPPER) {
		p.nextToken()
		params = append(params, p.curToken.Lexeme)
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	var ctors []ast.DataConstructor
	for {
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		ctor := ast.DataConstructor{Name: p.curToken.Lexeme}
		for p.peekIsTypeAtomStart() {
			p.nextToken()
			field := p.parseTypeAtom()
			if field == nil {
				return nil
			}
			ctor.Fields = append(ctor.Fields, field)
		}
		ctors = append(ctors, ctor)
		if !p.peekTokenIs(token.PIPE) {
			break
		}
		p.nextToken()
	}
	return &ast.DataDef{Token: tok, Name: name, TypeParams: params, Constructors: ctors}
}

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > config.MaxParseDepth {
		p.errorf(diagnostics.ErrP003)
		return false
	}
	return true
}

func (p *Parser) parseTerm(mode Mode) ast.Value {
	if !p.enter() {
		return nil
	}
	defer func() { p.depth-- }()

	switch p.curToken.Type {
	case token.LAMBDA:
		return p.parseLambda(mode)
	case token.TYLAMBDA:
		if mode != ModePoly {
			p.errorf(diagnostics.ErrP001, p.curToken.Lexeme)
			return nil
		}
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		param := p.curToken.Lexeme
		if !p.expectPeek(token.DOT) {
			return nil
		}
		p.nextToken()
		body := p.parseTerm(mode)
		if body == nil {
			return nil
		}
		return &ast.TypeAbs{TypeParam: param, Body: body}
	case token.LET:
		if mode != ModePoly {
			p.errorf(diagnostics.ErrP001, p.curToken.Lexeme)
			return nil
		}
		if !p.expectPeek(token.IDENT_LOWER) {
			return nil
		}
		name := p.curToken.Lexeme
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		bound := p.parseTerm(mode)
		if bound == nil {
			return nil
		}
		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		body := p.parseTerm(mode)
		if body == nil {
			return nil
		}
		return &ast.Let{Name: name, Bound: bound, Body: body}
	case token.MATCH:
		if mode != ModePoly {
			p.errorf(diagnostics.ErrP001, p.curToken.Lexeme)
			return nil
		}
		return p.parseMatch()
	default:
		return p.parseApplication(mode)
	}
}

// parseLambda parses a value abstraction; poly and typed flavors
// require the annotation, untyped and SKI forbid it.
func (p *Parser) parseLambda(mode Mode) ast.Value {
	if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken, "identifier", p.peekToken.Lexeme))
		return nil
	}
	p.nextToken()
	param := p.curToken.Lexeme

	switch mode {
	case ModePoly, ModeTyped:
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		if !p.expectPeek(token.DOT) {
			return nil
		}
		p.nextToken()
		body := p.parseTerm(mode)
		if body == nil {
			return nil
		}
		if mode == ModePoly {
			return &ast.PolyLambda{Param: param, ParamType: ty, Body: body}
		}
		return &ast.TypedLambda{Param: param, ParamType: ty, Body: body}
	default:
		if !p.expectPeek(token.DOT) {
			return nil
		}
		p.nextToken()
		body := p.parseTerm(mode)
		if body == nil {
			return nil
		}
		return &ast.Lambda{Param: param, Body: body}
	}
}

// match scrutinee [ReturnType] { Ctor a b => term | Ctor => term }
// The scrutinee is an atom; parenthesize anything larger.
func (p *Parser) parseMatch() ast.Value {
	p.nextToken()
	scrutinee := p.parseAtom(ModePoly)
	if scrutinee == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	returnType := p.parseType()
	if returnType == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	var arms []ast.MatchArm
	for {
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		arm := ast.MatchArm{Constructor: p.curToken.Lexeme}
		for p.peekTokenIs(token.IDENT_LOWER) {
			p.nextToken()
			arm.Params = append(arm.Params, p.curToken.Lexeme)
		}
		if !p.expectPeek(token.FATARROW) {
			return nil
		}
		p.nextToken()
		body := p.parseTerm(ModePoly)
		if body == nil {
			return nil
		}
		arm.Body = body
		arms = append(arms, arm)
		if p.peekTokenIs(token.PIPE) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.Match{Scrutinee: scrutinee, ReturnType: returnType, Arms: arms}
}

// parseApplication parses a left-associative juxtaposition chain;
// "[T]" instantiates the head at a type.
func (p *Parser) parseApplication(mode Mode) ast.Value {
	left := p.parseAtom(mode)
	if left == nil {
		return nil
	}
	for {
		if p.peekTokenIs(token.LBRACKET) && mode == ModePoly {
			p.nextToken()
			p.nextToken()
			ty := p.parseType()
			if ty == nil {
				return nil
			}
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			left = &ast.Inst{Term: left, TypeArg: ty}
			continue
		}
		if !p.peekIsAtomStart() {
			return left
		}
		p.nextToken()
		right := p.parseAtom(mode)
		if right == nil {
			return nil
		}
		left = &ast.App{Left: left, Right: right}
	}
}

func (p *Parser) peekIsAtomStart() bool {
	switch p.peekToken.Type {
	case token.IDENT_LOWER, token.IDENT_UPPER, token.NAT, token.LPAREN:
		return true
	default:
		return false
	}
}

func (p *Parser) peekIsTypeAtomStart() bool {
	switch p.peekToken.Type {
	case token.IDENT_LOWER, token.IDENT_UPPER, token.LPAREN:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAtom(mode Mode) ast.Value {
	switch p.curToken.Type {
	case token.LPAREN:
		p.nextToken()
		inner := p.parseTerm(mode)
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return inner
	case token.NAT:
		if mode == ModePoly {
			return &ast.PolyVar{Name: p.curToken.Lexeme}
		}
		return &ast.Var{Name: p.curToken.Lexeme}
	case token.IDENT_LOWER, token.IDENT_UPPER:
		name := p.curToken.Lexeme
		switch mode {
		case ModePoly:
			return &ast.PolyVar{Name: name}
		case ModeSKI:
			if isCombinatorAtom(name) {
				return &ast.Combinator{Sym: name}
			}
			return &ast.Var{Name: name}
		default:
			return &ast.Var{Name: name}
		}
	default:
		p.errorf(diagnostics.ErrP004, p.curToken.Lexeme)
		return nil
	}
}

func isCombinatorAtom(name string) bool {
	switch name {
	case config.CombinatorS, config.CombinatorK, config.CombinatorI,
		config.CombinatorB, config.CombinatorC, config.CombinatorW:
		return true
	default:
		return false
	}
}

// --- types ---

func (p *Parser) parseType() ast.Value {
	if !p.enter() {
		return nil
	}
	defer func() { p.depth-- }()

	if p.curTokenIs(token.FORALL) {
		if !p.expectPeek(token.IDENT_UPPER) {
			return nil
		}
		param := p.curToken.Lexeme
		if !p.expectPeek(token.DOT) {
			return nil
		}
		p.nextToken()
		body := p.parseType()
		if body == nil {
			return nil
		}
		return &ast.Forall{TypeParam: param, Body: body}
	}
	return p.parseArrowType()
}

// parseArrowType handles the right-associative "->" sugar over type
// application.
func (p *Parser) parseArrowType() ast.Value {
	left := p.parseTypeApplication()
	if left == nil {
		return nil
	}
	if !p.peekTokenIs(token.ARROW) {
		return left
	}
	p.nextToken()
	p.nextToken()
	right := p.parseType()
	if right == nil {
		return nil
	}
	return Arrow(left, right)
}

// Arrow builds the desugared form of "a -> b".
func Arrow(from, to ast.Value) ast.Value {
	return &ast.TypeApp{
		Fn:  &ast.TypeApp{Fn: &ast.TypeVar{Name: config.ArrowTypeName}, Arg: from},
		Arg: to,
	}
}

func (p *Parser) parseTypeApplication() ast.Value {
	left := p.parseTypeAtom()
	if left == nil {
		return nil
	}
	for p.peekIsTypeAtomStart() {
		p.nextToken()
		arg := p.parseTypeAtom()
		if arg == nil {
			return nil
		}
		left = &ast.TypeApp{Fn: left, Arg: arg}
	}
	return left
}

func (p *Parser) parseTypeAtom() ast.Value {
	switch p.curToken.Type {
	case token.LPAREN:
		p.nextToken()
		inner := p.parseType()
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return inner
	case token.IDENT_UPPER, token.IDENT_LOWER:
		return &ast.TypeVar{Name: p.curToken.Lexeme}
	default:
		p.errorf(diagnostics.ErrP004, p.curToken.Lexeme)
		return nil
	}
}
