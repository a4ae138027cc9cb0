package ast

// Value is the shared term/type sum of the four calculi. Values are
// immutable once constructed: every transformation allocates new nodes,
// and unchanged subtrees are shared by pointer. Identity of a node is
// therefore meaningful (the reference analyzer memoizes on it) while
// equality is structural (see Equal).
type Value interface {
	valueNode()
}

// Var is an untyped lambda-calculus term reference.
type Var struct {
	Name string
}

// Lambda is an untyped abstraction; binds Param as a term in Body.
type Lambda struct {
	Param string
	Body  Value
}

// TypedLambda is a simply-typed abstraction. ParamType is a type in the
// enclosing type scope; Param binds as a term in Body.
type TypedLambda struct {
	Param     string
	ParamType Value
	Body      Value
}

// PolyVar is a System F term reference. Names that spell a natural
// number (see ParseNatLiteral) are opaque constants, never references.
type PolyVar struct {
	Name string
}

// PolyLambda is a System F value abstraction. ParamType is a type in
// the enclosing type scope; Param binds as a term in Body.
type PolyLambda struct {
	Param     string
	ParamType Value
	Body      Value
}

// TypeAbs is a System F type abstraction; binds TypeParam as a type in
// Body.
type TypeAbs struct {
	TypeParam string
	Body      Value
}

// Inst instantiates a System F term at a type: e [T].
type Inst struct {
	Term    Value
	TypeArg Value
}

// Let binds Name as a term in Body; Bound is evaluated in the
// enclosing scope.
type Let struct {
	Name  string
	Bound Value
	Body  Value
}

// MatchArm is one arm of a Match. Params bind as terms in Body.
type MatchArm struct {
	Constructor string
	Params      []string
	Body        Value
}

// Match scrutinizes a data value. Scrutinee is in the enclosing scope,
// ReturnType is a type in the enclosing type scope. Elaboration
// replaces every Match with a typed eliminator application.
type Match struct {
	Scrutinee  Value
	ReturnType Value
	Arms       []MatchArm
}

// App is the generic application node. Before elaboration it covers
// both term and type application; afterwards it remains only where both
// sides are term-valued. It doubles as SKI application when its leaves
// are combinator atoms.
type App struct {
	Left  Value
	Right Value
}

// Combinator is an SKI-calculus atom.
type Combinator struct {
	Sym string
}

// TypeVar is a type reference.
type TypeVar struct {
	Name string
}

// Forall binds TypeParam as a type in Body.
type Forall struct {
	TypeParam string
	Body      Value
}

// TypeApp applies a type constructor to an argument, e.g. List A.
type TypeApp struct {
	Fn  Value
	Arg Value
}

func (*Var) valueNode()         {}
func (*Lambda) valueNode()      {}
func (*TypedLambda) valueNode() {}
func (*PolyVar) valueNode()     {}
func (*PolyLambda) valueNode()  {}
func (*TypeAbs) valueNode()     {}
func (*Inst) valueNode()        {}
func (*Let) valueNode()         {}
func (*Match) valueNode()       {}
func (*App) valueNode()         {}
func (*Combinator) valueNode()  {}
func (*TypeVar) valueNode()     {}
func (*Forall) valueNode()      {}
func (*TypeApp) valueNode()     {}
