// Package analyzer computes free term and type references of values.
//
// The traversal is iterative over an explicit worklist so that long
// right-spines (lists encoded as right-associative applications) cost
// one frame instead of one stack level each: applications loop on the
// right child and push only the left.
package analyzer

import (
	"github.com/triplang/triplang/internal/ast"
)

// Refs is the result of an external-reference query: the term and type
// names referenced but not bound inside the value, each mapped to the
// first node at which the reference was seen.
type Refs struct {
	Terms map[string]ast.Value
	Types map[string]ast.Value
}

func newRefs() *Refs {
	return &Refs{
		Terms: make(map[string]ast.Value),
		Types: make(map[string]ast.Value),
	}
}

// Analyzer memoizes reference queries on node identity. The memo's
// lifetime is the analyzer's; scope one analyzer per pipeline run so
// the cache never outlives the nodes it refers to.
type Analyzer struct {
	memo map[ast.Value]*Refs
}

func New() *Analyzer {
	return &Analyzer{memo: make(map[ast.Value]*Refs)}
}

// bindset is a persistent-by-copy name set. extend returns a copy; the
// receiver is never mutated after being shared between frames.
type bindset map[string]struct{}

func (b bindset) has(name string) bool {
	_, ok := b[name]
	return ok
}

func (b bindset) extend(names ...string) bindset {
	next := make(bindset, len(b)+len(names))
	for k := range b {
		next[k] = struct{}{}
	}
	for _, n := range names {
		next[n] = struct{}{}
	}
	return next
}

type frame struct {
	node      ast.Value
	termBound bindset
	typeBound bindset
}

// ExternalRefs returns the free term and type references of v. Results
// are memoized on the identity of v: repeated calls return the same
// *Refs.
func (a *Analyzer) ExternalRefs(v ast.Value) *Refs {
	if cached, ok := a.memo[v]; ok {
		return cached
	}
	refs := newRefs()
	a.collect(v, bindset{}, bindset{}, refs)
	a.memo[v] = refs
	return refs
}

// collect walks v, adding free references to refs. Bound names are
// threaded per-frame; binders extend by copy so sibling frames stay
// independent.
func (a *Analyzer) collect(root ast.Value, termBound, typeBound bindset, refs *Refs) {
	stack := []frame{{root, termBound, typeBound}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, tb, yb := f.node, f.termBound, f.typeBound
		for node != nil {
			if cached, ok := a.memo[node]; ok && node != root {
				mergeRefs(refs, cached, tb, yb)
				break
			}
			switch n := node.(type) {
			case *ast.Var:
				if !tb.has(n.Name) {
					addRef(refs.Terms, n.Name, n)
				}
				node = nil
			case *ast.PolyVar:
				// Nat-literal spellings are constants, not references.
				if !ast.IsNatLiteral(n.Name) && !tb.has(n.Name) {
					addRef(refs.Terms, n.Name, n)
				}
				node = nil
			case *ast.TypeVar:
				if !yb.has(n.Name) {
					addRef(refs.Types, n.Name, n)
				}
				node = nil
			case *ast.Combinator:
				node = nil
			case *ast.Lambda:
				tb = tb.extend(n.Param)
				node = n.Body
			case *ast.TypedLambda:
				// The annotation sees the outer type scope.
				stack = append(stack, frame{n.ParamType, tb, yb})
				tb = tb.extend(n.Param)
				node = n.Body
			case *ast.PolyLambda:
				stack = append(stack, frame{n.ParamType, tb, yb})
				tb = tb.extend(n.Param)
				node = n.Body
			case *ast.TypeAbs:
				yb = yb.extend(n.TypeParam)
				node = n.Body
			case *ast.Inst:
				stack = append(stack, frame{n.TypeArg, tb, yb})
				node = n.Term
			case *ast.Let:
				stack = append(stack, frame{n.Bound, tb, yb})
				tb = tb.extend(n.Name)
				node = n.Body
			case *ast.Match:
				stack = append(stack, frame{n.ReturnType, tb, yb})
				for i := len(n.Arms) - 1; i >= 0; i-- {
					arm := n.Arms[i]
					stack = append(stack, frame{arm.Body, tb.extend(arm.Params...), yb})
				}
				node = n.Scrutinee
			case *ast.App:
				// Spine loop: push the left child, keep walking right.
				stack = append(stack, frame{n.Left, tb, yb})
				node = n.Right
			case *ast.Forall:
				yb = yb.extend(n.TypeParam)
				node = n.Body
			case *ast.TypeApp:
				stack = append(stack, frame{n.Fn, tb, yb})
				node = n.Arg
			default:
				node = nil
			}
		}
	}
}

func addRef(m map[string]ast.Value, name string, node ast.Value) {
	if _, seen := m[name]; !seen {
		m[name] = node
	}
}

// mergeRefs folds a memoized sub-result into refs, dropping names the
// current context binds.
func mergeRefs(refs *Refs, sub *Refs, termBound, typeBound bindset) {
	for name, node := range sub.Terms {
		if !termBound.has(name) {
			addRef(refs.Terms, name, node)
		}
	}
	for name, node := range sub.Types {
		if !typeBound.has(name) {
			addRef(refs.Types, name, node)
		}
	}
}

// FreeTermNames returns the free term-reference names of v as a set.
func (a *Analyzer) FreeTermNames(v ast.Value) map[string]struct{} {
	refs := a.ExternalRefs(v)
	out := make(map[string]struct{}, len(refs.Terms))
	for name := range refs.Terms {
		out[name] = struct{}{}
	}
	return out
}

// FreeTypeNames returns the free type-reference names of v as a set.
func (a *Analyzer) FreeTypeNames(v ast.Value) map[string]struct{} {
	refs := a.ExternalRefs(v)
	out := make(map[string]struct{}, len(refs.Types))
	for name := range refs.Types {
		out[name] = struct{}{}
	}
	return out
}
