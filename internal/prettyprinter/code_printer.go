// Package prettyprinter renders values and programs back to surface
// syntax. Output re-parses to a structurally equal program.
package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/config"
)

// Print renders a value.
func Print(v ast.Value) string {
	var buf bytes.Buffer
	printValue(&buf, v)
	return buf.String()
}

// PrintProgram renders every definition, one per line.
func PrintProgram(p *ast.Program) string {
	var buf bytes.Buffer
	for _, def := range p.Definitions {
		buf.WriteString(PrintDefinition(def))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func PrintDefinition(def ast.Definition) string {
	switch d := def.(type) {
	case *ast.PolyDef:
		prefix := "poly "
		if d.Rec {
			prefix = "rec poly "
		}
		return prefix + d.Name + " = " + Print(d.Term)
	case *ast.TypedDef:
		return "typed " + d.Name + " = " + Print(d.Term)
	case *ast.UntypedDef:
		return "untyped " + d.Name + " = " + Print(d.Term)
	case *ast.CombinatorDef:
		return "combinator " + d.Name + " = " + Print(d.Term)
	case *ast.TypeDef:
		return "type " + d.Name + " = " + Print(d.Type)
	case *ast.DataDef:
		var buf bytes.Buffer
		buf.WriteString("data " + d.Name)
		for _, p := range d.TypeParams {
			buf.WriteString(" " + p)
		}
		buf.WriteString(" = ")
		parts := make([]string, len(d.Constructors))
		for i, ctor := range d.Constructors {
			fields := make([]string, 0, len(ctor.Fields)+1)
			fields = append(fields, ctor.Name)
			for _, f := range ctor.Fields {
				fields = append(fields, typeAtomString(f))
			}
			parts[i] = strings.Join(fields, " ")
		}
		buf.WriteString(strings.Join(parts, " | "))
		return buf.String()
	case *ast.ModuleDecl:
		return "module " + d.Name
	case *ast.ImportDecl:
		return "import " + d.Ref + " " + d.Name
	case *ast.ExportDecl:
		return "export " + d.Name
	default:
		return ""
	}
}

func printValue(buf *bytes.Buffer, v ast.Value) {
	switch n := v.(type) {
	case nil:
		return
	case *ast.Var:
		buf.WriteString(n.Name)
	case *ast.PolyVar:
		buf.WriteString(n.Name)
	case *ast.Combinator:
		buf.WriteString(n.Sym)
	case *ast.Lambda:
		buf.WriteString("\\" + n.Param + ". ")
		printValue(buf, n.Body)
	case *ast.TypedLambda:
		buf.WriteString("\\" + n.Param + " : ")
		printType(buf, n.ParamType, false)
		buf.WriteString(". ")
		printValue(buf, n.Body)
	case *ast.PolyLambda:
		buf.WriteString("\\" + n.Param + " : ")
		printType(buf, n.ParamType, false)
		buf.WriteString(". ")
		printValue(buf, n.Body)
	case *ast.TypeAbs:
		buf.WriteString("/\\" + n.TypeParam + ". ")
		printValue(buf, n.Body)
	case *ast.Inst:
		printOperand(buf, n.Term, false)
		buf.WriteString(" [")
		printType(buf, n.TypeArg, false)
		buf.WriteString("]")
	case *ast.Let:
		buf.WriteString("let " + n.Name + " = ")
		printValue(buf, n.Bound)
		buf.WriteString(" in ")
		printValue(buf, n.Body)
	case *ast.Match:
		buf.WriteString("match ")
		printOperand(buf, n.Scrutinee, true)
		buf.WriteString(" [")
		printType(buf, n.ReturnType, false)
		buf.WriteString("] { ")
		for i, arm := range n.Arms {
			if i > 0 {
				buf.WriteString(" | ")
			}
			buf.WriteString(arm.Constructor)
			for _, p := range arm.Params {
				buf.WriteString(" " + p)
			}
			buf.WriteString(" => ")
			printValue(buf, arm.Body)
		}
		buf.WriteString(" }")
	case *ast.App:
		printOperand(buf, n.Left, false)
		buf.WriteByte(' ')
		printOperand(buf, n.Right, true)
	case *ast.TypeVar, *ast.Forall, *ast.TypeApp:
		printType(buf, v, false)
	}
}

// printOperand parenthesizes sub-terms that would re-associate: any
// abstraction or let on either side, and applications on the right.
func printOperand(buf *bytes.Buffer, v ast.Value, rightSide bool) {
	needParens := false
	switch v.(type) {
	case *ast.Lambda, *ast.TypedLambda, *ast.PolyLambda, *ast.TypeAbs, *ast.Let, *ast.Match:
		needParens = true
	case *ast.App, *ast.Inst:
		needParens = rightSide
	}
	if needParens {
		buf.WriteByte('(')
		printValue(buf, v)
		buf.WriteByte(')')
	} else {
		printValue(buf, v)
	}
}

// printType re-sugars arrow applications into infix "->".
func printType(buf *bytes.Buffer, v ast.Value, operand bool) {
	switch n := v.(type) {
	case *ast.TypeVar:
		buf.WriteString(n.Name)
	case *ast.Forall:
		if operand {
			buf.WriteByte('(')
		}
		buf.WriteString("forall " + n.TypeParam + ". ")
		printType(buf, n.Body, false)
		if operand {
			buf.WriteByte(')')
		}
	case *ast.TypeApp:
		if from, to, ok := splitArrow(n); ok {
			if operand {
				buf.WriteByte('(')
			}
			printType(buf, from, true)
			buf.WriteString(" -> ")
			printType(buf, to, false)
			if operand {
				buf.WriteByte(')')
			}
			return
		}
		if operand {
			buf.WriteByte('(')
		}
		printType(buf, n.Fn, fnNeedsParens(n.Fn))
		buf.WriteByte(' ')
		printType(buf, n.Arg, true)
		if operand {
			buf.WriteByte(')')
		}
	default:
		printValue(buf, v)
	}
}

// fnNeedsParens guards the head of a type application: plain
// application chains stay flat, foralls and arrows re-associate.
func fnNeedsParens(v ast.Value) bool {
	switch n := v.(type) {
	case *ast.Forall:
		return true
	case *ast.TypeApp:
		_, _, arrow := splitArrow(n)
		return arrow
	default:
		return false
	}
}

func splitArrow(app *ast.TypeApp) (from, to ast.Value, ok bool) {
	inner, isApp := app.Fn.(*ast.TypeApp)
	if !isApp {
		return nil, nil, false
	}
	head, isVar := inner.Fn.(*ast.TypeVar)
	if !isVar || head.Name != config.ArrowTypeName {
		return nil, nil, false
	}
	return inner.Arg, app.Arg, true
}

func typeAtomString(v ast.Value) string {
	var buf bytes.Buffer
	printType(&buf, v, true)
	return buf.String()
}
