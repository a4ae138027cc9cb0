package encoding

import (
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/triplang/triplang/internal/ast"
)

// Definition kind tags for the program-level format.
const (
	defPoly uint = iota + 1
	defRecPoly
	defTyped
	defUntyped
	defCombinator
	defType
	defData
	defModule
	defImport
	defExport
)

// EncodeProgram renders a whole program: a 16-bit definition count
// followed by tagged definitions.
func EncodeProgram(p *ast.Program) ([]byte, error) {
	b := funbit.NewBuilder()
	writeCount(b, len(p.Definitions))
	for _, def := range p.Definitions {
		if err := encodeDefinition(b, def); err != nil {
			return nil, err
		}
	}
	bs, err := funbit.Build(b)
	if err != nil {
		return nil, err
	}
	return bs.ToBytes(), nil
}

func encodeDefinition(b *funbit.Builder, def ast.Definition) error {
	switch d := def.(type) {
	case *ast.PolyDef:
		if d.Rec {
			writeOp(b, defRecPoly)
		} else {
			writeOp(b, defPoly)
		}
		writeString(b, d.Name)
		return encodeValue(b, d.Term)
	case *ast.TypedDef:
		writeOp(b, defTyped)
		writeString(b, d.Name)
		return encodeValue(b, d.Term)
	case *ast.UntypedDef:
		writeOp(b, defUntyped)
		writeString(b, d.Name)
		return encodeValue(b, d.Term)
	case *ast.CombinatorDef:
		writeOp(b, defCombinator)
		writeString(b, d.Name)
		return encodeValue(b, d.Term)
	case *ast.TypeDef:
		writeOp(b, defType)
		writeString(b, d.Name)
		return encodeValue(b, d.Type)
	case *ast.DataDef:
		writeOp(b, defData)
		writeString(b, d.Name)
		writeCount(b, len(d.TypeParams))
		for _, p := range d.TypeParams {
			writeString(b, p)
		}
		writeCount(b, len(d.Constructors))
		for _, ctor := range d.Constructors {
			writeString(b, ctor.Name)
			writeCount(b, len(ctor.Fields))
			for _, f := range ctor.Fields {
				if err := encodeValue(b, f); err != nil {
					return err
				}
			}
		}
		return nil
	case *ast.ModuleDecl:
		writeOp(b, defModule)
		writeString(b, d.Name)
		return nil
	case *ast.ImportDecl:
		writeOp(b, defImport)
		writeString(b, d.Name)
		writeString(b, d.Ref)
		return nil
	case *ast.ExportDecl:
		writeOp(b, defExport)
		writeString(b, d.Name)
		return nil
	default:
		return fmt.Errorf("encoding: unknown definition variant %T", def)
	}
}

// DecodeProgram parses a byte stream produced by EncodeProgram.
func DecodeProgram(data []byte) (*ast.Program, error) {
	bs := funbit.NewBitStringFromBytes(data)
	count, bs, err := readUint(bs, 16)
	if err != nil {
		return nil, err
	}
	program := &ast.Program{Definitions: make([]ast.Definition, 0, count)}
	for i := uint(0); i < count; i++ {
		def, rest, err := decodeDefinition(bs)
		if err != nil {
			return nil, err
		}
		program.Definitions = append(program.Definitions, def)
		bs = rest
	}
	if bs.Length() != 0 {
		return nil, fmt.Errorf("encoding: %d trailing bits", bs.Length())
	}
	return program, nil
}

func decodeDefinition(bs *funbit.BitString) (ast.Definition, *funbit.BitString, error) {
	kind, bs, err := readUint(bs, 8)
	if err != nil {
		return nil, nil, err
	}
	name, bs, err := readString(bs)
	if err != nil {
		return nil, nil, err
	}
	switch kind {
	case defPoly, defRecPoly:
		term, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.PolyDef{Name: name, Rec: kind == defRecPoly, Term: term}, bs, nil
	case defTyped:
		term, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypedDef{Name: name, Term: term}, bs, nil
	case defUntyped:
		term, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.UntypedDef{Name: name, Term: term}, bs, nil
	case defCombinator:
		term, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.CombinatorDef{Name: name, Term: term}, bs, nil
	case defType:
		ty, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypeDef{Name: name, Type: ty}, bs, nil
	case defData:
		nparams, bs2, err := readUint(bs, 16)
		if err != nil {
			return nil, nil, err
		}
		bs = bs2
		params := make([]string, nparams)
		for i := range params {
			p, bs3, err := readString(bs)
			if err != nil {
				return nil, nil, err
			}
			params[i] = p
			bs = bs3
		}
		nctors, bs4, err := readUint(bs, 16)
		if err != nil {
			return nil, nil, err
		}
		bs = bs4
		ctors := make([]ast.DataConstructor, nctors)
		for i := range ctors {
			cname, bs5, err := readString(bs)
			if err != nil {
				return nil, nil, err
			}
			bs = bs5
			nfields, bs6, err := readUint(bs, 16)
			if err != nil {
				return nil, nil, err
			}
			bs = bs6
			fields := make([]ast.Value, nfields)
			for j := range fields {
				f, bs7, err := decodeValue(bs)
				if err != nil {
					return nil, nil, err
				}
				fields[j] = f
				bs = bs7
			}
			ctors[i] = ast.DataConstructor{Name: cname, Fields: fields}
		}
		return &ast.DataDef{Name: name, TypeParams: params, Constructors: ctors}, bs, nil
	case defModule:
		return &ast.ModuleDecl{Name: name}, bs, nil
	case defImport:
		ref, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.ImportDecl{Name: name, Ref: ref}, bs, nil
	case defExport:
		return &ast.ExportDecl{Name: name}, bs, nil
	default:
		return nil, nil, fmt.Errorf("encoding: unknown definition tag %d", kind)
	}
}
