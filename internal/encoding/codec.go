// Package encoding serializes resolved values to a compact bitstream.
// The cache stores definition bodies in this format, and the CLI can
// emit it directly.
package encoding

import (
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/triplang/triplang/internal/ast"
)

// Wire opcodes, one per value variant. The format is length-prefixed
// throughout: strings carry a 32-bit byte count, slices a 16-bit
// element count.
const (
	opVar uint = iota + 1
	opLambda
	opTypedLambda
	opPolyVar
	opPolyLambda
	opTypeAbs
	opInst
	opLet
	opMatch
	opApp
	opCombinator
	opTypeVar
	opForall
	opTypeApp
)

// Encode renders v as a byte stream.
func Encode(v ast.Value) ([]byte, error) {
	b := funbit.NewBuilder()
	if err := encodeValue(b, v); err != nil {
		return nil, err
	}
	bs, err := funbit.Build(b)
	if err != nil {
		return nil, err
	}
	return bs.ToBytes(), nil
}

func encodeValue(b *funbit.Builder, v ast.Value) error {
	switch n := v.(type) {
	case *ast.Var:
		writeOp(b, opVar)
		writeString(b, n.Name)
	case *ast.Lambda:
		writeOp(b, opLambda)
		writeString(b, n.Param)
		return encodeValue(b, n.Body)
	case *ast.TypedLambda:
		writeOp(b, opTypedLambda)
		writeString(b, n.Param)
		if err := encodeValue(b, n.ParamType); err != nil {
			return err
		}
		return encodeValue(b, n.Body)
	case *ast.PolyVar:
		writeOp(b, opPolyVar)
		writeString(b, n.Name)
	case *ast.PolyLambda:
		writeOp(b, opPolyLambda)
		writeString(b, n.Param)
		if err := encodeValue(b, n.ParamType); err != nil {
			return err
		}
		return encodeValue(b, n.Body)
	case *ast.TypeAbs:
		writeOp(b, opTypeAbs)
		writeString(b, n.TypeParam)
		return encodeValue(b, n.Body)
	case *ast.Inst:
		writeOp(b, opInst)
		if err := encodeValue(b, n.Term); err != nil {
			return err
		}
		return encodeValue(b, n.TypeArg)
	case *ast.Let:
		writeOp(b, opLet)
		writeString(b, n.Name)
		if err := encodeValue(b, n.Bound); err != nil {
			return err
		}
		return encodeValue(b, n.Body)
	case *ast.Match:
		writeOp(b, opMatch)
		if err := encodeValue(b, n.Scrutinee); err != nil {
			return err
		}
		if err := encodeValue(b, n.ReturnType); err != nil {
			return err
		}
		writeCount(b, len(n.Arms))
		for _, arm := range n.Arms {
			writeString(b, arm.Constructor)
			writeCount(b, len(arm.Params))
			for _, p := range arm.Params {
				writeString(b, p)
			}
			if err := encodeValue(b, arm.Body); err != nil {
				return err
			}
		}
	case *ast.App:
		writeOp(b, opApp)
		if err := encodeValue(b, n.Left); err != nil {
			return err
		}
		return encodeValue(b, n.Right)
	case *ast.Combinator:
		writeOp(b, opCombinator)
		writeString(b, n.Sym)
	case *ast.TypeVar:
		writeOp(b, opTypeVar)
		writeString(b, n.Name)
	case *ast.Forall:
		writeOp(b, opForall)
		writeString(b, n.TypeParam)
		return encodeValue(b, n.Body)
	case *ast.TypeApp:
		writeOp(b, opTypeApp)
		if err := encodeValue(b, n.Fn); err != nil {
			return err
		}
		return encodeValue(b, n.Arg)
	default:
		return fmt.Errorf("encoding: unknown value variant %T", v)
	}
	return nil
}

func writeOp(b *funbit.Builder, op uint) {
	funbit.AddInteger(b, op, funbit.WithSize(8))
}

func writeCount(b *funbit.Builder, n int) {
	funbit.AddInteger(b, uint(n), funbit.WithSize(16))
}

func writeString(b *funbit.Builder, s string) {
	funbit.AddInteger(b, uint(len(s)), funbit.WithSize(32))
	funbit.AddBinary(b, []byte(s))
}

// Decode parses a byte stream produced by Encode.
func Decode(data []byte) (ast.Value, error) {
	bs := funbit.NewBitStringFromBytes(data)
	v, rest, err := decodeValue(bs)
	if err != nil {
		return nil, err
	}
	if rest.Length() != 0 {
		return nil, fmt.Errorf("encoding: %d trailing bits", rest.Length())
	}
	return v, nil
}

func decodeValue(bs *funbit.BitString) (ast.Value, *funbit.BitString, error) {
	op, bs, err := readUint(bs, 8)
	if err != nil {
		return nil, nil, err
	}
	switch op {
	case opVar:
		name, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Var{Name: name}, bs, nil
	case opLambda:
		param, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Lambda{Param: param, Body: body}, bs, nil
	case opTypedLambda:
		param, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		ty, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypedLambda{Param: param, ParamType: ty, Body: body}, bs, nil
	case opPolyVar:
		name, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.PolyVar{Name: name}, bs, nil
	case opPolyLambda:
		param, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		ty, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.PolyLambda{Param: param, ParamType: ty, Body: body}, bs, nil
	case opTypeAbs:
		param, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypeAbs{TypeParam: param, Body: body}, bs, nil
	case opInst:
		term, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		arg, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Inst{Term: term, TypeArg: arg}, bs, nil
	case opLet:
		name, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		bound, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Let{Name: name, Bound: bound, Body: body}, bs, nil
	case opMatch:
		scrutinee, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		returnType, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		count, bs2, err := readUint(bs, 16)
		if err != nil {
			return nil, nil, err
		}
		bs = bs2
		arms := make([]ast.MatchArm, count)
		for i := range arms {
			ctor, bs3, err := readString(bs)
			if err != nil {
				return nil, nil, err
			}
			bs = bs3
			nparams, bs4, err := readUint(bs, 16)
			if err != nil {
				return nil, nil, err
			}
			bs = bs4
			params := make([]string, nparams)
			for j := range params {
				p, bs5, err := readString(bs)
				if err != nil {
					return nil, nil, err
				}
				params[j] = p
				bs = bs5
			}
			body, bs6, err := decodeValue(bs)
			if err != nil {
				return nil, nil, err
			}
			bs = bs6
			arms[i] = ast.MatchArm{Constructor: ctor, Params: params, Body: body}
		}
		return &ast.Match{Scrutinee: scrutinee, ReturnType: returnType, Arms: arms}, bs, nil
	case opApp:
		left, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		right, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.App{Left: left, Right: right}, bs, nil
	case opCombinator:
		sym, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Combinator{Sym: sym}, bs, nil
	case opTypeVar:
		name, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypeVar{Name: name}, bs, nil
	case opForall:
		param, bs, err := readString(bs)
		if err != nil {
			return nil, nil, err
		}
		body, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Forall{TypeParam: param, Body: body}, bs, nil
	case opTypeApp:
		fn, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		arg, bs, err := decodeValue(bs)
		if err != nil {
			return nil, nil, err
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}, bs, nil
	default:
		return nil, nil, fmt.Errorf("encoding: unknown opcode %d", op)
	}
}

func readUint(bs *funbit.BitString, size uint) (uint, *funbit.BitString, error) {
	m := funbit.NewMatcher()
	var value int
	var rest *funbit.BitString
	funbit.Integer(m, &value, funbit.WithSize(size))
	funbit.RestBitstring(m, &rest)
	if _, err := funbit.Match(m, bs); err != nil {
		return 0, nil, err
	}
	return uint(value), rest, nil
}

func readString(bs *funbit.BitString) (string, *funbit.BitString, error) {
	length, bs, err := readUint(bs, 32)
	if err != nil {
		return "", nil, err
	}
	if length == 0 {
		return "", bs, nil
	}
	m := funbit.NewMatcher()
	var data []byte
	var rest *funbit.BitString
	funbit.Binary(m, &data, funbit.WithSize(length))
	funbit.RestBitstring(m, &rest)
	if _, err := funbit.Match(m, bs); err != nil {
		return "", nil, err
	}
	return string(data), rest, nil
}
