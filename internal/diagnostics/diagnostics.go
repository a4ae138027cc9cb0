package diagnostics

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/triplang/triplang/internal/token"
)

// Stage represents the processing stage where an error occurred
type Stage string

const (
	StageLex       Stage = "lex"
	StageParse     Stage = "parse"
	StageIndex     Stage = "index"
	StageElaborate Stage = "elaborate"
	StageResolve   Stage = "resolve"
	StageTypecheck Stage = "typecheck"
)

type ErrorCode string

const (
	// Lexer errors
	ErrL001 ErrorCode = "L001" // Invalid character

	// Parser errors
	ErrP001 ErrorCode = "P001" // Unexpected token
	ErrP002 ErrorCode = "P002" // Expected token
	ErrP003 ErrorCode = "P003" // Expression too deeply nested
	ErrP004 ErrorCode = "P004" // No prefix parse function
	ErrP005 ErrorCode = "P005" // Missing module declaration
	ErrP006 ErrorCode = "P006" // Multiple module declarations

	// Indexing errors
	ErrI001 ErrorCode = "I001" // Duplicate term name
	ErrI002 ErrorCode = "I002" // Duplicate type name
	ErrI003 ErrorCode = "I003" // Duplicate data name
	ErrI004 ErrorCode = "I004" // Duplicate constructor name
	ErrI005 ErrorCode = "I005" // Duplicate module declaration

	// Elaboration errors
	ErrE001 ErrorCode = "E001" // Match has no arms
	ErrE002 ErrorCode = "E002" // Unknown constructor
	ErrE003 ErrorCode = "E003" // Arms target multiple data types
	ErrE004 ErrorCode = "E004" // Missing data definition
	ErrE005 ErrorCode = "E005" // Duplicate match arm
	ErrE006 ErrorCode = "E006" // Non-exhaustive match
	ErrE007 ErrorCode = "E007" // Arm arity mismatch

	// Resolution errors
	ErrR001 ErrorCode = "R001" // Unresolved external term
	ErrR002 ErrorCode = "R002" // Unresolved external type
	ErrR003 ErrorCode = "R003" // Resolution did not converge
	ErrR004 ErrorCode = "R004" // Internal invariant violated
	ErrR005 ErrorCode = "R005" // Reference cycle
)

var errorTemplates = map[ErrorCode]string{
	ErrL001: "invalid character: '%s'",
	ErrP001: "unexpected token: '%s'",
	ErrP002: "expected next token to be '%s', but got '%s' instead",
	ErrP003: "expression too deeply nested",
	ErrP004: "cannot parse expression starting with '%s'",
	ErrP005: "program has no module declaration",
	ErrP006: "multiple module declarations: '%s'",
	ErrI001: "duplicate term definition: '%s'",
	ErrI002: "duplicate type definition: '%s'",
	ErrI003: "duplicate data definition: '%s'",
	ErrI004: "duplicate constructor: '%s'",
	ErrI005: "duplicate module declaration: '%s'",
	ErrE001: "match expression has no arms",
	ErrE002: "unknown constructor: '%s'",
	ErrE003: "match arms target multiple data types: %s",
	ErrE004: "no data definition for '%s'",
	ErrE005: "duplicate arm for constructor '%s'",
	ErrE006: "match is not exhaustive. Missing constructors: %s",
	ErrE007: "arm for '%s' binds %d parameters, constructor has %d fields",
	ErrR001: "unresolved external term: '%s'",
	ErrR002: "unresolved external type: '%s'",
	ErrR003: "resolution did not converge after %d iterations; still changing: %s",
	ErrR004: "internal error: %s",
	ErrR005: "reference cycle involving: %s",
}

// DiagnosticError is the error type shared by every pipeline stage.
// Term holds the unparsed offending term, Names the set of names the
// message refers to (unresolved externals, missing constructors).
type DiagnosticError struct {
	Code  ErrorCode
	Stage Stage
	Args  []interface{}
	Token token.Token
	File  string
	Term  string
	Names []string
	Cause error
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}

	message := fmt.Sprintf(template, formatArgs(e.Args)...)

	prefix := ""
	if e.File != "" {
		prefix = fmt.Sprintf("%s: ", e.File)
	}

	stageStr := ""
	if e.Stage != "" {
		stageStr = fmt.Sprintf("[%s] ", e.Stage)
	}

	var result string
	if e.Token.Line > 0 {
		result = fmt.Sprintf("%s%serror at %d:%d [%s]: %s", prefix, stageStr, e.Token.Line, e.Token.Column, e.Code, message)
	} else {
		result = fmt.Sprintf("%s%serror [%s]: %s", prefix, stageStr, e.Code, message)
	}

	if e.Term != "" {
		result += "\n  in: " + e.Term
	}
	if len(e.Names) > 0 {
		result += "\n  names: " + strings.Join(e.Names, ", ")
	}
	if e.Cause != nil {
		result += "\n  caused by: " + e.Cause.Error()
	}
	return result
}

func (e *DiagnosticError) Unwrap() error { return e.Cause }

// formatArgs renders payload values; big integers print with a trailing
// 'n' to keep them distinguishable from machine ints.
func formatArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if b, ok := a.(*big.Int); ok {
			out[i] = b.String() + "n"
			continue
		}
		out[i] = a
	}
	return out
}

// NewError creates an error with just code and token
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:  code,
		Token: tok,
		Args:  args,
	}
}

// NewStageError creates an error with stage information
func NewStageError(stage Stage, code ErrorCode, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:  code,
		Stage: stage,
		Args:  args,
	}
}

// WithTerm attaches the unparsed offending term.
func (e *DiagnosticError) WithTerm(term string) *DiagnosticError {
	e.Term = term
	return e
}

// WithNames attaches the name list referenced by the message.
func (e *DiagnosticError) WithNames(names []string) *DiagnosticError {
	e.Names = names
	return e
}

// InternalError creates an internal error (for "should never happen" cases)
func InternalError(stage Stage, message string) *DiagnosticError {
	return NewStageError(stage, ErrR004, message)
}

// WrapError wraps an existing error with stage info
func WrapError(stage Stage, err error) *DiagnosticError {
	if de, ok := err.(*DiagnosticError); ok {
		if de.Stage == "" {
			de.Stage = stage
		}
		return de
	}
	return &DiagnosticError{Code: ErrR004, Stage: stage, Args: []interface{}{err.Error()}, Cause: err}
}
