package pipeline

import (
	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/symbols"
	"github.com/triplang/triplang/internal/token"
)

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext holds all the data passed between pipeline stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Tokens     []token.Token
	Program    *ast.Program
	Symbols    *symbols.Table
	Errors     []*diagnostics.DiagnosticError

	// Module loader shared across stages; interface{} avoids an
	// import cycle with the modules package.
	Loader interface{}
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool { return len(ctx.Errors) > 0 }
