package parser

import (
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/pipeline"
	"github.com/triplang/triplang/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	program, errs := Parse(ctx.Tokens, ctx.FilePath)
	ctx.Program = program
	ctx.Errors = append(ctx.Errors, errs...)

	if len(errs) == 0 && program.ModuleName() == "" {
		err := diagnostics.NewError(diagnostics.ErrP005, token.Token{})
		err.Stage = diagnostics.StageParse
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
