package elaborator

import (
	"github.com/triplang/triplang/internal/pipeline"
)

type ElaboratorProcessor struct{}

func (ep *ElaboratorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Symbols == nil || ctx.Failed() {
		return ctx
	}
	program, err := New(ctx.Symbols).Program(ctx.Program)
	if err != nil {
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Program = program
	return ctx
}
