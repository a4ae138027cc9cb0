package resolver

import (
	"github.com/triplang/triplang/internal/pipeline"
)

type ResolverProcessor struct{}

func (rp *ResolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Symbols == nil || ctx.Failed() {
		return ctx
	}
	program, err := Resolve(ctx.Program, ctx.Symbols)
	if err != nil {
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Program = program
	return ctx
}
