// Package indexer runs the symbol-indexing stage: it builds the
// pipeline's symbol table from the parsed program.
package indexer

import (
	"github.com/triplang/triplang/internal/pipeline"
	"github.com/triplang/triplang/internal/symbols"
)

type IndexerProcessor struct{}

func (ip *IndexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}
	table, err := symbols.Index(ctx.Program)
	if err != nil {
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Symbols = table
	return ctx
}
