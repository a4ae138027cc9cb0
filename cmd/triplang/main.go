package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/cache"
	"github.com/triplang/triplang/internal/diagnostics"
	"github.com/triplang/triplang/internal/elaborator"
	"github.com/triplang/triplang/internal/encoding"
	"github.com/triplang/triplang/internal/indexer"
	"github.com/triplang/triplang/internal/lexer"
	"github.com/triplang/triplang/internal/manifest"
	"github.com/triplang/triplang/internal/modules"
	"github.com/triplang/triplang/internal/parser"
	"github.com/triplang/triplang/internal/pipeline"
	"github.com/triplang/triplang/internal/prettyprinter"
	"github.com/triplang/triplang/internal/remote"
	"github.com/triplang/triplang/internal/resolver"
	"github.com/triplang/triplang/internal/utils"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

func main() {
	emit := flag.String("emit", "text", "output format: text or bin")
	noCache := flag.Bool("no-cache", false, "bypass the resolved-program cache")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: triplang [flags] <file.tri>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err.Error())
	}
	source := string(data)

	var mf *manifest.Manifest
	if mfPath, ok := manifest.Find(utils.GetModuleDir(path)); ok {
		mf, err = manifest.Load(mfPath)
		if err != nil {
			fatal(err.Error())
		}
	}

	var store *cache.Store
	if mf != nil && mf.Cache != "" && !*noCache {
		store, err = cache.Open(filepath.Join(mf.Dir, mf.Cache))
		if err != nil {
			fatal(err.Error())
		}
		defer store.Close()

		if payload, hit, err := store.Get(cache.Key(source)); err == nil && hit {
			program, err := encoding.DecodeProgram(payload)
			if err == nil {
				output(program, *emit)
				return
			}
			// A stale or corrupt entry falls through to a full run.
		}
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path

	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&indexer.IndexerProcessor{},
		&elaborator.ElaboratorProcessor{},
		&resolver.ResolverProcessor{},
	)
	ctx = p.Run(ctx)

	if ctx.Failed() {
		for _, derr := range ctx.Errors {
			reportError(derr)
		}
		os.Exit(1)
	}

	if mf != nil {
		if err := verifyImports(ctx, mf); err != nil {
			fatal(err.Error())
		}
		if mf.Module != "" && ctx.Program.ModuleName() != mf.Module {
			fatal(fmt.Sprintf("manifest expects module %s, file declares %s",
				mf.Module, ctx.Program.ModuleName()))
		}
	}

	if store != nil {
		if payload, err := encoding.EncodeProgram(ctx.Program); err == nil {
			moduleID := modules.ModuleID(ctx.Program.ModuleName()).String()
			_ = store.Put(cache.Key(source), moduleID, payload)
		}
	}

	output(ctx.Program, *emit)
}

func verifyImports(ctx *pipeline.PipelineContext, mf *manifest.Manifest) error {
	var fetcher modules.Fetcher
	if mf.Registry != "" {
		client, err := remote.Dial(mf.Registry)
		if err != nil {
			return err
		}
		defer client.Close()
		fetcher = client
	}
	loader := modules.NewLoader(mf.ResolvedSearchPaths(), fetcher)
	ctx.Loader = loader
	return loader.Verify(ctx.Program)
}

func output(program *ast.Program, emit string) {
	switch emit {
	case "bin":
		payload, err := encoding.EncodeProgram(program)
		if err != nil {
			fatal(err.Error())
		}
		os.Stdout.Write(payload)
	default:
		fmt.Print(prettyprinter.PrintProgram(program))
	}
}

func reportError(err *diagnostics.DiagnosticError) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintln(os.Stderr, colorRed+err.Error()+colorReset)
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
