// Package modules locates and parses the modules named by import
// declarations. Search paths come from the project manifest; a
// registry client is the network fallback. The loader only locates
// and parses; splicing foreign definitions into a program is the
// linker's job, not ours.
package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/triplang/triplang/internal/ast"
	"github.com/triplang/triplang/internal/config"
	"github.com/triplang/triplang/internal/lexer"
	"github.com/triplang/triplang/internal/parser"
)

// Fetcher retrieves a module's source text by name. The remote
// registry client implements it.
type Fetcher interface {
	FetchModule(name string) (string, error)
}

type Loader struct {
	searchPaths []string
	fetcher     Fetcher
	cache       map[string]*Module
}

func NewLoader(searchPaths []string, fetcher Fetcher) *Loader {
	return &Loader{
		searchPaths: searchPaths,
		fetcher:     fetcher,
		cache:       make(map[string]*Module),
	}
}

// GetModule returns the module named ref, loading it on first use.
func (l *Loader) GetModule(ref string) (*Module, error) {
	if mod, ok := l.cache[ref]; ok {
		return mod, nil
	}
	mod, err := l.load(ref)
	if err != nil {
		return nil, err
	}
	l.cache[ref] = mod
	return mod, nil
}

func (l *Loader) load(ref string) (*Module, error) {
	for _, dir := range l.searchPaths {
		for _, ext := range config.SourceFileExtensions {
			path := filepath.Join(dir, ref+ext)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			return l.parse(ref, path, string(data))
		}
	}
	if l.fetcher != nil {
		source, err := l.fetcher.FetchModule(ref)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", ref, err)
		}
		return l.parse(ref, "", source)
	}
	return nil, fmt.Errorf("module %s: not found on any search path", ref)
}

func (l *Loader) parse(ref, path, source string) (*Module, error) {
	program, errs := parser.Parse(lexer.Tokenize(source), path)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if name := program.ModuleName(); name != "" && name != ref {
		return nil, fmt.Errorf("module %s: file declares module %s", ref, name)
	}
	return &Module{
		ID:      ModuleID(ref),
		Name:    ref,
		Path:    path,
		Program: program,
	}, nil
}

// Verify checks that every import of program names a module the
// loader can locate, and that the imported name is exported there.
func (l *Loader) Verify(program *ast.Program) error {
	for _, def := range program.Definitions {
		imp, ok := def.(*ast.ImportDecl)
		if !ok {
			continue
		}
		mod, err := l.GetModule(imp.Ref)
		if err != nil {
			return err
		}
		if !exports(mod.Program, imp.Name) {
			return fmt.Errorf("module %s does not export %s", imp.Ref, imp.Name)
		}
	}
	return nil
}

func exports(program *ast.Program, name string) bool {
	for _, def := range program.Definitions {
		if exp, ok := def.(*ast.ExportDecl); ok && exp.Name == name {
			return true
		}
	}
	return false
}
