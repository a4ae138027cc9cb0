package config

const SourceFileExt = ".tri"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".tri", ".triplang"}

// ManifestFileName is the project manifest looked up from the entry
// file's directory upward.
const ManifestFileName = "triplang.yaml"

// MaxResolveIterations bounds the resolver's fixed-point sweeps. A
// program whose definitions still change after this many sweeps has a
// reference cycle and is reported instead of looping.
const MaxResolveIterations = 512

// MaxParseDepth bounds expression nesting in the parser.
const MaxParseDepth = 10000

// ArrowTypeName is the builtin type-constructor name arrow types
// desugar to: A -> B is TypeApp(TypeApp(Arrow, A), B).
const ArrowTypeName = "->"

// Combinator atom names.
const (
	CombinatorS = "S"
	CombinatorK = "K"
	CombinatorI = "I"
	CombinatorB = "B"
	CombinatorC = "C"
	CombinatorW = "W"
)

// HasSourceExt reports whether path ends in a recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// TrimSourceExt strips a recognized source extension from name.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
