package modules

import (
	"github.com/google/uuid"

	"github.com/triplang/triplang/internal/ast"
)

// moduleNamespace is the UUIDv5 namespace for module identities.
// Derived IDs are deterministic: the same module name always maps to
// the same ID, so the ID stored with a cache entry is stable across runs.
var moduleNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("triplang.module"))

// Module is a located, parsed module.
type Module struct {
	ID      uuid.UUID
	Name    string
	Path    string
	Program *ast.Program
}

// ModuleID derives the deterministic identity of a module name.
func ModuleID(name string) uuid.UUID {
	return uuid.NewSHA1(moduleNamespace, []byte(name))
}
