package env

import (
	"context"
	"fmt"

	"lambdapi/pkg/sig"
	"lambdapi/pkg/term"
)

// SignatureRecord is one compiled declaration as loaded from an
// internal/sigfile image: a qualified name, its staticity, declared
// type, and already-typed rules. Required here (rather than importing
// internal/sigfile directly) to keep pkg/env free of the msgpack
// on-disk format — cmd/lambdapi decodes a sigfile.Image and adapts it
// into these records before calling Require.
type SignatureRecord struct {
	Name   term.QName
	Static bool
	Type   term.Term
	Rules  []*term.TypedRule
}

// ModuleLoader resolves a module name to its previously compiled
// records. cmd/lambdapi implements this over internal/sigfile; the
// façade only defines how a loaded signature is merged into the live
// one, not how modules are located on disk (spec.md §1's "module
// dependency tracking is an external collaborator").
type ModuleLoader interface {
	Load(module string) ([]SignatureRecord, error)
}

// ModuleNotFoundError is raised by Require when loader reports no such
// module.
type ModuleNotFoundError struct {
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("env: module %q not found", e.Module)
}

// Require processes a `Require(module)` entry: loads module's compiled
// declarations via loader and merges them into the live signature.
// Declarations already present under the same qualified name are left
// untouched by AddDeclaration's own monotonicity check, which surfaces
// as AlreadyDefinedError if a Require names something already loaded.
func (e *Env) Require(loader ModuleLoader, module string) error {
	records, err := loader.Load(module)
	if err != nil {
		return &ModuleNotFoundError{Module: module}
	}
	for _, r := range records {
		staticity := sig.Definable
		if r.Static {
			staticity = sig.Static
		}
		if err := e.Signature.AddDeclaration(r.Name, staticity, r.Type); err != nil {
			return err
		}
	}
	ctx := context.Background()
	for _, r := range records {
		if len(r.Rules) == 0 {
			continue
		}
		if err := e.Signature.AddRules(ctx, r.Rules); err != nil {
			return err
		}
	}
	return nil
}
