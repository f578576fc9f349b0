package sigfile

import (
	"fmt"
	"path/filepath"

	"lambdapi/pkg/env"
)

// DirLoader implements env.ModuleLoader over a directory of compiled
// signature files, one per module, named "<module>.lpic" (lambdapi
// interface/compiled). This is the minimal "module located on disk"
// policy §1 leaves to an external collaborator; pkg/env itself never
// assumes a naming convention.
type DirLoader struct {
	Dir string
}

func (d DirLoader) Load(module string) ([]env.SignatureRecord, error) {
	path := filepath.Join(d.Dir, module+".lpic")
	records, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("sigfile: module %q: %w", module, err)
	}
	out := make([]env.SignatureRecord, len(records))
	for i, r := range records {
		out[i] = env.SignatureRecord{Name: r.Name, Static: r.Static, Type: r.Type, Rules: r.Rules}
	}
	return out, nil
}
