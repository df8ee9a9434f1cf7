package evidence

import (
	"fmt"
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	dserrors "deadsym/internal/errors"
)

// LoadSCIPEvidence reads a SCIP index and returns, as evidence, the type
// names of every occurrence that is not a definition.
func LoadSCIPEvidence(path string) (Evidence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Evidence{}, dserrors.New(dserrors.EvidenceUnavailable,
			fmt.Sprintf("SCIP index not found at %s", path), err)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return Evidence{}, dserrors.New(dserrors.EvidenceUnavailable,
			fmt.Sprintf("Failed to parse SCIP index from %s", path), err)
	}
	return SCIPEvidence(&index), nil
}

// SCIPEvidence extracts referenced type names from an index.
func SCIPEvidence(index *scippb.Index) Evidence {
	e := New(SourceSCIP)
	for _, doc := range index.GetDocuments() {
		for _, occ := range doc.GetOccurrences() {
			if occ.GetSymbolRoles()&int32(scippb.SymbolRole_Definition) != 0 {
				continue
			}
			for _, name := range typeNames(occ.GetSymbol()) {
				e.Used[name] = true
			}
		}
	}
	return e
}

// typeNames returns the type descriptors of a global symbol, so a reference
// to Foo#bar(). yields Foo. Local and unparsable symbols yield nothing.
func typeNames(symbol string) []string {
	if symbol == "" || strings.HasPrefix(symbol, "local ") {
		return nil
	}
	parsed, err := scippb.ParseSymbol(symbol)
	if err != nil {
		return nil
	}
	var names []string
	for _, d := range parsed.GetDescriptors() {
		if d.GetSuffix() == scippb.Descriptor_Type && d.GetName() != "" {
			names = append(names, d.GetName())
		}
	}
	return names
}
