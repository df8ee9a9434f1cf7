package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"deadsym/internal/deadcode"
)

// WriteYAML writes res as a YAML document.
func WriteYAML(w io.Writer, res *deadcode.Result, byFile bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(res, byFile)); err != nil {
		return err
	}
	return enc.Close()
}
