// Package report renders analysis results as text, JSON, YAML or SARIF.
// Renderers only read the result.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"deadsym/internal/deadcode"
)

// Format names an output format.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSARIF Format = "sarif"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatSARIF:
		return f, nil
	case "":
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want human, json, yaml or sarif)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Color forces colored headings on or off in human output.
	Color bool
	// ByFile adds the per-file listing of class analysis.
	ByFile bool
}

// Render writes res to w in the requested format.
func Render(w io.Writer, res *deadcode.Result, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, res, opts.ByFile)
	case FormatYAML:
		return WriteYAML(w, res, opts.ByFile)
	case FormatSARIF:
		return WriteSARIF(w, res)
	default:
		return WriteHuman(w, res, opts)
	}
}

// Document is the machine-readable form of a result.
type Document struct {
	RunID      string                     `json:"runId" yaml:"runId"`
	Kind       deadcode.AnalysisKind      `json:"kind" yaml:"kind"`
	Root       string                     `json:"root" yaml:"root"`
	StartedAt  string                     `json:"startedAt" yaml:"startedAt"`
	DurationMs int64                      `json:"durationMs" yaml:"durationMs"`
	Summary    deadcode.DeadSymbolSummary `json:"summary" yaml:"summary"`
	Items      []deadcode.DeadSymbolItem  `json:"items" yaml:"items"`
	Files      []deadcode.FileVerdict     `json:"files,omitempty" yaml:"files,omitempty"`
	Sources    []string                   `json:"sources" yaml:"sources"`
	Caveats    []string                   `json:"caveats" yaml:"caveats"`
}

// NewDocument builds the document for res. Per-file verdicts are only
// included when byFile is set.
func NewDocument(res *deadcode.Result, byFile bool) Document {
	doc := Document{
		RunID:      res.RunID,
		Kind:       res.Kind,
		Root:       res.Root,
		DurationMs: res.Duration.Milliseconds(),
		Summary:    res.Summary,
		Items:      res.Items,
		Sources:    res.Sources,
		Caveats:    res.Caveats,
	}
	if !res.StartedAt.IsZero() {
		doc.StartedAt = res.StartedAt.UTC().Format(time.RFC3339)
	}
	if doc.Items == nil {
		doc.Items = []deadcode.DeadSymbolItem{}
	}
	if doc.Sources == nil {
		doc.Sources = []string{}
	}
	if byFile {
		doc.Files = res.Files
	}
	return doc
}

// relPath renders path relative to root with forward slashes. Paths outside
// root are returned unchanged.
func relPath(path, root string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
