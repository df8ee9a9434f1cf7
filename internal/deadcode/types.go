// Package deadcode runs reference-based dead symbol detection over iOS
// projects: unused resource files and unused Objective-C/Swift classes.
package deadcode

import (
	"time"

	"deadsym/internal/evidence"
	"deadsym/internal/grouping"
	"deadsym/internal/scanner"
	"deadsym/internal/symbols"
)

// AnalysisKind names the two analyses.
type AnalysisKind string

const (
	KindResources AnalysisKind = "resources"
	KindClasses   AnalysisKind = "classes"
)

const (
	// ConfidenceWithBinary applies when a compiled binary was consulted.
	ConfidenceWithBinary = 0.9
	// ConfidenceTextOnly applies when only source text was consulted.
	ConfidenceTextOnly = 0.7
)

// Caveats are printed with every report. No analysis here can see these
// kinds of reference, so every unused verdict needs manual confirmation.
var Caveats = []string{
	"Classes created at runtime with NSClassFromString or similar lookups are invisible to the scan.",
	"Names assembled from string fragments (e.g. [NSString stringWithFormat:@\"icon_%d\", i]) only match when the fixed part is itself a symbol or group key.",
	"Categories extending system classes (e.g. NSString+Utils) are never reported and need a manual check.",
	"Confirm each candidate with a project-wide search before deleting it.",
}

// DeadSymbolItem is one symbol with no detected reference.
type DeadSymbolItem struct {
	// Name is the normalized symbol name.
	Name string `json:"name" yaml:"name"`

	// Category is the extension tag (png, mp3) or class origin (objc, swift, binary).
	Category string `json:"category" yaml:"category"`

	// Files are the files that define the symbol.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Group is the numbered family the symbol belongs to, if any.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	// Confidence is how certain we are the symbol is unused (0.0 - 1.0).
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Reason explains which evidence sources found nothing.
	Reason string `json:"reason" yaml:"reason"`
}

// CategorySummary counts one category.
type CategorySummary struct {
	Category string `json:"category" yaml:"category"`
	Total    int    `json:"total" yaml:"total"`
	Used     int    `json:"used" yaml:"used"`
	Unused   int    `json:"unused" yaml:"unused"`
}

// DeadSymbolSummary provides aggregate statistics.
type DeadSymbolSummary struct {
	// Total, Used and Unused count distinct names across categories.
	Total  int `json:"total" yaml:"total"`
	Used   int `json:"used" yaml:"used"`
	Unused int `json:"unused" yaml:"unused"`

	// ByCategory is sorted by category.
	ByCategory []CategorySummary `json:"byCategory" yaml:"byCategory"`

	Groups          int `json:"groups" yaml:"groups"`
	FilesTotal      int `json:"filesTotal" yaml:"filesTotal"`
	FilesScanned    int `json:"filesScanned" yaml:"filesScanned"`
	FilesSkipped    int `json:"filesSkipped" yaml:"filesSkipped"`
	FilesUnreadable int `json:"filesUnreadable" yaml:"filesUnreadable"`
}

// FileVerdict tells whether the class named after a .m file is referenced.
type FileVerdict struct {
	Path       string `json:"path" yaml:"path"`
	Class      string `json:"class" yaml:"class"`
	Referenced bool   `json:"referenced" yaml:"referenced"`
}

// Result is the output of one analysis.
type Result struct {
	RunID string       `json:"runId" yaml:"runId"`
	Kind  AnalysisKind `json:"kind" yaml:"kind"`
	Root  string       `json:"root" yaml:"root"`

	// Items lists unused symbols ordered by category then name.
	Items []DeadSymbolItem `json:"items" yaml:"items"`

	Summary DeadSymbolSummary `json:"summary" yaml:"summary"`

	// Files is only filled by class analysis.
	Files []FileVerdict `json:"files,omitempty" yaml:"files,omitempty"`

	// Sources are the evidence sources that were consulted.
	Sources []string `json:"sources" yaml:"sources"`

	Caveats []string `json:"caveats" yaml:"caveats"`

	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	Universe *symbols.Universe `json:"-" yaml:"-"`
	Groups   *grouping.Groups  `json:"-" yaml:"-"`
	Verdict  *evidence.Verdict `json:"-" yaml:"-"`
	Scan     *scanner.Result   `json:"-" yaml:"-"`
}

// Empty reports whether the analysis found no candidate names at all.
func (r *Result) Empty() bool {
	return r.Universe == nil || r.Universe.Len() == 0
}
