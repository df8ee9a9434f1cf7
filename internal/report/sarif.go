package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"deadsym/internal/deadcode"
	"deadsym/internal/version"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	FullDescription      *SARIFMessage           `json:"fullDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string            `json:"ruleId"`
	Level        string            `json:"level,omitempty"`
	Message      SARIFMessage      `json:"message"`
	Locations    []SARIFLocation   `json:"locations,omitempty"`
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
	Properties   map[string]any    `json:"properties,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool                   `json:"executionSuccessful"`
	WorkingDirectory    *SARIFArtifactLocation `json:"workingDirectory,omitempty"`
	Machine             string                 `json:"machine,omitempty"`
}

// Rule IDs.
const (
	RuleUnusedResource = "deadsym/unused-resource"
	RuleUnusedClass    = "deadsym/unused-class"
)

// ruleFor returns the single rule a result kind reports under.
func ruleFor(kind deadcode.AnalysisKind) SARIFRule {
	if kind == deadcode.KindClasses {
		return SARIFRule{
			ID:               RuleUnusedClass,
			Name:             "UnusedClass",
			ShortDescription: &SARIFMessage{Text: "Class has no detected reference"},
			FullDescription: &SARIFMessage{Text: "No source pattern, binary table or other evidence source " +
				"referenced this class. Dynamic lookups are not detected; confirm before deleting."},
			DefaultConfiguration: &SARIFRuleConfiguration{Level: "warning"},
		}
	}
	return SARIFRule{
		ID:               RuleUnusedResource,
		Name:             "UnusedResource",
		ShortDescription: &SARIFMessage{Text: "Resource file name appears in no code file"},
		FullDescription: &SARIFMessage{Text: "The resource's base name, or its numbered group's key, " +
			"was not found in any scanned code file. Names built at runtime are not detected."},
		DefaultConfiguration: &SARIFRuleConfiguration{Level: "warning"},
	}
}

// BuildSARIF converts a result to a SARIF report. Each unused item becomes
// one result located at its defining files.
func BuildSARIF(res *deadcode.Result) SARIFReport {
	rule := ruleFor(res.Kind)

	results := make([]SARIFResult, 0, len(res.Items))
	for _, it := range res.Items {
		r := SARIFResult{
			RuleID: rule.ID,
			Level:  confidenceToLevel(it.Confidence),
			Message: SARIFMessage{
				Text: fmt.Sprintf("%s %q (%s) is never referenced: %s", noun(res.Kind), it.Name, it.Category, it.Reason),
			},
			Fingerprints: map[string]string{
				"deadsym/v1": fingerprint(res.Kind, it),
			},
			Properties: map[string]any{
				"category":   it.Category,
				"confidence": it.Confidence,
			},
		}
		if it.Group != "" {
			r.Properties["group"] = it.Group
		}
		for _, f := range it.Files {
			r.Locations = append(r.Locations, SARIFLocation{
				PhysicalLocation: &SARIFPhysicalLocation{
					ArtifactLocation: &SARIFArtifactLocation{
						URI:       relPath(f, res.Root),
						URIBaseID: "%SRCROOT%",
					},
				},
			})
		}
		results = append(results, r)
	}

	return SARIFReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "deadsym",
						Version:         version.Version,
						SemanticVersion: version.Version,
						Rules:           []SARIFRule{rule},
					},
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: true,
						WorkingDirectory:    &SARIFArtifactLocation{URI: res.Root},
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}
}

// WriteSARIF writes res as an indented SARIF 2.1.0 document.
func WriteSARIF(w io.Writer, res *deadcode.Result) error {
	data, err := json.MarshalIndent(BuildSARIF(res), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func noun(kind deadcode.AnalysisKind) string {
	if kind == deadcode.KindClasses {
		return "Class"
	}
	return "Resource"
}

// confidenceToLevel maps binary-backed findings to warnings and text-only
// ones to notes.
func confidenceToLevel(c float64) string {
	if c >= deadcode.ConfidenceWithBinary {
		return "warning"
	}
	return "note"
}

// fingerprint is stable across runs for the same finding.
func fingerprint(kind deadcode.AnalysisKind, it deadcode.DeadSymbolItem) string {
	hash := sha256.Sum256([]byte(string(kind) + ":" + it.Category + ":" + it.Name))
	return hex.EncodeToString(hash[:])[:16]
}
