package evidence

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"deadsym/internal/textio"
)

const ident = `([A-Za-z_][A-Za-z0-9_]*)`

// ReferencePattern is one independent heuristic for spotting a class name
// in Objective-C text. Capture group 1 is the candidate name.
type ReferencePattern struct {
	Name string
	re   *regexp.Regexp
}

// ReferencePatterns are applied in order and their matches unioned.
// They are approximate: any identifier in the right position matches, so
// non-class words slip in and macro-hidden references are missed.
var ReferencePatterns = []ReferencePattern{
	{"pointer", regexp.MustCompile(`\b` + ident + `\s*\*`)},
	{"typed-identifier", regexp.MustCompile(`\b` + ident + `\s+[a-z]`)},
	{"message-send", regexp.MustCompile(`\[` + ident + `\s+`)},
	{"property", regexp.MustCompile(`@property\s*\([^)]*\)\s*` + ident)},
	{"typedef", regexp.MustCompile(`typedef\s+[^;]*\s+` + ident)},
	{"array-generic", regexp.MustCompile(`NSArray\s*<\s*` + ident + `\s*\*>`)},
	{"dictionary-generic", regexp.MustCompile(`NSDictionary\s*<\s*[^,]*,\s*` + ident + `\s*\*>`)},
	{"import", regexp.MustCompile(`#import\s+"(?:[^"]*/)?` + ident + `\.h"`)},
	{"class-from-string", regexp.MustCompile(`NSClassFromString\(\s*@"` + ident + `"\s*\)`)},
	{"superclass", regexp.MustCompile(`@interface\s+[A-Za-z_][A-Za-z0-9_]*\s*:\s*` + ident)},
}

// SwiftReferencePatterns apply to .swift files only. On Objective-C text
// they would match every selector argument.
var SwiftReferencePatterns = []ReferencePattern{
	{"type-annotation", regexp.MustCompile(`:\s*` + ident)},
	{"initializer", regexp.MustCompile(`\b` + ident + `\s*\(`)},
}

// References returns the names matched by any Objective-C reference
// pattern in text, leaving out names in defined.
func References(text string, defined map[string]bool) map[string]bool {
	return match(text, defined, ReferencePatterns)
}

// SwiftReferences is References plus SwiftReferencePatterns.
func SwiftReferences(text string, defined map[string]bool) map[string]bool {
	refs := match(text, defined, ReferencePatterns)
	for n := range match(text, defined, SwiftReferencePatterns) {
		refs[n] = true
	}
	return refs
}

func match(text string, defined map[string]bool, patterns []ReferencePattern) map[string]bool {
	refs := make(map[string]bool)
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if name := m[1]; !defined[name] {
				refs[name] = true
			}
		}
	}
	return refs
}

// PatternResult holds pattern evidence and the per-file references behind it.
type PatternResult struct {
	Evidence Evidence
	ByFile   map[string]map[string]bool
	Skipped  int
}

// ScanPatterns applies the reference patterns to every file, adding the
// Swift patterns for .swift files. Names listed
// in defined for a file never count as references from that file.
// Unreadable files contribute nothing.
func ScanPatterns(ctx context.Context, files []string, defined map[string][]string) (*PatternResult, error) {
	res := &PatternResult{
		Evidence: FromSet(SourcePatterns, nil),
		ByFile:   make(map[string]map[string]bool, len(files)),
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		text, err := textio.ReadText(path)
		if err != nil {
			res.Skipped++
			continue
		}

		own := make(map[string]bool, len(defined[path]))
		for _, n := range defined[path] {
			own[n] = true
		}
		var refs map[string]bool
		if strings.EqualFold(filepath.Ext(path), ".swift") {
			refs = SwiftReferences(text, own)
		} else {
			refs = References(text, own)
		}
		res.ByFile[path] = refs
		for n := range refs {
			res.Evidence.Used[n] = true
		}
	}
	return res, nil
}
