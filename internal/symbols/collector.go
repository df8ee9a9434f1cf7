package symbols

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	dserrors "deadsym/internal/errors"
	"deadsym/internal/textio"
)

// Filter decides which paths are walked and which names become candidates.
// A nil Filter keeps everything.
type Filter interface {
	SkipPath(path string, isDir bool) bool
	SkipName(name string) bool
}

// Collection is the output of one collector pass.
type Collection struct {
	Universe *Universe
	// Files maps each entry to the files it was found in.
	Files map[Ref][]string
	// ByFile maps each file to the names it declares, in declaration order.
	ByFile map[string][]string
	// Skipped counts files that could not be read.
	Skipped int
}

func newCollection() *Collection {
	return &Collection{
		Universe: NewUniverse(),
		Files:    make(map[Ref][]string),
		ByFile:   make(map[string][]string),
	}
}

func (c *Collection) add(s Symbol, filter Filter) {
	if s.Normalized == "" || (filter != nil && filter.SkipName(s.Normalized)) {
		return
	}
	c.Universe.AddSymbol(s)
	ref := Ref{Category: s.Category, Name: s.Normalized}
	if s.Path != "" {
		c.Files[ref] = appendUnique(c.Files[ref], s.Path)
		c.ByFile[s.Path] = appendUnique(c.ByFile[s.Path], s.Normalized)
	}
}

// Merge folds other into c.
func (c *Collection) Merge(other *Collection) {
	if other == nil {
		return
	}
	c.Universe.Merge(other.Universe)
	for ref, files := range other.Files {
		for _, f := range files {
			c.Files[ref] = appendUnique(c.Files[ref], f)
		}
	}
	for f, names := range other.ByFile {
		for _, n := range names {
			c.ByFile[f] = appendUnique(c.ByFile[f], n)
		}
	}
	c.Skipped += other.Skipped
}

// FilesOf returns the files name was found in, across all categories.
func (c *Collection) FilesOf(name string) []string {
	var out []string
	for ref, files := range c.Files {
		if ref.Name == name {
			for _, f := range files {
				out = appendUnique(out, f)
			}
		}
	}
	sort.Strings(out)
	return out
}

// CheckRoot returns a fatal ROOT_MISSING error unless root is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return dserrors.New(dserrors.RootMissing, "root directory not found: "+root, err)
	}
	if !info.IsDir() {
		return dserrors.New(dserrors.RootMissing, "root is not a directory: "+root, nil)
	}
	return nil
}

// CollectResources walks root and records every file whose extension is in
// exts. The candidate is the file's base name without extension, normalized
// according to the extension's kind and tagged with the extension.
func CollectResources(ctx context.Context, root string, exts []string, filter Filter) (*Collection, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	want := extSet(exts)
	out := newCollection()

	err := walk(ctx, root, filter, func(path string) {
		if !want[strings.ToLower(filepath.Ext(path))] {
			return
		}
		out.add(ResourceSymbol(path), filter)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeclarationOptions configures CollectDeclarations.
type DeclarationOptions struct {
	// Extensions are the files whose text is matched against Patterns.
	Extensions []string
	// Patterns must each have at least one capture group; group 1 is the name.
	Patterns []*regexp.Regexp
	// Swift also extracts class declarations from .swift files.
	Swift bool
	// Category tags the regex-declared names. Defaults to "objc".
	Category string
	Filter   Filter
}

// CollectDeclarations walks root and extracts declared class names.
// A file may declare any number of names. Unreadable files are counted in
// Collection.Skipped and otherwise ignored.
func CollectDeclarations(ctx context.Context, root string, opts DeclarationOptions) (*Collection, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	category := opts.Category
	if category == "" {
		category = "objc"
	}
	want := extSet(opts.Extensions)
	out := newCollection()

	var swift *SwiftExtractor
	if opts.Swift {
		swift = NewSwiftExtractor()
	}

	err := walk(ctx, root, opts.Filter, func(path string) {
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case want[ext]:
			text, err := textio.ReadText(path)
			if err != nil {
				out.Skipped++
				return
			}
			for _, name := range MatchDeclarations(text, opts.Patterns) {
				out.add(NewSymbol(name, category, KindClass, path), opts.Filter)
			}
		case ext == ".swift" && swift != nil:
			names, err := swift.ExtractFile(ctx, path)
			if err != nil {
				out.Skipped++
				return
			}
			for _, name := range names {
				out.add(NewSymbol(name, "swift", KindClass, path), opts.Filter)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MatchDeclarations returns the first capture group of every match of every
// pattern in text, in pattern order, without duplicates.
func MatchDeclarations(text string, patterns []*regexp.Regexp) []string {
	var names []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 && m[1] != "" {
				names = appendUnique(names, m[1])
			}
		}
	}
	return names
}

// walk visits every regular file under root that the filter keeps.
// Unreadable directories are skipped rather than failing the walk.
func walk(ctx context.Context, root string, filter Filter, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && filter != nil && filter.SkipPath(path, true) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filter != nil && filter.SkipPath(path, false) {
			return nil
		}
		visit(path)
		return nil
	})
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
