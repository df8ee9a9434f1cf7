// Package symbols discovers the candidate names a dead-symbol analysis
// classifies: resource files by base name and classes by declaration.
package symbols

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind classifies a category by the rules that apply to its names.
type Kind string

const (
	KindImage     Kind = "image"
	KindAudio     Kind = "audio"
	KindVideo     Kind = "video"
	KindAnimation Kind = "animation"
	KindClass     Kind = "class"
	KindOther     Kind = "other"
)

var kindByExt = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".heic": KindImage,
	".pdf":  KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".aac":  KindAudio,
	".m4a":  KindAudio,
	".caf":  KindAudio,
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".svga": KindAnimation,
	".json": KindAnimation,
	".pag":  KindAnimation,
}

// KindOf returns the kind of a file extension. The lookup is case-insensitive
// and accepts the extension with or without its leading dot.
func KindOf(ext string) Kind {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if k, ok := kindByExt[ext]; ok {
		return k
	}
	return KindOther
}

// Symbol is one discovered candidate. It is never modified after NewSymbol.
type Symbol struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Kind       Kind   `json:"kind"`
	Normalized string `json:"normalized"`
	Path       string `json:"path,omitempty"`
}

// NewSymbol builds a Symbol, computing its normalized form.
func NewSymbol(name, category string, kind Kind, path string) Symbol {
	return Symbol{
		Name:       name,
		Category:   category,
		Kind:       kind,
		Normalized: Normalize(name, kind),
		Path:       path,
	}
}

// ResourceSymbol builds the Symbol for a resource file: the base name without
// extension, tagged with the lower-cased extension.
func ResourceSymbol(path string) Symbol {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	category := strings.TrimPrefix(strings.ToLower(ext), ".")
	return NewSymbol(strings.TrimSuffix(base, ext), category, KindOf(ext), path)
}

var variantSuffix = regexp.MustCompile(`(?i)(@[23]x|~iphone|~ipad)$`)

// Normalize collapses density (@2x, @3x) and platform (~iphone, ~ipad)
// variants of image names. Suffixes are stripped until none is left, so
// icon@2x~ipad becomes icon. Names of other kinds are returned unchanged.
func Normalize(name string, kind Kind) string {
	if kind != KindImage {
		return name
	}
	for {
		loc := variantSuffix.FindStringIndex(name)
		if loc == nil || loc[0] == 0 {
			return name
		}
		name = name[:loc[0]]
	}
}
