//go:build cgo

package symbols

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"
)

// SwiftExtractor finds class declarations in Swift sources with tree-sitter.
// It is not safe for concurrent use.
type SwiftExtractor struct {
	parser *sitter.Parser
}

// NewSwiftExtractor creates a new Swift class extractor.
func NewSwiftExtractor() *SwiftExtractor {
	p := sitter.NewParser()
	p.SetLanguage(swift.GetLanguage())
	return &SwiftExtractor{parser: p}
}

// ExtractFile returns the classes declared in a Swift file.
func (e *SwiftExtractor) ExtractFile(ctx context.Context, path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.ExtractSource(ctx, source)
}

// ExtractSource returns the classes declared in Swift source, including
// nested ones, in source order. Structs, enums, actors and extensions are
// not classes and are ignored.
func (e *SwiftExtractor) ExtractSource(ctx context.Context, source []byte) ([]string, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	var names []string
	var visit func(*sitter.Node)
	visit = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "class_declaration" {
			kind := node.ChildByFieldName("declaration_kind")
			name := node.ChildByFieldName("name")
			if kind != nil && name != nil && kind.Content(source) == "class" {
				names = appendUnique(names, name.Content(source))
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(tree.RootNode())
	return names, nil
}

// SwiftAvailable reports whether Swift extraction is compiled in.
func SwiftAvailable() bool {
	return true
}
