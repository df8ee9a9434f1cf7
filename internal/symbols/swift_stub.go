//go:build !cgo

package symbols

import (
	"context"
	"errors"
)

// ErrSwiftUnavailable is returned when the binary was built without cgo.
var ErrSwiftUnavailable = errors.New("swift extraction requires cgo")

// SwiftExtractor is a stub used when cgo is not available.
type SwiftExtractor struct{}

// NewSwiftExtractor returns nil when cgo is not available, which disables
// Swift collection.
func NewSwiftExtractor() *SwiftExtractor {
	return nil
}

// ExtractFile always fails without cgo.
func (e *SwiftExtractor) ExtractFile(ctx context.Context, path string) ([]string, error) {
	return nil, ErrSwiftUnavailable
}

// ExtractSource always fails without cgo.
func (e *SwiftExtractor) ExtractSource(ctx context.Context, source []byte) ([]string, error) {
	return nil, ErrSwiftUnavailable
}

// SwiftAvailable reports whether Swift extraction is compiled in.
func SwiftAvailable() bool {
	return false
}
