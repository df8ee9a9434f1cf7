package evidence

import "context"

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=inspector.go -destination=mock_inspector.gen.go -package=evidence

// Inspector reads Objective-C class tables out of a compiled binary.
type Inspector interface {
	// DefinedClasses lists the classes the binary defines.
	DefinedClasses(ctx context.Context, binary string) ([]string, error)
	// ReferencedClasses lists the classes the binary's code refers to.
	ReferencedClasses(ctx context.Context, binary string) ([]string, error)
	// SuperclassAddresses lists the superclass pointer of every class, as
	// hexadecimal addresses to be resolved against a link map.
	SuperclassAddresses(ctx context.Context, binary string) ([]string, error)
}
