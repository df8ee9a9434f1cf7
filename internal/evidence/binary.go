package evidence

import (
	"context"
	"log/slog"
	"strings"
)

// BinaryOptions configures CollectBinary.
type BinaryOptions struct {
	Binary string
	// LinkMap is optional; without it superclass resolution is skipped.
	LinkMap        string
	IgnorePrefixes []string
	Inspector      Inspector
	Logger         *slog.Logger
}

// BinaryResult holds everything learned from a compiled binary.
type BinaryResult struct {
	// Defined are the classes the binary defines, minus ignored prefixes.
	Defined []string
	// Referenced is the binary's class reference table.
	Referenced Evidence
	// Superclass holds classes reached only as a superclass. It is nil when
	// the step was skipped or failed.
	Superclass *Evidence
	// Unresolved counts superclass addresses missing from the link map.
	Unresolved int
}

// CollectBinary queries the inspector for defined and referenced classes,
// then resolves superclass addresses through the link map when one is given.
// Failing to read the class tables is an error; problems with the
// superclass step only disable that step.
func CollectBinary(ctx context.Context, opts BinaryOptions) (*BinaryResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	inspector := opts.Inspector
	if inspector == nil {
		inspector = NewOtoolInspector()
	}

	defined, err := inspector.DefinedClasses(ctx, opts.Binary)
	if err != nil {
		return nil, err
	}
	referenced, err := inspector.ReferencedClasses(ctx, opts.Binary)
	if err != nil {
		return nil, err
	}

	res := &BinaryResult{Referenced: New(SourceBinary, referenced...)}
	for _, name := range defined {
		if !HasAnyPrefix(name, opts.IgnorePrefixes) {
			res.Defined = appendUnique(res.Defined, name)
		}
	}
	logger.Debug("Read binary class tables",
		"binary", opts.Binary,
		"defined", len(res.Defined),
		"referenced", res.Referenced.Len(),
	)

	if opts.LinkMap == "" {
		logger.Info("Superclass resolution skipped: no link map given")
		return res, nil
	}

	lm, err := LoadLinkMap(opts.LinkMap)
	if err != nil {
		logger.Warn("Superclass resolution skipped", "error", err)
		return res, nil
	}
	addrs, err := inspector.SuperclassAddresses(ctx, opts.Binary)
	if err != nil {
		logger.Warn("Superclass resolution skipped", "error", err)
		return res, nil
	}

	super := New(SourceSuperclass)
	for _, addr := range addrs {
		if name, ok := lm.Resolve(addr); ok {
			super.Used[name] = true
		} else {
			res.Unresolved++
		}
	}
	res.Superclass = &super
	logger.Debug("Resolved superclasses",
		"addresses", len(addrs),
		"resolved", super.Len(),
		"unresolved", res.Unresolved,
	)
	return res, nil
}

// Evidence returns the evidence sets of the result.
func (r *BinaryResult) Evidence() []Evidence {
	out := []Evidence{r.Referenced}
	if r.Superclass != nil {
		out = append(out, *r.Superclass)
	}
	return out
}

// HasAnyPrefix reports whether name starts with any non-empty prefix.
func HasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
