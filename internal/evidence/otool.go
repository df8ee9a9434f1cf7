package evidence

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	dserrors "deadsym/internal/errors"
)

const classSymbolPrefix = "_OBJC_CLASS_$_"

// classSegments are tried in order; newer toolchains move the class lists
// from __DATA to __DATA_CONST.
var classSegments = []string{"__DATA", "__DATA_CONST"}

// OtoolInspector implements Inspector by running otool.
type OtoolInspector struct {
	// Path is the otool executable. Defaults to "otool" on PATH.
	Path string
}

// NewOtoolInspector creates an inspector for the otool found on PATH.
func NewOtoolInspector() *OtoolInspector {
	return &OtoolInspector{Path: "otool"}
}

// DefinedClasses reads the __objc_classlist section.
func (o *OtoolInspector) DefinedClasses(ctx context.Context, binary string) ([]string, error) {
	return o.sectionClasses(ctx, binary, "__objc_classlist")
}

// ReferencedClasses reads the __objc_classrefs section.
func (o *OtoolInspector) ReferencedClasses(ctx context.Context, binary string) ([]string, error) {
	return o.sectionClasses(ctx, binary, "__objc_classrefs")
}

// SuperclassAddresses reads the class hierarchy from `otool -oV`.
func (o *OtoolInspector) SuperclassAddresses(ctx context.Context, binary string) ([]string, error) {
	out, err := o.run(ctx, "-oV", binary)
	if err != nil {
		return nil, err
	}
	return ParseSuperclassAddresses(out), nil
}

func (o *OtoolInspector) sectionClasses(ctx context.Context, binary, section string) ([]string, error) {
	var lastErr error
	for _, seg := range classSegments {
		out, err := o.run(ctx, "-v", "-s", seg, section, binary)
		if err != nil {
			lastErr = err
			continue
		}
		if names := ParseClassSection(out); len(names) > 0 {
			return names, nil
		}
	}
	return nil, lastErr
}

func (o *OtoolInspector) run(ctx context.Context, args ...string) ([]byte, error) {
	path := o.Path
	if path == "" {
		path = "otool"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		return nil, dserrors.New(dserrors.InspectorFailed,
			fmt.Sprintf("%s %s failed: %s", path, strings.Join(args, " "), msg), err)
	}
	return out, nil
}

// ParseClassSection extracts class names from `otool -v -s` output. Lines
// look like "0000000100010000	0x100012a40 _OBJC_CLASS_$_AppDelegate".
func ParseClassSection(out []byte) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "0x") {
			continue
		}
		i := strings.LastIndex(line, classSymbolPrefix)
		if i < 0 {
			continue
		}
		if name := strings.TrimSpace(line[i+len(classSymbolPrefix):]); name != "" {
			names = appendUnique(names, name)
		}
	}
	return names
}

// ParseSuperclassAddresses extracts the address after every "superclass 0x"
// in `otool -oV` output. A zero address (root classes) is dropped.
func ParseSuperclassAddresses(out []byte) []string {
	var addrs []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		for i := 0; i+1 < len(fields); i++ {
			if fields[i] != "superclass" || !strings.HasPrefix(fields[i+1], "0x") {
				continue
			}
			if addr := NormalizeAddress(fields[i+1]); addr != "0" {
				addrs = appendUnique(addrs, addr)
			}
		}
	}
	return addrs
}

// NormalizeAddress lower-cases a hexadecimal address and strips its 0x
// prefix and leading zeros, so 0x0000C8D0 and 0xc8d0 compare equal.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimLeft(addr, "0")
	if addr == "" {
		return "0"
	}
	return addr
}
