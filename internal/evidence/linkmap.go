package evidence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	dserrors "deadsym/internal/errors"
)

// LinkMap maps symbol addresses of an Xcode link map to class names.
// Only _OBJC_CLASS_$_ symbols are kept.
type LinkMap struct {
	classes map[string]string
}

// LoadLinkMap reads a link map file. Files ending in .gz or .zst are
// decompressed on the fly.
func LoadLinkMap(path string) (*LinkMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dserrors.New(dserrors.EvidenceUnavailable, "cannot open link map "+path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, dserrors.New(dserrors.EvidenceUnavailable, "cannot decompress link map "+path, err)
		}
		defer gz.Close()
		r = gz
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, dserrors.New(dserrors.EvidenceUnavailable, "cannot decompress link map "+path, err)
		}
		defer zr.Close()
		r = zr
	}

	m, err := ParseLinkMap(r)
	if err != nil {
		return nil, dserrors.New(dserrors.EvidenceUnavailable, "cannot read link map "+path, err)
	}
	return m, nil
}

// ParseLinkMap reads the symbol table of a link map. Symbol lines look like
// "0x10000C8D0	0x00000028	[  3] _OBJC_CLASS_$_BaseViewController".
func ParseLinkMap(r io.Reader) (*LinkMap, error) {
	m := &LinkMap{classes: make(map[string]string)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "0x") {
			continue
		}
		i := strings.Index(line, "] ")
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(line[i+2:])
		if !strings.HasPrefix(name, classSymbolPrefix) {
			continue
		}
		addr := strings.Fields(line)[0]
		m.classes[NormalizeAddress(addr)] = strings.TrimPrefix(name, classSymbolPrefix)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan link map: %w", err)
	}
	return m, nil
}

// Resolve returns the class at addr.
func (m *LinkMap) Resolve(addr string) (string, bool) {
	name, ok := m.classes[NormalizeAddress(addr)]
	return name, ok
}

// Len returns the number of class symbols.
func (m *LinkMap) Len() int {
	return len(m.classes)
}
