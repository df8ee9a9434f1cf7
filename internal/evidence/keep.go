package evidence

import (
	"strings"

	"github.com/BurntSushi/toml"

	dserrors "deadsym/internal/errors"
	"deadsym/internal/symbols"
)

// KeepList names symbols that are used in ways no scan can see, such as
// classes built from strings at runtime.
//
//	names = ["PushHandler"]
//	prefixes = ["Plugin"]
type KeepList struct {
	Names    []string `toml:"names"`
	Prefixes []string `toml:"prefixes"`
}

// LoadKeepList decodes a keep list file.
func LoadKeepList(path string) (*KeepList, error) {
	var k KeepList
	md, err := toml.DecodeFile(path, &k)
	if err != nil {
		return nil, dserrors.New(dserrors.EvidenceUnavailable, "cannot read keep list "+path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, dserrors.New(dserrors.EvidenceUnavailable,
			"unknown keys in keep list "+path+": "+strings.Join(keys, ", "), nil)
	}
	return &k, nil
}

// Evidence marks every universe name listed by name or matched by prefix.
func (k *KeepList) Evidence(u *symbols.Universe) Evidence {
	e := New(SourceKeep, k.Names...)
	if len(k.Prefixes) == 0 {
		return e
	}
	for _, name := range u.Names() {
		if HasAnyPrefix(name, k.Prefixes) {
			e.Used[name] = true
		}
	}
	return e
}
