package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClassSection(t *testing.T) {
	out := []byte(`/build/App.app/App:
Contents of (__DATA,__objc_classlist) section
0000000100010000	0x100012a40 _OBJC_CLASS_$_AppDelegate
0000000100010008	0x100012a90 _OBJC_CLASS_$_HomeViewController
0000000100010010	0x100012a40 _OBJC_CLASS_$_AppDelegate
no address _OBJC_CLASS_$_Ghost
`)
	assert.Equal(t, []string{"AppDelegate", "HomeViewController"}, ParseClassSection(out))
	assert.Empty(t, ParseClassSection(nil))
}

func TestParseSuperclassAddresses(t *testing.T) {
	out := []byte(`0000000100012a90 0x100012a90 _OBJC_CLASS_$_HomeViewController
           isa 0x100012a68 _OBJC_METACLASS_$_HomeViewController
    superclass 0x100012AB8 _OBJC_CLASS_$_BaseViewController
         cache 0x0 __objc_empty_cache
0000000100012ab8 0x100012ab8
    superclass 0x0
    superclass 0x100012ab8
`)
	assert.Equal(t, []string{"100012ab8"}, ParseSuperclassAddresses(out))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "c8d0", NormalizeAddress("0x0000C8D0"))
	assert.Equal(t, "c8d0", NormalizeAddress("c8d0"))
	assert.Equal(t, "0", NormalizeAddress("0x0"))
	assert.Equal(t, "0", NormalizeAddress(""))
}
