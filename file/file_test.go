package file

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithExtSwapsTheExtension(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("take.tab.txt", WithExt("take.wav", ".tab.txt"))
	assert.Equal(filepath.Join("a", "b.mid"), WithExt(filepath.Join("a", "b.wav"), ".mid"))
	assert.Equal("noext.wav", WithExt("noext", ".wav"))
}

func TestTempNamesDoNotCollide(t *testing.T) {
	a := TempName("dir", ".dat")
	b := TempName("dir", ".dat")

	assert := assert.New(t)
	assert.NotEqual(a, b)
	assert.True(strings.HasSuffix(a, ".dat"))
	assert.Equal("dir", filepath.Dir(a))
}
