package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	defer func(v, h string) { Version, GitHash = v, h }(Version, GitHash)

	Version, GitHash = "v0.3.0", "5f2c1e9a7b"
	assert.Equal(t, "v0.3.0-5f2c1e9", GetVersion())

	GitHash = ""
	assert.Equal(t, "v0.3.0", GetVersion())

	var buf bytes.Buffer
	Printer(&buf)
	assert.Contains(t, buf.String(), "v0.3.0")
	assert.Contains(t, buf.String(), "Git Branch:")
}
