package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDbyIP(t *testing.T) {
	assert.Equal(t, uint32(0x7f000001), IDbyIP("127.0.0.1"))
	assert.Equal(t, uint32(0xc0a80002), IDbyIP("192.168.0.2"))
	assert.Equal(t, uint32(0), IDbyIP("not an ip"))
}

func TestRunID(t *testing.T) {
	a, err := RunID("192.168.0.2")
	require.NoError(t, err)
	assert.Positive(t, a.Int64())
	assert.Equal(t, int64(2), a.Node())

	_, err = RunID("10.0.0.1")
	assert.NoError(t, err)
}

func TestLocalIP(t *testing.T) {
	assert.NotEmpty(t, LocalIP())
}
