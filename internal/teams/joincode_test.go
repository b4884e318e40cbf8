package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := RandomJoinCode()
		require.NoError(t, err)
		assert.True(t, IsWellFormedJoinCode(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestIsWellFormedJoinCode(t *testing.T) {
	assert.True(t, IsWellFormedJoinCode("AB12CD"))
	assert.False(t, IsWellFormedJoinCode("ab12cd"))
	assert.False(t, IsWellFormedJoinCode("AB12C"))
	assert.False(t, IsWellFormedJoinCode("AB-2CD"))
	assert.Equal(t, "AB12CD", NormalizeJoinCode(" ab12cd "))
}
