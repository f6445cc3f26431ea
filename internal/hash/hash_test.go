package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", h)
	assert.True(t, CheckPassword(h, "admin123"))
	assert.False(t, CheckPassword(h, "admin124"))

	other, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, h, other, "each hash gets its own salt")
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "admin123"))
	assert.False(t, CheckPassword("", ""))
}

func TestHashPassword_LongSecret(t *testing.T) {
	long := make([]byte, 255)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}
	h, err := HashPassword(string(long))
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, string(long)))
	assert.False(t, CheckPassword(h, string(long[:254])))
	assert.False(t, CheckPassword(h, string(long[:MaxPasswordBytes])))
}
