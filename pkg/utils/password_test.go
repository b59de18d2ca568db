package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_roundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hashed, "$argon2id$"))
	assert.True(t, CheckPasswordHash("correct horse battery staple", hashed))
	assert.False(t, CheckPasswordHash("wrong password", hashed))
}

func TestHashPassword_saltedPerCall(t *testing.T) {
	first, err := HashPassword("1234")
	require.NoError(t, err)
	second, err := HashPassword("1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("1234", first))
	assert.True(t, CheckPasswordHash("1234", second))
}

func TestCheckPasswordHash_malformedEncodings(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$not-base64!$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
	}

	for _, encoded := range cases {
		assert.False(t, CheckPasswordHash("1234", encoded), "encoded: %q", encoded)
	}
}
