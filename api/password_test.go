package api_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wecarehhcs/homecare-api/api"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := api.HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "pbkdf2_sha256$"))

	assert.True(t, api.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, api.CheckPassword(hash, "wrong-pass"))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := api.HashPassword("same-password")
	assert.NoError(t, err)
	second, err := api.HashPassword("same-password")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, api.CheckPassword(first, "same-password"))
	assert.True(t, api.CheckPassword(second, "same-password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, api.CheckPassword("", "anything"))
	assert.False(t, api.CheckPassword("plaintext", "anything"))
	assert.False(t, api.CheckPassword("pbkdf2_sha256$abc$salt$hash", "anything"))
	assert.False(t, api.CheckPassword("sha1$1000$salt$hash", "anything"))
}
