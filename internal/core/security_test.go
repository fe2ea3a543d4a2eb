// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(HasherConfig{})

	hash, err := hasher.Hash("a long password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	valid, err := hasher.Verify("a long password", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = hasher.Verify("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher(HasherConfig{})

	first, err := hasher.Hash("a long password")
	require.NoError(t, err)
	second, err := hasher.Hash("a long password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(HasherConfig{})

	_, err := hasher.Verify("password", "not-a-hash")
	assert.Error(t, err)
}

func TestVerifyWithRehashUpgradesStaleParameters(t *testing.T) {
	weak := NewPasswordHasher(HasherConfig{Memory: 16 * 1024})
	staleHash, err := weak.Hash("a long password")
	require.NoError(t, err)

	current := NewPasswordHasher(HasherConfig{})

	valid, newHash, err := current.VerifyWithRehash("a long password", staleHash)
	require.NoError(t, err)
	assert.True(t, valid)
	require.NotEmpty(t, newHash)

	valid, err = current.Verify("a long password", newHash)
	require.NoError(t, err)
	assert.True(t, valid)

	// an up-to-date hash does not trigger an upgrade
	valid, newHash, err = current.VerifyWithRehash("a long password", newHash)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, newHash)
}

func TestVerifyTimingSafeWithoutStoredHash(t *testing.T) {
	hasher := NewPasswordHasher(HasherConfig{})

	valid, newHash, err := hasher.VerifyTimingSafe("password", nil)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, newHash)

	empty := ""
	valid, _, err = hasher.VerifyTimingSafe("password", &empty)
	require.NoError(t, err)
	assert.False(t, valid)
}
