package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, VerifyPassword("s3cret-password", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
}

func TestLongPasswordsAreNotTruncated(t *testing.T) {
	t.Parallel()

	// bcrypt silently ignores bytes past 72; these two differ only after
	// that boundary and must not collide.
	base := strings.Repeat("a", 72)
	hash, err := HashPassword(base + "x")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(base+"x", hash))
	assert.False(t, VerifyPassword(base+"y", hash))
}

func TestTokenIssueAndVerify(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenVerifyRejections(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("unit-test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := tm.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		t.Parallel()
		other := NewTokenManager("a-different-secret", time.Hour)
		token, err := other.Issue("alice")
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		expired := NewTokenManager("unit-test-secret", -time.Minute)
		token, err := expired.Issue("alice")
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
