package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLedger_RecordAndBlacklist(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	require.NoError(t, r.RecordToken(ctx, "jti-1", "token-1", 10, expiresAt))

	blacklisted, err := r.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, r.BlacklistToken(ctx, "jti-1"))

	blacklisted, err = r.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestTokenLedger_BlacklistIsMonotonic(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.RecordToken(ctx, "jti-2", "token-2", 10, time.Now().Add(time.Hour)))
	require.NoError(t, r.BlacklistToken(ctx, "jti-2"))

	// Second revocation of the same jti is a client error, not a no-op.
	err := r.BlacklistToken(ctx, "jti-2")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	blacklisted, err := r.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestTokenLedger_BlacklistUnknownJTI(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	err := r.BlacklistToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenLedger_MatchToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.RecordToken(ctx, "jti-3", "token-3", 10, time.Now().Add(time.Hour)))

	row, err := r.MatchToken(ctx, "jti-3", 10)
	require.NoError(t, err)
	assert.Equal(t, uint(10), row.UserID)
	assert.Equal(t, "jti-3", row.JTI)

	// Wrong owner is indistinguishable from a missing row.
	_, err = r.MatchToken(ctx, "jti-3", 11)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, r.BlacklistToken(ctx, "jti-3"))
	_, err = r.MatchToken(ctx, "jti-3", 10)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
