package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-jwt-secret"), 30*time.Minute, 7*24*time.Hour)
}

func TestCodec_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	token, issued, err := c.NewAccessToken(42, "5551234567")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.ID)

	claims, err := c.ParseAccess(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "5551234567", claims.Phone)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.Equal(t, issued.ID, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestCodec_RefreshCarriesFreshJTI(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	_, first, err := c.NewRefreshToken(7, "5551234567")
	require.NoError(t, err)
	_, second, err := c.NewRefreshToken(7, "5551234567")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCodec_ExpiredToken(t *testing.T) {
	t.Parallel()

	c := &Codec{Secret: []byte("test-jwt-secret"), AccessTTL: -time.Minute, RefreshTTL: -time.Minute}

	token, _, err := c.NewAccessToken(1, "")
	require.NoError(t, err)

	_, err = c.ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_TypeMismatchIsInvalid(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	access, _, err := c.NewAccessToken(1, "")
	require.NoError(t, err)
	refresh, _, err := c.NewRefreshToken(1, "")
	require.NoError(t, err)

	_, err = c.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = c.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_TamperedTokenIsInvalid(t *testing.T) {
	t.Parallel()

	c := newTestCodec()

	token, _, err := c.NewAccessToken(1, "")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = c.ParseAccess(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = c.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_WrongSecretIsInvalid(t *testing.T) {
	t.Parallel()

	token, _, err := newTestCodec().NewAccessToken(1, "")
	require.NoError(t, err)

	other := NewCodec([]byte("another-secret"), time.Minute, time.Minute)
	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_TokenHasThreeSegments(t *testing.T) {
	t.Parallel()

	token, _, err := newTestCodec().NewRefreshToken(1, "")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}
