package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(accessTTL time.Duration) *TokenManager {
	return NewTokenManager("access-secret-access-secret-access", "refresh-secret-refresh-secret-refresh", accessTTL, time.Hour)
}

func TestGenerateAndParsePair(t *testing.T) {
	m := newTestManager(time.Minute)
	sid := NewSessionID()

	pair, err := m.GeneratePair(42, "a@example.com", sid)
	require.NoError(t, err)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, sid, claims.SessionID)
	assert.NotEmpty(t, claims.ID)

	refresh, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sid, refresh.SessionID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager(time.Minute)
	pair, err := m.GeneratePair(1, "a@example.com", NewSessionID())
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestExpiredAccess(t *testing.T) {
	m := newTestManager(-time.Minute)
	pair, err := m.GeneratePair(1, "a@example.com", NewSessionID())
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestForeignSecretRejected(t *testing.T) {
	other := NewTokenManager("another-access-secret-another-access", "another-refresh-secret-another-ref", time.Minute, time.Hour)
	pair, err := other.GeneratePair(1, "a@example.com", NewSessionID())
	require.NoError(t, err)

	_, err = newTestManager(time.Minute).ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
