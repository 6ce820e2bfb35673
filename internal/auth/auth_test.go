package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hashed)

	assert.True(t, CheckPassword(hashed, "password"))
	assert.False(t, CheckPassword(hashed, "Password"))
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	userID, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokensRejectsForeignSecret(t *testing.T) {
	token, err := NewTokens("other", time.Hour).Issue(42)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectsExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectsGarbage(t *testing.T) {
	_, err := NewTokens("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCSRF(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token := tokens.NewCSRFToken()

	assert.True(t, tokens.VerifyCSRF(token, token))
	assert.False(t, tokens.VerifyCSRF(token, ""))
	assert.False(t, tokens.VerifyCSRF("", ""))
	assert.False(t, tokens.VerifyCSRF(token, tokens.NewCSRFToken()))

	forged := "nonce.forged"
	assert.False(t, tokens.VerifyCSRF(forged, forged))
	assert.False(t, NewTokens("other", time.Hour).VerifyCSRF(token, token))
}
