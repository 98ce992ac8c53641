package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func newTestProvider(t *testing.T) *Provider {
	p, err := NewProvider(testSecret)
	require.NoError(t, err)
	return p
}

func TestNewProvider_EmptySecret(t *testing.T) {
	p, err := NewProvider("")
	assert.Nil(t, p)
	assert.Equal(t, ErrEmptyJWTSecret, err)
}

func TestHashPassword(t *testing.T) {
	t.Run("Hash differs from password", func(t *testing.T) {
		hashed, err := HashPassword("mySecurePassword123")

		assert.NoError(t, err)
		assert.NotEqual(t, "mySecurePassword123", hashed)
	})

	t.Run("Salted hashes differ", func(t *testing.T) {
		hash1, _ := HashPassword("samePassword")
		hash2, _ := HashPassword("samePassword")

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, _ := HashPassword("correctPassword")

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestIssueAndVerify(t *testing.T) {
	p := newTestProvider(t)
	principal := Principal{UserID: 42, Email: "owner@example.com", Role: RoleAdmin}

	pair, err := p.IssueTokens(principal)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	got, err := p.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
	assert.True(t, got.IsOwner())
	assert.False(t, got.IsStaff())
}

func TestVerifyAccess_RejectsRefreshToken(t *testing.T) {
	p := newTestProvider(t)

	pair, err := p.IssueTokens(Principal{UserID: 1, Role: RoleCashier})
	require.NoError(t, err)

	_, err = p.VerifyAccess(pair.RefreshToken)
	assert.Equal(t, ErrInvalidTokenType, err)
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	p := newTestProvider(t)
	other, _ := NewProvider("another-secret")

	pair, err := other.IssueTokens(Principal{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	_, err = p.VerifyAccess(pair.AccessToken)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyAccess_Malformed(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.VerifyAccess("invalid.token.format")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyAccess_Expired(t *testing.T) {
	p := newTestProvider(t)
	past := time.Now().Add(-time.Hour)

	claims := &Claims{
		Principal: Principal{UserID: 1, Role: RoleAdmin},
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-AccessTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = p.VerifyAccess(token)
	assert.Equal(t, ErrTokenExpired, err)
}

func TestRefresh(t *testing.T) {
	p := newTestProvider(t)
	principal := Principal{UserID: 7, Email: "staff@example.com", Role: RoleCashier}

	pair, err := p.IssueTokens(principal)
	require.NoError(t, err)

	t.Run("Refresh token yields new pair", func(t *testing.T) {
		next, got, err := p.Refresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, principal, got)

		verified, err := p.VerifyAccess(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, principal, verified)
	})

	t.Run("Access token is refused", func(t *testing.T) {
		_, _, err := p.Refresh(pair.AccessToken)
		assert.Equal(t, ErrInvalidTokenType, err)
	})
}

func TestTokenExpiration(t *testing.T) {
	p := newTestProvider(t)

	pair, err := p.IssueTokens(Principal{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	access, err := p.parse(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := p.parse(pair.RefreshToken)
	require.NoError(t, err)

	assert.Less(t, access.ExpiresAt.Time.Sub(time.Now().Add(AccessTokenTTL)).Abs(), 2*time.Second)
	assert.Less(t, refresh.ExpiresAt.Time.Sub(time.Now().Add(RefreshTokenTTL)).Abs(), 2*time.Second)
	assert.Equal(t, jwtIssuer, access.Issuer)
	assert.Contains(t, access.Audience, jwtAudience)
}
