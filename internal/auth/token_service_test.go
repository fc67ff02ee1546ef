package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)
	require.EqualError(t, err, "token: secret must be provided")
}

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewTokenService(TokenConfig{
		Secret: "super-secret",
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Issue(IssueInput{
		Subject:   "a@b.com",
		FirstName: "Jo",
		LastName:  "Do",
		Roles:     []string{"ADMIN", "STAFF"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := svc.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", decoded.Subject)
	require.Equal(t, DefaultIssuer, decoded.Issuer)
	require.Equal(t, "Jo", decoded.FirstName)
	require.Equal(t, "Do", decoded.LastName)
	require.Equal(t, []string{"ADMIN", "STAFF"}, decoded.Roles)
	require.True(t, decoded.IssuedAt.Equal(current))
	require.True(t, decoded.ExpiresAt.Equal(current.Add(time.Hour)))
}

func TestDecodeEmptyTextIsAnonymous(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "secret"})
	require.NoError(t, err)

	decoded, err := svc.Decode("")
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestDecodeRejectsWrongSignature(t *testing.T) {
	issuer, err := NewTokenService(TokenConfig{Secret: "issuer-secret"})
	require.NoError(t, err)

	token, err := issuer.Issue(IssueInput{Subject: "a@b.com"})
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{Secret: "other-secret"})
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestDecodeRejectsWrongIssuer(t *testing.T) {
	issuer, err := NewTokenService(TokenConfig{Secret: "secret", Issuer: "somebody-else"})
	require.NoError(t, err)

	token, err := issuer.Issue(IssueInput{Subject: "a@b.com"})
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	require.ErrorIs(t, err, ErrWrongIssuer)
}

func TestDecodeAcceptsExpiredToken(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewTokenService(TokenConfig{
		Secret: "secret",
		TTL:    time.Minute,
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Issue(IssueInput{Subject: "a@b.com"})
	require.NoError(t, err)

	// Move time well past expiry; decode still succeeds because the expiry
	// decision is owned by the Verifier.
	current = current.Add(24 * time.Hour)

	decoded, err := svc.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", decoded.Subject)
}

func TestDecodeRejectsMalformedText(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.Decode("not-a-token")
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenMalformed))
}
