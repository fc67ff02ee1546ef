package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupportedCredential is returned when the Verifier receives a
	// credential variant it does not recognise.
	ErrUnsupportedCredential = errors.New("auth: cannot authenticate credential type")

	// ErrTokenExpired is returned when a bearer token's expiry has passed.
	ErrTokenExpired = errors.New("auth: token has expired")
)

// Credential is the closed set of per-request credential variants. Bearer
// tokens are the only variant currently issued; verification pattern-matches
// on the concrete type rather than dispatching through an open hierarchy.
type Credential interface {
	isCredential()
}

// BearerCredential wraps a decoded bearer token.
type BearerCredential struct {
	Token *DecodedToken
}

func (BearerCredential) isCredential() {}

// Identity is the verified, request-scoped representation of the caller.
// It lives in the request context and is discarded when the request ends.
type Identity struct {
	Subject   string
	ExpiresAt time.Time

	roles         []string
	authenticated bool
}

// Roles returns the granted roles exactly as carried by the token,
// order preserved, one grant per entry.
func (i *Identity) Roles() []string {
	return append([]string(nil), i.roles...)
}

// IsAuthenticated reports whether the identity may be used for an
// authorization decision at the given instant. The flag is necessary but
// not sufficient: the token expiry is re-checked at second resolution.
func (i *Identity) IsAuthenticated(now time.Time) bool {
	return i.authenticated && now.UTC().Unix() < i.ExpiresAt.UTC().Unix()
}

// Invalidate flips the authenticated flag off. The transition is monotonic;
// there is no way to turn an invalidated identity back on.
func (i *Identity) Invalidate() {
	i.authenticated = false
}

// Verifier turns decoded credentials into authenticated identities. It is a
// pure function of its input and the injected clock.
type Verifier struct {
	now func() time.Time
}

// NewVerifier constructs a Verifier with an optional clock override.
func NewVerifier(clock func() time.Time) *Verifier {
	if clock == nil {
		clock = time.Now
	}
	return &Verifier{now: clock}
}

// Verify validates the credential and produces the request identity.
// Unknown credential variants fail fast; bearer tokens are rejected when
// their expiry timestamp is at or before the current time, compared at
// second resolution in UTC.
func (v *Verifier) Verify(cred Credential) (*Identity, error) {
	switch c := cred.(type) {
	case BearerCredential:
		if c.Token == nil {
			return nil, fmt.Errorf("%w: empty bearer credential", ErrUnsupportedCredential)
		}
		if c.Token.ExpiresAt.UTC().Unix() <= v.now().UTC().Unix() {
			return nil, ErrTokenExpired
		}
		return &Identity{
			Subject:       c.Token.Subject,
			ExpiresAt:     c.Token.ExpiresAt,
			roles:         append([]string(nil), c.Token.Roles...),
			authenticated: true,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCredential, cred)
	}
}
