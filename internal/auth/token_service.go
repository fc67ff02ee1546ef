package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultIssuer is stamped into every issued token and checked on decode.
	DefaultIssuer = "auth0"

	// DefaultTokenTTL defines the fallback validity period for bearer tokens.
	DefaultTokenTTL = 3600000 * time.Millisecond
)

// ErrWrongIssuer indicates the token was signed for a different issuer.
var ErrWrongIssuer = errors.New("token: unexpected issuer")

// TokenConfig bundles the configuration required to build a TokenService.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// tokenClaims is the wire layout of issued tokens.
type tokenClaims struct {
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// IssueInput holds the parameters used when generating a new bearer token.
type IssueInput struct {
	Subject   string
	FirstName string
	LastName  string
	Roles     []string
}

// DecodedToken is a structurally valid, signature-checked bearer token.
// Expiry has NOT been evaluated; that decision belongs to the Verifier.
type DecodedToken struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	FirstName string
	LastName  string
	Roles     []string
}

// TokenService signs and decodes the HMAC-SHA256 bearer tokens used for
// request authentication.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService instance when provided with the
// required configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret must be provided")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue signs a bearer token carrying the subject and profile claims.
func (s *TokenService) Issue(input IssueInput) (string, error) {
	if input.Subject == "" {
		return "", errors.New("token: subject is required")
	}

	now := s.now()
	claims := &tokenClaims{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Roles:     append([]string(nil), input.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Decode verifies signature, structure, and issuer of a compact token.
// Empty input decodes to (nil, nil): a missing credential is anonymous,
// not an error. Expired tokens decode successfully; the Verifier owns the
// expiry decision so it stays testable in one place.
func (s *TokenService) Decode(tokenText string) (*DecodedToken, error) {
	if tokenText == "" {
		return nil, nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims tokenClaims
	if _, err := parser.ParseWithClaims(tokenText, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}

	if claims.Issuer != s.issuer {
		return nil, ErrWrongIssuer
	}

	decoded := &DecodedToken{
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     claims.Roles,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}
