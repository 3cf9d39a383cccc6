// Package auth verifies bearer tokens issued by the identity provider and
// turns them into the acting administrator of a request.
package auth

import (
	"errors"
	"time"

	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role values carried in the "role" claim
const (
	RoleAdmin        = "ADMIN"
	RoleCollaborator = "COLLABORATOR"
	RoleClient       = "CLIENT"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingSubject   = errors.New("missing subject in claims")
)

// Claims are the claims the back office reads from an access token.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// IsAdmin reports whether the token belongs to an administrator
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Actor returns the acting administrator described by the claims.
func (c *Claims) Actor() (finance.Actor, error) {
	id, err := c.UserID()
	if err != nil || id == uuid.Nil {
		return finance.Actor{}, ErrMissingSubject
	}
	return finance.Actor{ID: id, Name: c.Name}, nil
}

// Verifier validates HS256 tokens against a shared secret and, when
// configured, an expected issuer.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithTimeFunc overrides the clock used for exp/nbf checks.
func WithTimeFunc(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a verifier from JWT configuration
func NewVerifier(cfg config.JWTConfig, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses tokenString and returns its claims. The subject must be a
// UUID.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrInvalidClaims
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if _, err := claims.Actor(); err != nil {
		return nil, err
	}
	return claims, nil
}
