package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/firewatch-geo/firewatch-services/internal/appconfig"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpiredToken is returned when the current time is at or past the
	// embedded expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrMalformedToken is returned when the signature check fails or a
	// required field is absent.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnknownAlgorithm is returned when the token declares an algorithm
	// other than the configured one. Guards against signature stripping.
	ErrUnknownAlgorithm = errors.New("unknown signing algorithm")
)

// Claims carries the session token payload: subject user id, role, expiry.
type Claims struct {
	UserID int64       `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed session tokens. The signing key and
// algorithm are process-wide configuration, loaded once at startup.
type TokenCodec struct {
	secret    []byte
	algorithm string
	ttl       time.Duration
}

func NewTokenCodec(cfg appconfig.JWTConfig) (*TokenCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if jwt.GetSigningMethod(cfg.Algorithm) == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.Algorithm)
	}
	return &TokenCodec{
		secret:    []byte(cfg.Secret),
		algorithm: cfg.Algorithm,
		ttl:       time.Duration(cfg.AccessTTLMinutes) * time.Minute,
	}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the user. Tokens are not refreshable; a
// client re-authenticates when its token expires.
func (c *TokenCodec) Issue(user models.User, issuedAt time.Time) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.GetSigningMethod(c.algorithm), claims)
	return tok.SignedString(c.secret)
}

// Verify parses and validates a token, returning its claims.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.algorithm {
			return nil, fmt.Errorf("%w: got %q, want %q", ErrUnknownAlgorithm, t.Method.Alg(), c.algorithm)
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownAlgorithm):
			return nil, ErrUnknownAlgorithm
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrMalformedToken
		}
	}
	if !parsed.Valid || claims.UserID == 0 || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
