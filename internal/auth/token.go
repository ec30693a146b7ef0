package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/piadas/piadas/internal/model"
)

// DefaultTokenTTL is the lifetime used when no explicit TTL is given.
const DefaultTokenTTL = 30 * time.Minute

// Token verification errors.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by issued tokens.
// Subject is a pointer so an empty email still counts as present.
type Claims struct {
	Subject   *string          `json:"sub,omitempty"`
	Name      string           `json:"nome,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ID        string           `json:"jti,omitempty"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func (c Claims) GetSubject() (string, error) {
	if c.Subject == nil {
		return "", nil
	}
	return *c.Subject, nil
}

// TokenService issues and verifies HS256-signed bearer tokens.
// It holds no per-token state; the secret is read-only after construction.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
// A non-positive defaultTTL falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenService{
		secret:     secret,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for issuance and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// DefaultTTL returns the configured token lifetime.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a token for subject. The name claim is only set when name
// is non-empty. A non-positive ttl uses the service default.
func (s *TokenService) Issue(subject, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	sub := subject
	claims := Claims{
		Subject:   &sub,
		Name:      name,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        ulid.Make().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token and returns its subject email.
func (s *TokenService) Verify(tokenString string) (string, error) {
	authCtx, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return authCtx.Subject, nil
}

// Parse validates signature, algorithm and expiry and returns the identity
// carried by the token. Expired tokens yield ErrTokenExpired; every other
// failure yields ErrTokenInvalid.
func (s *TokenService) Parse(tokenString string) (*model.AuthContext, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == nil {
		return nil, fmt.Errorf("%w: missing sub claim", ErrTokenInvalid)
	}

	return &model.AuthContext{
		Subject:   *claims.Subject,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
