// Package auth provides session tokens, password hashing, the bearer-token
// middleware, and Google sign-in for the VoxDesk API.
//
// Sessions are stateless HS256 JWTs: a login mints a token carrying the
// user's id plus denormalized display fields, and every protected request
// re-verifies the signature and expiry. Nothing is stored server-side, so
// the only way a token dies is by expiring.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SmitChaudhari26/VoxDesk/internal/model"
)

const issuer = "voxdesk"

// DefaultTokenTTL is the session length used when no TTL is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given HMAC secret and
// token lifetime. Short secrets are rejected outright, since an HS256 key that
// can be brute-forced makes every session forgeable.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Claims is the session token payload. The user id travels in the standard
// "sub" claim; email, name and avatar are denormalized so the client can
// render the signed-in user without an extra round trip. The password hash
// never goes anywhere near a token.
type Claims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Generate mints a signed session token for the given user.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.generateWithDuration(user, s.ttl)
}

// GenerateWithDuration mints a token with a custom expiry. Used by tests to
// produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	return s.generateWithDuration(user, d)
}

func (s *TokenService) generateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
//
// The signing method is pinned to HS256, both in the key callback and via
// WithValidMethods, so a token claiming alg "none" or an RSA variant is
// rejected before the signature is even checked.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
