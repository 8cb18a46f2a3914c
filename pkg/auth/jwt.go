// Package auth issues and verifies the bearer tokens handed out by POST /jwt.
//
// A token carries whatever claim set the caller signed in with (at minimum an
// email) plus iat/exp. There is no refresh token: clients sign in again once
// the token expires.
//
//	tokens := auth.NewTokenService(config.JWTSecret(), time.Hour)
//	tok, _ := tokens.Issue(map[string]any{"email": "a@b.co"})
//	claims, err := tokens.Verify(tok)
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any signature, algorithm, expiry
// or payload problem.
var ErrInvalidToken = errors.New("auth: invalid token")

// ErrMissingEmail is returned by Issue when the claim set has no email.
var ErrMissingEmail = errors.New("auth: claims must carry an email")

// Claims holds the decoded token payload.
type Claims struct {
	Email     string
	ExpiresAt time.Time
	// Fields is the full decoded payload, including iat and exp.
	Fields map[string]any
}

// TokenService signs and verifies HS256 tokens with a fixed lifetime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. ttl is the lifetime of every token.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of s that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs claims plus iat and exp. Caller-supplied iat/exp are replaced.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	now := s.now()
	payload := jwt.MapClaims{}
	for k, v := range claims {
		payload[k] = v
	}
	payload["iat"] = now.Unix()
	payload["exp"] = now.Add(s.ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string.
func (s *TokenService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, jwt.ErrTokenInvalidClaims)
	}

	email, _ := mc["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}

	claims := &Claims{Email: email, Fields: map[string]any(mc)}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
