// Package auth issues and verifies the service tokens that collaborator
// processes (content generation, platform posting, metrics polling) present
// when calling mutating API routes.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and verifies HS256 service tokens
type TokenService struct {
	secret []byte
}

// NewTokenService creates a new token service from a shared secret
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a token identifying a collaborator service
func (ts *TokenService) Issue(service string, ttl time.Duration) (string, error) {
	if service == "" {
		return "", fmt.Errorf("service name required")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   service,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(ts.secret)
}

// Verify checks a token and returns the collaborator service name.
// A "Bearer " prefix is tolerated so Authorization headers can be passed
// through unmodified.
func (ts *TokenService) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return ts.secret, nil
		})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("no subject in token")
	}
	return claims.Subject, nil
}
