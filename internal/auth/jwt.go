package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the audience every access token is issued for.
const Audience = "users:auth"

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenStrategy issues and validates HS256 access tokens carrying the user id as subject.
type TokenStrategy struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenStrategy(secret string, lifetime time.Duration) *TokenStrategy {
	return &TokenStrategy{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (s *TokenStrategy) Lifetime() time.Duration {
	return s.lifetime
}

func (s *TokenStrategy) Issue(userID int) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Validate checks signature, audience and expiry, and returns the user id.
func (s *TokenStrategy) Validate(tokenString string) (int, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}
