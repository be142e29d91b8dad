package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs an HS256 token whose subject is userID and which
// expires validity after now.
func GenerateToken(userID string, secretKey []byte, now time.Time, validity time.Duration) (string, time.Time, error) {
	exp := now.Add(validity)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// GetUserIDFromToken verifies signature and expiry and returns the subject.
// Every failure matches common.ErrorUnauthorized and, more specifically,
// common.ErrTokenExpired or common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenExpired)
		}
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	return claims.Subject, nil
}

// TokenManager issues and verifies session tokens with a fixed secret and TTL.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = common.DefaultTokenValidity
	}
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(userID string) (string, time.Time, error) {
	return GenerateToken(userID, m.secret, m.now(), m.ttl)
}

func (m *TokenManager) Verify(token string) (string, error) {
	return GetUserIDFromToken(token, m.secret)
}
