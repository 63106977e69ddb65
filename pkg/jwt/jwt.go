package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, malformed, and badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the authenticated identity carried by a token
type Claims struct {
	AccountID string
	Role      string
}

// TokenManager signs and validates the platform's bearer tokens
type TokenManager struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenManager creates a TokenManager. expiresIn is in seconds.
func NewTokenManager(secret string, expiresIn int) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Second,
	}
}

// Generate signs a token for an account
func (m *TokenManager) Generate(accountID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns its claims
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{AccountID: sub, Role: role}, nil
}
