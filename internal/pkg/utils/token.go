package utils

import (
	"fmt"
	"time"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/golang-jwt/jwt"
)

// AuthTokenWrapper это содержимое токена доступа.
type AuthTokenWrapper struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func GenerateAuthToken(token *AuthTokenWrapper, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token.IssuedAt = now.Unix()
	if ttl > 0 {
		token.ExpiresAt = now.Add(ttl).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAuthToken проверяет подпись HS256 и срок действия.
func ParseAuthToken(tokenString, secret string) (*AuthTokenWrapper, error) {
	claims := &AuthTokenWrapper{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, constants.ErrInvalidToken
	}

	return claims, nil
}
