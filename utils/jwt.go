package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of an API access token.
type TokenClaims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token for userID that expires after ttl.
func GenerateToken(secretKey string, userID uint, ttl time.Duration) (string, time.Time, error) {
	if secretKey == "" {
		return "", time.Time{}, errors.New("empty signing key")
	}
	now := time.Now()
	expires := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func ValidateToken(secretKey, tokenString string) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

// ExtractIDFromToken validates a "Bearer <token>" header value and returns
// the user id it was issued for.
func ExtractIDFromToken(secretKey, authHeader string) (uint, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, errors.New("invalid token format")
	}

	claims, err := ValidateToken(secretKey, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return 0, err
	}
	if claims.UserID == 0 {
		return 0, errors.New("id not found in token")
	}
	return claims.UserID, nil
}
