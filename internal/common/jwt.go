package common

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidtube/internal/config"
)

// Claims represents the data stored in a JWT token.
type Claims struct {
	UserID uint64 `json:"user_id"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. The secret comes from
// config so tests can construct managers with their own keys.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cnf *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cnf.Auth.JWTSecret),
		ttl:    time.Duration(cnf.Auth.TokenTTL) * time.Hour,
	}
}

func (m *TokenManager) Generate(userID uint64, handle string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vidtube",
			Subject:   "user-auth",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

func (m *TokenManager) Verify(tokenstring string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenstring, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
