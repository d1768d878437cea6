package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager проверяет access-токены, выпущенные сервисом авторизации.
// Секрет общий, поэтому здесь же можно выпустить токен (нужно тестам и локальной отладке).
type TokenManager struct {
	accessSecret []byte
	accessTTL    time.Duration
}

func NewTokenManager(accessSecret string, accessTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenManager{
		accessSecret: []byte(accessSecret),
		accessTTL:    accessTTL,
	}
}

func (m *TokenManager) GenerateAccess(userID string) (string, error) {
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"exp":  time.Now().Add(m.accessTTL).Unix(),
		"type": "access",
	})
	return at.SignedString(m.accessSecret)
}

// ValidateAccessToken возвращает sub токена.
func (m *TokenManager) ValidateAccessToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	// refresh-токеном в API ходить нельзя
	if typ, _ := claims["type"].(string); typ != "" && typ != "access" {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
