package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionValidator checks HS256 session tokens issued by the sign-in service.
type sessionValidator struct {
	secret []byte
}

func NewSessionValidator(secret string) SessionValidator {
	return &sessionValidator{secret: []byte(secret)}
}

func (s *sessionValidator) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid token claims")
	}
	return userID, nil
}

// IssueToken signs a session token for userID. The sign-in service owns
// issuance in production; this is used by tooling and tests.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
