package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenIsInvalid = errors.New("токен недействителен")
	ErrTokenIsExpired = errors.New("токен истёк")
)

const (
	tokenIssuer = "karigar-desk"
	tokenTTL    = 24 * time.Hour
)

// JWTService выпускает и проверяет токены операторов (HS256).
type JWTService struct {
	authSecretKey []byte
	ttl           time.Duration
	now           func() time.Time
}

func NewJWTService(authSecretKey string) *JWTService {
	return &JWTService{authSecretKey: []byte(authSecretKey), ttl: tokenTTL, now: time.Now}
}

// GenerateJWT выпускает токен на сутки.
func (j *JWTService) GenerateJWT(subject string) (string, error) {
	now := j.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	})

	signed, err := token.SignedString(j.authSecretKey)
	if err != nil {
		return "", fmt.Errorf("не удалось подписать токен: %w", err)
	}
	return signed, nil
}

// ValidateToken проверяет подпись, издателя и срок действия токена.
func (j *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.authSecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenIsExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenIsInvalid, err)
	}

	if !parsed.Valid {
		return nil, ErrTokenIsInvalid
	}
	return parsed, nil
}
