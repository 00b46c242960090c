package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// JWTIssuer signs HS256 bearer tokens bound to a session.
type JWTIssuer struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTIssuer(secret string, tokenTTL time.Duration) *JWTIssuer {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), tokenTTL: tokenTTL}
}

func (i *JWTIssuer) Issue(sessionID string, identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sid":  sessionID,
		"sub":  identity.ID,
		"role": string(identity.Role),
		"exp":  time.Now().Add(i.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}
