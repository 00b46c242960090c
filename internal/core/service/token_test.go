package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kostmate/booking-api/internal/core/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	signed, err := issuer.Issue("session-1", &domain.Identity{ID: "3", Role: domain.RolePartner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("parse: %v", err)
	}
	if claims["sid"] != "session-1" || claims["sub"] != "3" || claims["role"] != "partner" {
		t.Fatalf("unexpected claims: %v", claims)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("missing exp: %v", err)
	}
	if d := time.Until(exp.Time); d < 59*time.Minute || d > time.Hour+time.Minute {
		t.Fatalf("unexpected expiry in %v", d)
	}
}

func TestJWTIssuer_DefaultTTL(t *testing.T) {
	if issuer := NewJWTIssuer("secret", 0); issuer.tokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h default, got %v", issuer.tokenTTL)
	}
}
