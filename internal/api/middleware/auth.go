package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyIdentity  = "identity"
	KeyRole      = "role"
	KeySessionID = "session_id"
)

// Auth validates the JWT, restores the session's persisted identity and
// injects it into the context. The persisted identity is trusted as stored.
func Auth(jwtSecret string, stores ports.IdentityStores) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, _ := claims["sid"].(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			identity, err := stores.ForSession(sid).Restore(c.Request().Context())
			if err != nil {
				if errors.Is(err, domain.ErrNotAuthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
				}
				return err
			}

			c.Set(KeyIdentity, identity)
			c.Set(KeyRole, string(identity.Role))
			c.Set(KeySessionID, sid)

			return next(c)
		}
	}
}
