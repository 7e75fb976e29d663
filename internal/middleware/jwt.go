package middleware

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/httpx"
)

// Context keys populated by Authenticate for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// Authenticate verifies the Bearer token and puts the caller's identity
// into the echo context.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return httpx.Fail(c, 401, "No token provided")
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			if tokenStr == header {
				return httpx.Fail(c, 401, "No token provided")
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return httpx.Fail(c, 401, "Invalid token")
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				return httpx.Fail(c, 401, "Invalid token")
			}
			c.Set(CtxUserID, userID)
			if email, ok := claims["email"].(string); ok {
				c.Set(CtxEmail, email)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(CtxRole, role)
			}
			return next(c)
		}
	}
}

// RequireRoles ensures the requester's role is one of the allowed roles.
// Usage: route(..., RequireRoles("CLIENT"))
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return httpx.Fail(c, 401, "Not authenticated")
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return httpx.Fail(c, 403, "Not authorized")
		}
	}
}

// UserID returns the authenticated caller's id, or "" when absent.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}
