// Package middleware provides HTTP middleware for authentication, logging,
// rate limiting, tracing and metrics.
package middleware

import (
	"context"
	"strings"

	"togather/internal/security"

	"github.com/gofiber/fiber/v2"
)

var tokens *security.TokenIssuer

// InitMiddleware sets the token issuer used by AuthRequired.
func InitMiddleware(issuer *security.TokenIssuer) {
	tokens = issuer
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's id in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "로그인이 필요합니다.")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return unauthorized(c, "잘못된 토큰 형식입니다.")
	}

	if tokens == nil {
		return unauthorized(c, "잘못된 토큰입니다.")
	}
	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return unauthorized(c, "잘못된 토큰입니다.")
	}

	c.Locals("userID", claims.UserID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))

	return c.Next()
}

// CurrentUserID returns the authenticated caller set by AuthRequired.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok
}
