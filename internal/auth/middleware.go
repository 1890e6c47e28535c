package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"profitpulse-backend/internal/config"
	"profitpulse-backend/internal/models"
)

const (
	CtxAdminIDKey = "admin_id"
	CtxRoleKey    = "admin_role"
)

// JWTMiddleware authenticates the bearer token. A missing token and an
// expired token answer 401, a token that fails verification answers
// 403; the messages stay generic.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token expired")
			}
			return fiber.NewError(fiber.StatusForbidden, "Not authorized, token failed")
		}
		if !token.Valid {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized, token failed")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized, token failed")
		}

		c.Locals(CtxAdminIDKey, claims.AdminID)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.AdminRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxRoleKey).(models.AdminRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information unavailable")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not authorized for this action")
	}
}

// AdminID returns the authenticated admin's id from request locals.
func AdminID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxAdminIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Admin information unavailable")
	}
	return id, nil
}
