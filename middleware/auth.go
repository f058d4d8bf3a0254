package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Auth for downstream handlers.
const (
	LocalEmail   = "email"
	LocalIsAdmin = "isAdmin"
)

// Auth verifies the bearer token and stores the caller's identity in locals.
// Ownership checks downstream must use this identity, never a client-supplied
// email.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
		}
		email, _ := claims["email"].(string)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
		}
		isAdmin, _ := claims["isAdmin"].(bool)

		c.Locals(LocalEmail, email)
		c.Locals(LocalIsAdmin, isAdmin)
		return c.Next()
	}
}

// AdminOnly gates moderation and admin listing routes. It must run after Auth.
func AdminOnly(c *fiber.Ctx) error {
	if isAdmin, _ := c.Locals(LocalIsAdmin).(bool); !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access only"})
	}
	return c.Next()
}

// Email returns the authenticated caller's email from locals.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

// IsAdmin reports whether the authenticated caller carries the admin claim.
func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
	return isAdmin
}
