package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// localsUserID is the fiber locals key the middleware stores the
// authenticated user id under.
const localsUserID = "auth_user_id"

// Middleware returns a fiber handler that requires a valid bearer token and
// stores the user id for downstream handlers.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := svc.ParseToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(localsUserID, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by Middleware, or false when
// the request was not authenticated.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(localsUserID).(uint)
	return id, ok
}

func extractBearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
