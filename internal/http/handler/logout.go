package handler

import (
	"time"

	"backend-sevapali/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Logout denylists the session's jti in Redis for the remaining token
// lifetime, so the JWT stops working before it expires.
func Logout(c *fiber.Ctx) error {
	jwtID, _ := c.Locals("jwt_id").(string)
	if jwtID != "" {
		_ = config.Redis.Set(c.Context(), "revoked_jwt:"+jwtID, "1", 24*time.Hour).Err()
	}

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
