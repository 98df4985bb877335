package middleware

import (
	"github.com/gatherly/gatherly-backend/internal/authz"
	"github.com/gatherly/gatherly-backend/internal/dto"
	"github.com/gatherly/gatherly-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HostRequired gates a route on the caller being the host of the activity
// addressed by the :id path parameter. The id comes from the path, never the
// body, so a caller cannot assert authority over a different resource than
// the one being acted on.
func HostRequired(resolver *authz.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activityID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid activity id",
			})
		}

		if !resolver.IsHost(identity.Username(c), activityID) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Only the host may modify this activity",
			})
		}

		return c.Next()
	}
}
