// Package middleware holds the fiber middleware shared by all routes.
package middleware

import (
	"context"
	"strings"

	"review-backend/internal/apperr"
	"review-backend/internal/models"
	"review-backend/internal/policy"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const actorKey = "actor"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth resolves the request's actor. Requests without an Authorization
// header continue as anonymous; a header that does not carry a valid token
// is rejected with 401.
func Auth(auth Authenticator, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			c.Locals(actorKey, policy.Anonymous())
			return c.Next()
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return utils.HandleError(c, logger, apperr.Unauthorized("Authorization header must be 'Bearer <token>'"))
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return utils.HandleError(c, logger, err)
		}

		c.Locals(actorKey, user.Actor())
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Auth, or an anonymous actor.
func ActorFrom(c *fiber.Ctx) policy.Actor {
	if actor, ok := c.Locals(actorKey).(policy.Actor); ok {
		return actor
	}
	return policy.Anonymous()
}
