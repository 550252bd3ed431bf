package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"govdocs/internal/model"
)

// ActorLocalKey stores the authenticated model.Actor in Fiber's context locals.
const ActorLocalKey = "actor"

// Authenticator resolves a bearer token to the calling actor.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (model.Actor, error)
}

// RequireSession rejects requests without a valid bearer token. Failures are passed to onError so
// the caller controls the response envelope.
func RequireSession(authn Authenticator, onError func(c *fiber.Ctx, err error) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := authn.Authenticate(c.UserContext(), BearerToken(c))
		if err != nil {
			return onError(c, err)
		}
		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// ActorFrom returns the actor stored by RequireSession.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	a, ok := c.Locals(ActorLocalKey).(model.Actor)
	return a, ok
}
