package middleware

import (
	"classroom/backend/authz"
	"classroom/backend/session"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// RequireUser rejects unauthenticated requests. Failed checks answer with
// the login boundary only, never a partial render of protected content.
func RequireUser(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := sessions.Resolve(c)
		if !ok {
			return unauthorized(c)
		}
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// RequireAction resolves the session identity and consults the
// authorization gate for the given action.
func RequireAction(sessions *session.Manager, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := sessions.Resolve(c)
		if !ok {
			return unauthorized(c)
		}
		if !authz.Can(ident.Role, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

// Identity returns the authenticated identity stored by the middleware.
func Identity(c *fiber.Ctx) session.Identity {
	ident, _ := c.Locals(identityKey).(session.Identity)
	return ident
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":    "Unauthorized",
		"redirect": "/auth/login",
	})
}
