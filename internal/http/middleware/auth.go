package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"homecare/internal/model"
	"homecare/internal/service"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "hc_session"

	userLocalKey    = "auth_user"
	sessionLocalKey = "auth_session"
)

// ErrAuthRequired is returned to the error handler when no valid session is presented.
var ErrAuthRequired = fiber.NewError(fiber.StatusUnauthorized, "authentication required")

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(SessionCookie)
}

// RequireAuth rejects requests without a live session. The user and session
// are stored in locals for CurrentUser and CurrentSession.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return authenticate(auth, true)
}

// OptionalAuth resolves the session when present and otherwise continues anonymously.
func OptionalAuth(auth service.AuthService) fiber.Handler {
	return authenticate(auth, false)
}

func authenticate(auth service.AuthService, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, sess, err := auth.Authenticate(c.UserContext(), TokenFromRequest(c))
		switch {
		case err == nil:
			c.Locals(userLocalKey, u)
			c.Locals(sessionLocalKey, sess)
		case errors.Is(err, service.ErrUnauthenticated):
			if required {
				return ErrAuthRequired
			}
		default:
			return err
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(userLocalKey).(*model.User)
	return u, ok && u != nil
}

// CurrentSession returns the authenticated session, if any.
func CurrentSession(c *fiber.Ctx) (*model.Session, bool) {
	s, ok := c.Locals(sessionLocalKey).(*model.Session)
	return s, ok && s != nil
}
