package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docexchange/internal/errs"
)

// UserIDLocalKey stores the authenticated user's id in Fiber's context locals.
const UserIDLocalKey = "user_id"

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// Failures are passed to the app's error handler as errs.ErrUnauthenticated.
func Authenticate(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return errs.ErrUnauthenticated
		}
		id, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, errs.ErrUnauthenticated) {
				return err
			}
			return fmt.Errorf("authenticate: %w", err)
		}
		c.Locals(UserIDLocalKey, id)
		return c.Next()
	}
}

// UserID returns the id stored by Authenticate.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(UserIDLocalKey).(int64)
	return id, ok
}

func bearerToken(h string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
