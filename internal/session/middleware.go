package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type TokenValidator interface {
	ParseSession(token string) (Identity, error)
}

// Middleware resolves the bearer token into an Identity on the user context
// and in locals ("user_id", "session_id"). It never rejects a request.
func Middleware(tokens TokenValidator, store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return c.Next()
		}

		id, err := tokens.ParseSession(token)
		if err != nil {
			return c.Next()
		}

		live, err := store.Active(c.UserContext(), id.SessionID)
		if err != nil || !live {
			return c.Next()
		}

		c.Locals("user_id", id.UserID)
		c.Locals("session_id", id.SessionID)
		c.SetUserContext(WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

func BearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
