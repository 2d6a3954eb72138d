package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/token"
)

// userKey is the Locals key the authenticated user is stored under.
const userKey = "AUTH_USER"

// TokenVerifier verifies access tokens. Satisfied by *token.Service.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// RequireAuth authenticates requests carrying a bearer access token and
// loads the owning user into request locals.
func RequireAuth(tokens TokenVerifier, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := extractBearerToken(c)
		if bearer == "" {
			return httperr.MissingToken
		}

		claims, err := tokens.Verify(bearer)
		if err != nil {
			return httperr.InvalidToken
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			// Token outlived its account; same response as a bad token.
			return httperr.InvalidToken
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// UserFromContext returns the user set by RequireAuth, nil outside
// protected routes.
func UserFromContext(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
