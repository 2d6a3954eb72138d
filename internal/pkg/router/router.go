package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/quizhub/quizhub/app/controllers"
	"github.com/quizhub/quizhub/internal/pkg/cache"
	"github.com/quizhub/quizhub/internal/pkg/captcha"
	"github.com/quizhub/quizhub/internal/pkg/constants"
)

// Services collects everything the routes need; built once in main.
type Services struct {
	Auth     *controllers.AuthController
	OpenID   *controllers.OpenIDController
	User     *controllers.UserController
	Quiz     *controllers.QuizController
	Resource *controllers.ResourceController

	// RequireAuth guards routes that need a valid bearer token.
	RequireAuth fiber.Handler
}

// InstallRouter registers all application routes on the Fiber app.
func InstallRouter(app *fiber.App, s *Services) {
	auth := app.Group(constants.AuthRoute, newRateLimiter())

	basic := auth.Group("/basic")
	basic.Post("/register", captcha.Protect(), s.Auth.HandleRegister)
	basic.Post("/login", captcha.Protect(), s.Auth.HandleLogin)

	oid := auth.Group("/oid")
	oid.Get("/providers", s.OpenID.HandleProviders)
	oid.Post("/authenticate", s.OpenID.HandleAuthenticate)
	oid.Post("/create", s.OpenID.HandleCreate)

	authToken := auth.Group("/token")
	authToken.Post("/refresh", s.Auth.HandleRefresh)

	user := app.Group(constants.UserRoute, s.RequireAuth)
	user.Get("/self", s.User.HandleSelf)

	quiz := app.Group(constants.QuizRoute, s.RequireAuth)
	quiz.Get("/", s.Quiz.HandleList)
	quiz.Post("/create", s.Quiz.HandleCreate)
	quiz.Get("/:id", s.Quiz.HandleGet)

	resource := app.Group(constants.ResourceRoute, s.RequireAuth)
	resource.Post("/create", s.Resource.HandleCreate)
	resource.Get("/:id", s.Resource.HandleGet)
}

// newRateLimiter builds the limiter for the auth surface. With a cache
// host configured the counters live in Redis so limits hold across
// instances; otherwise the in-memory default applies.
func newRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:     30,
		Storage: cache.Storage(),
	})
}
