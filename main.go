package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/quizhub/quizhub/app/controllers"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/database"
	"github.com/quizhub/quizhub/internal/pkg/env"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/identity"
	"github.com/quizhub/quizhub/internal/pkg/middleware"
	"github.com/quizhub/quizhub/internal/pkg/openid"
	"github.com/quizhub/quizhub/internal/pkg/router"
	"github.com/quizhub/quizhub/internal/pkg/token"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "0.0.0.0"), env.GetEnv("APP_PORT", "3000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	db := database.SetupDatabase()

	factory := repository.NewFactory(db)
	repos := factory.GetRepositories()

	tokenService, err := token.NewService(repos.User, repos.RefreshToken)
	if err != nil {
		log.Fatal(err)
	}

	registry := openid.NewRegistry()
	registry.WarmUp()

	identityService := identity.NewService(registry, repos.User, repos.UserLink, tokenService)

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.ErrorHandler,
	})
	app.Use(recover.New(), logger.New(), cors.New())

	router.InstallRouter(app, &router.Services{
		Auth:        controllers.NewAuthController(identityService, tokenService),
		OpenID:      controllers.NewOpenIDController(identityService),
		User:        controllers.NewUserController(),
		Quiz:        controllers.NewQuizController(repos.Quiz),
		Resource:    controllers.NewResourceController(repos.Resource),
		RequireAuth: middleware.RequireAuth(tokenService, repos.User),
	})

	return app
}
