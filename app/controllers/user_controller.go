package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/internal/pkg/middleware"
)

// UserController serves the authenticated user's own account data.
type UserController struct{}

// NewUserController creates a new user controller instance
func NewUserController() *UserController {
	return &UserController{}
}

// HandleSelf returns the current authenticated user.
//
// GET /user/self
func (ctrl *UserController) HandleSelf(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	return c.JSON(user)
}
