package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/identity"
	"github.com/quizhub/quizhub/internal/pkg/token"
)

// AuthController serves basic (email + password) registration and
// login plus token refresh.
type AuthController struct {
	identity *identity.Service
	tokens   *token.Service
}

// NewAuthController creates a new auth controller instance
func NewAuthController(identitySvc *identity.Service, tokens *token.Service) *AuthController {
	return &AuthController{
		identity: identitySvc,
		tokens:   tokens,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=4,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// HandleRegister creates an account from basic credentials.
//
// POST /auth/basic/register
func (ctrl *AuthController) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tokenData, err := ctrl.identity.Register(req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(tokenData)
}

// HandleLogin authenticates basic credentials.
//
// POST /auth/basic/login
func (ctrl *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tokenData, err := ctrl.identity.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(tokenData)
}

// HandleRefresh exchanges a refresh token for a new session token pair.
//
// POST /auth/token/refresh
func (ctrl *AuthController) HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tokenData, err := ctrl.tokens.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidRefreshToken) {
			return httperr.InvalidRefreshToken
		}
		return err
	}

	return c.JSON(tokenData)
}
