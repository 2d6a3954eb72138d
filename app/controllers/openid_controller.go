package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/identity"
	"github.com/quizhub/quizhub/internal/pkg/openid"
)

// OpenIDController serves the OpenID login surface: provider listing,
// code authentication and account creation.
type OpenIDController struct {
	identity *identity.Service
}

// NewOpenIDController creates a new OpenID controller instance
func NewOpenIDController(identitySvc *identity.Service) *OpenIDController {
	return &OpenIDController{identity: identitySvc}
}

type openIDAuthenticateRequest struct {
	Provider string `json:"provider" validate:"required"`
	// Either a fresh authorization code or an identity token from an
	// earlier authenticate call.
	Code  string `json:"code" validate:"required_without=Token"`
	Token string `json:"token" validate:"required_without=Code"`
}

type openIDCreateRequest struct {
	Provider string `json:"provider" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Username string `json:"username" validate:"required,alphanum,min=4,max=100"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

// HandleProviders lists the providers currently available for login,
// each with the URL the frontend should send the user to. Providers
// without a working client are left out.
//
// GET /auth/oid/providers
func (ctrl *OpenIDController) HandleProviders(c *fiber.Ctx) error {
	providers := fiber.Map{}
	for _, entry := range ctrl.identity.Providers(c.Context()) {
		if entry.Client == nil {
			continue
		}
		providers[entry.Provider.String()] = fiber.Map{
			"auth_url": entry.Client.AuthCodeURL(entry.Provider.String()),
		}
	}

	return c.JSON(fiber.Map{"providers": providers})
}

// HandleAuthenticate logs the user in or tells the client to collect
// registration details. The client sends either an authorization code
// to exchange, or an identity token it already holds from a previous
// authenticate call.
//
// POST /auth/oid/authenticate
func (ctrl *OpenIDController) HandleAuthenticate(c *fiber.Ctx) error {
	var req openIDAuthenticateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	provider, ok := openid.ParseProvider(req.Provider)
	if !ok {
		return httperr.UnknownProvider
	}

	var outcome *identity.Outcome
	var err error
	if req.Token != "" {
		outcome, err = ctrl.identity.AuthenticateToken(c.Context(), provider, req.Token)
	} else {
		outcome, err = ctrl.identity.Authenticate(c.Context(), provider, req.Code)
	}
	if err != nil {
		return err
	}

	if outcome.Status == identity.StatusLinked {
		return c.JSON(fiber.Map{
			"status":        identity.StatusLinked,
			"token":         outcome.TokenData.Token,
			"refresh_token": outcome.TokenData.RefreshToken,
			"expiry":        outcome.TokenData.Expiry,
		})
	}

	return c.JSON(fiber.Map{
		"status":           identity.StatusNew,
		"token":            outcome.IDToken,
		"default_username": outcome.DefaultUsername,
	})
}

// HandleCreate finishes an OpenID registration with the user's chosen
// username and password.
//
// POST /auth/oid/create
func (ctrl *OpenIDController) HandleCreate(c *fiber.Ctx) error {
	var req openIDCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	provider, ok := openid.ParseProvider(req.Provider)
	if !ok {
		return httperr.UnknownProvider
	}

	tokenData, err := ctrl.identity.CreateAccount(c.Context(), provider, req.Token, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(tokenData)
}
