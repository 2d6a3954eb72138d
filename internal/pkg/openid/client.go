package openid

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/quizhub/quizhub/internal/pkg/env"
)

// RedirectURLEnv is the redirect URL shared by every provider.
const RedirectURLEnv = "OPENID_REDIRECT_URL"

// Claims are the identity claims extracted from a provider ID token.
// Email is the only claim callers may rely on being present; the rest
// are best effort and provider dependent.
type Claims struct {
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	PreferredUsername string `json:"preferred_username"`
}

// Client is a discovered OpenID provider client. Implementations must
// be safe for concurrent use.
type Client interface {
	// AuthCodeURL builds the URL the frontend sends users to for login.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the raw ID token.
	Exchange(ctx context.Context, code string) (string, error)
	// Verify validates the raw ID token signature, issuer and audience
	// against the provider's published keys and extracts its claims.
	Verify(ctx context.Context, rawIDToken string) (*Claims, error)
}

type oidcClient struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// Discover resolves the provider's metadata and keys over the network
// and builds a client from its environment configuration. Missing env
// variables make that provider unavailable, not the whole service.
func Discover(ctx context.Context, provider Provider) (Client, error) {
	prefix := provider.EnvPrefix()

	issuer, ok := env.Require(prefix + "_ISSUER")
	if !ok {
		return nil, fmt.Errorf("missing %s_ISSUER for %s", prefix, provider)
	}
	clientID, ok := env.Require(prefix + "_CLIENT_ID")
	if !ok {
		return nil, fmt.Errorf("missing %s_CLIENT_ID for %s", prefix, provider)
	}
	clientSecret, ok := env.Require(prefix + "_CLIENT_SECRET")
	if !ok {
		return nil, fmt.Errorf("missing %s_CLIENT_SECRET for %s", prefix, provider)
	}
	redirectURL, ok := env.Require(RedirectURLEnv)
	if !ok {
		return nil, fmt.Errorf("missing %s for %s", RedirectURLEnv, provider)
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discovering %s: %w", provider, err)
	}

	return &oidcClient{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (c *oidcClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

func (c *oidcClient) Exchange(ctx context.Context, code string) (string, error) {
	oauthToken, err := c.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}
	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return "", errors.New("token response missing id_token")
	}
	return rawIDToken, nil
}

func (c *oidcClient) Verify(ctx context.Context, rawIDToken string) (*Claims, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("validating id_token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decoding id_token claims: %w", err)
	}
	return &claims, nil
}
