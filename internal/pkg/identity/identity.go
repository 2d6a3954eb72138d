// Package identity reconciles inbound credentials — password pairs or
// OpenID identity tokens — with local accounts, deciding between login,
// account creation and conflict.
package identity

import (
	"context"
	"log"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/openid"
	"github.com/quizhub/quizhub/internal/pkg/token"
)

// ProviderSource yields OpenID clients. Satisfied by *openid.Registry.
type ProviderSource interface {
	Get(ctx context.Context, provider openid.Provider) (openid.Client, bool)
	All(ctx context.Context) []openid.ProviderClient
}

// TokenIssuer issues session token pairs. Satisfied by *token.Service.
type TokenIssuer interface {
	Issue(user *models.User) (*token.Data, error)
}

// Status tells the caller how an OpenID authentication resolved.
type Status string

const (
	// StatusLinked means the account exists, is linked to the provider,
	// and a session token pair was issued.
	StatusLinked Status = "linked"
	// StatusNew means no account exists for the claimed email; the
	// caller should collect registration details and call CreateAccount.
	StatusNew Status = "new"
)

// Outcome is the result of an OpenID authentication attempt.
type Outcome struct {
	Status Status
	// TokenData is set when Status is StatusLinked.
	TokenData *token.Data
	// IDToken is the raw identity token, echoed back when Status is
	// StatusNew so the client can present it again to CreateAccount.
	IDToken string
	// DefaultUsername is a suggested username from the provider claims,
	// empty when the provider offered none. Set when Status is StatusNew.
	DefaultUsername string
	// EmailVerified reports whether the provider vouched for the email.
	EmailVerified bool
}

// Service orchestrates the reconciliation flows.
type Service struct {
	providers ProviderSource
	users     repository.UserRepository
	links     repository.UserLinkRepository
	tokens    TokenIssuer
}

// NewService wires the reconciliation service.
func NewService(providers ProviderSource, users repository.UserRepository, links repository.UserLinkRepository, tokens TokenIssuer) *Service {
	return &Service{
		providers: providers,
		users:     users,
		links:     links,
		tokens:    tokens,
	}
}

// Providers lists every provider with an available client.
func (s *Service) Providers(ctx context.Context) []openid.ProviderClient {
	return s.providers.All(ctx)
}

// Authenticate exchanges the authorization code with the provider,
// validates the identity token and reconciles its email claim with
// local accounts.
func (s *Service) Authenticate(ctx context.Context, provider openid.Provider, code string) (*Outcome, error) {
	client, ok := s.providers.Get(ctx, provider)
	if !ok {
		return nil, httperr.ProviderUnavailable
	}

	rawIDToken, err := client.Exchange(ctx, code)
	if err != nil {
		log.Printf("openid code exchange with %s failed: %v", provider, err)
		return nil, httperr.AuthenticationFailed
	}

	return s.reconcile(ctx, client, provider, rawIDToken)
}

// AuthenticateToken reconciles an already-issued identity token, used
// when the client holds a token from a previous Authenticate call.
func (s *Service) AuthenticateToken(ctx context.Context, provider openid.Provider, rawIDToken string) (*Outcome, error) {
	client, ok := s.providers.Get(ctx, provider)
	if !ok {
		return nil, httperr.ProviderUnavailable
	}
	return s.reconcile(ctx, client, provider, rawIDToken)
}

func (s *Service) reconcile(ctx context.Context, client openid.Client, provider openid.Provider, rawIDToken string) (*Outcome, error) {
	claims, err := s.verifyClaims(ctx, client, provider, rawIDToken)
	if err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(claims.Email)
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return &Outcome{
			Status:          StatusNew,
			IDToken:         rawIDToken,
			DefaultUsername: models.NormalizeUsername(claims.PreferredUsername),
			EmailVerified:   claims.EmailVerified,
		}, nil
	}

	link, err := s.links.Find(existing.ID, string(provider))
	if err != nil {
		return nil, err
	}
	if link == nil {
		// Refusing to attach an unverified OpenID identity to an
		// existing password account closes the account-takeover hole.
		return nil, httperr.NotLinked
	}

	tokenData, err := s.tokens.Issue(existing)
	if err != nil {
		log.Printf("failed to issue user token: %v", err)
		return nil, httperr.TokenCreateFailed
	}

	return &Outcome{Status: StatusLinked, TokenData: tokenData}, nil
}

// CreateAccount finishes an OpenID registration: it re-validates the
// identity token, re-checks uniqueness, and creates the user, optional
// email verification and provider link in one transaction before
// issuing a session token pair.
func (s *Service) CreateAccount(ctx context.Context, provider openid.Provider, rawIDToken string, username string, password string) (*token.Data, error) {
	client, ok := s.providers.Get(ctx, provider)
	if !ok {
		return nil, httperr.ProviderUnavailable
	}

	claims, err := s.verifyClaims(ctx, client, provider, rawIDToken)
	if err != nil {
		return nil, err
	}

	if err := s.checkAvailability(claims.Email, username); err != nil {
		return nil, err
	}

	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(claims.Email, username, passwordHash)
	if err := s.users.CreateWithLink(user, string(provider), claims.EmailVerified); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Register creates an account from basic credentials.
func (s *Service) Register(email string, username string, password string) (*token.Data, error) {
	if err := s.checkAvailability(email, username); err != nil {
		return nil, err
	}

	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(email, username, passwordHash)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates basic credentials against the stored hash.
func (s *Service) Login(email string, password string) (*token.Data, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperr.EmailNotFound
	}
	if !user.CheckPassword(password) {
		return nil, httperr.IncorrectPassword
	}

	return s.issue(user)
}

func (s *Service) verifyClaims(ctx context.Context, client openid.Client, provider openid.Provider, rawIDToken string) (*openid.Claims, error) {
	claims, err := client.Verify(ctx, rawIDToken)
	if err != nil {
		log.Printf("openid token from %s failed validation: %v", provider, err)
		return nil, httperr.OpenIDInvalidToken
	}
	if claims.Email == "" {
		return nil, httperr.ClaimMissingEmail
	}
	return claims, nil
}

func (s *Service) checkAvailability(email string, username string) error {
	emailTaken, err := s.users.IsEmailTaken(email)
	if err != nil {
		return err
	}
	if emailTaken {
		return httperr.EmailExists
	}

	usernameTaken, err := s.users.IsUsernameTaken(username)
	if err != nil {
		return err
	}
	if usernameTaken {
		return httperr.UsernameExists
	}
	return nil
}

func (s *Service) issue(user *models.User) (*token.Data, error) {
	tokenData, err := s.tokens.Issue(user)
	if err != nil {
		log.Printf("failed to issue user token: %v", err)
		return nil, httperr.TokenCreateFailed
	}
	return tokenData, nil
}
