// Package token issues, verifies and refreshes user session
// credentials. Access tokens are short-lived HS256 JWTs; refresh tokens
// are opaque 128-character values of which a user holds at most one.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/env"
)

const (
	// SigningKeyEnv holds the symmetric JWT signing secret. The service
	// refuses to start without it.
	SigningKeyEnv = "API_JWT_TOKEN_KEY"

	// AccessTokenExpiry is how long an access token stays valid.
	AccessTokenExpiry = 30 * time.Minute

	// RefreshTokenLength is the length of generated refresh tokens.
	RefreshTokenLength = 128

	// RefreshTokenExpiry bounds how long an unused refresh token can be
	// redeemed. Rotation resets the window.
	RefreshTokenExpiry = 30 * 24 * time.Hour
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrCreateToken         = errors.New("failed to create token")
)

// Data is the session token pair handed to clients after a successful
// login, registration or refresh.
type Data struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Expiry       int64  `json:"expiry"`
}

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    uint
	ExpiresAt time.Time
}

// Service signs and verifies access tokens and rotates refresh tokens.
// The signing key is loaded once at construction and never mutated.
type Service struct {
	signingKey    []byte
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
}

// NewService creates the token service. Returns an error when the
// signing secret is missing from the environment.
func NewService(users repository.UserRepository, refreshTokens repository.RefreshTokenRepository) (*Service, error) {
	key, ok := env.Require(SigningKeyEnv)
	if !ok {
		return nil, fmt.Errorf("missing %s environment variable", SigningKeyEnv)
	}

	return &Service{
		signingKey:    []byte(key),
		users:         users,
		refreshTokens: refreshTokens,
	}, nil
}

// Issue creates a session token pair for the user. Each call performs
// exactly one refresh-token upsert, invalidating any token the user
// held before.
func (s *Service) Issue(user *models.User) (*Data, error) {
	expiry := time.Now().Add(AccessTokenExpiry)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateToken, err)
	}

	refreshToken, err := s.rotateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &Data{
		Token:        signed,
		RefreshToken: refreshToken,
		Expiry:       expiry.Unix(),
	}, nil
}

// Verify decodes and validates an access token. Any decode, signature
// or expiry failure collapses to ErrInvalidToken so callers can't probe
// which check failed. Performs no I/O.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    uint(userID),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh exchanges a refresh token for a new session token pair. The
// presented token, if valid, stops working as a side effect of the
// rotation inside Issue.
func (s *Service) Refresh(refreshToken string) (*Data, error) {
	record, err := s.refreshTokens.FindByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidRefreshToken
	}
	if time.Since(record.CreatedAt) > RefreshTokenExpiry {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.Issue(user)
}

// rotateRefreshToken generates a unique refresh token for the user and
// stores it, replacing the previous one. Collisions on the 128-char
// value are vanishingly unlikely but the retry loop keeps the
// uniqueness guarantee honest.
func (s *Service) rotateRefreshToken(user *models.User) (string, error) {
	for {
		value, err := randomAlphanumeric(RefreshTokenLength)
		if err != nil {
			return "", err
		}

		existing, err := s.refreshTokens.FindByToken(value)
		if err != nil {
			return "", err
		}
		if existing != nil {
			continue
		}

		if err := s.refreshTokens.Upsert(user.ID, value); err != nil {
			return "", err
		}
		return value, nil
	}
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomAlphanumeric returns a cryptographically random alphanumeric
// string of length n.
func randomAlphanumeric(n int) (string, error) {
	max := big.NewInt(int64(len(alphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
