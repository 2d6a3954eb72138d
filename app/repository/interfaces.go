package repository

import (
	"github.com/quizhub/quizhub/app/models"
)

// UserRepository defines the interface for user-related database operations.
// Lookup methods return (nil, nil) when no matching record exists; a non-nil
// error always means the storage layer itself failed.
type UserRepository interface {
	Create(user *models.User) error
	// CreateWithLink creates the user, optionally marks the email verified,
	// and records the provider link inside a single transaction. Either all
	// three writes succeed or none of them do.
	CreateWithLink(user *models.User, provider string, emailVerified bool) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	IsEmailTaken(email string) (bool, error)
	IsUsernameTaken(username string) (bool, error)
	SetEmailVerified(user *models.User) error
}

// UserLinkRepository defines the interface for provider-link operations.
type UserLinkRepository interface {
	Create(userID uint, provider string) error
	Find(userID uint, provider string) (*models.UserLink, error)
}

// RefreshTokenRepository defines the interface for refresh-token storage.
type RefreshTokenRepository interface {
	FindByToken(token string) (*models.RefreshToken, error)
	// Upsert stores the token for the user, replacing any existing token
	// row for that user id in one atomic statement.
	Upsert(userID uint, token string) error
}

// QuizRepository defines the interface for quiz-related database operations.
type QuizRepository interface {
	Create(quiz *models.Quiz) error
	GetByID(id uint) (*models.Quiz, error)
	Update(quiz *models.Quiz) error
	ListByOwner(ownerID uint) ([]models.Quiz, error)
}

// ResourceRepository defines the interface for resource-related database operations.
type ResourceRepository interface {
	Create(resource *models.Resource) error
	GetByID(id uint) (*models.Resource, error)
}
