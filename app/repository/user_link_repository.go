package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quizhub/quizhub/app/models"
)

// userLinkRepository implements the UserLinkRepository interface
type userLinkRepository struct {
	db *gorm.DB
}

// NewUserLinkRepository creates a new user link repository instance
func NewUserLinkRepository(db *gorm.DB) UserLinkRepository {
	return &userLinkRepository{db: db}
}

// Create records a provider link for the user
func (r *userLinkRepository) Create(userID uint, provider string) error {
	link := models.UserLink{UserID: userID, Provider: provider}
	return r.db.Create(&link).Error
}

// Find retrieves the link between a user and a provider if one exists
func (r *userLinkRepository) Find(userID uint, provider string) (*models.UserLink, error) {
	var link models.UserLink
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}
