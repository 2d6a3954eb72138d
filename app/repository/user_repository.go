package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/quizhub/quizhub/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return r.db.Create(user).Error
}

// CreateWithLink creates the user together with its provider link in a
// single transaction, marking the email verified when the provider
// claimed so. A failure at any step rolls back every write.
func (r *userRepository) CreateWithLink(user *models.User, provider string, emailVerified bool) error {
	user.Email = models.NormalizeEmail(user.Email)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if emailVerified {
			now := time.Now()
			user.EmailVerifiedAt = &now
			if err := tx.Model(user).Update("email_verified_at", now).Error; err != nil {
				return err
			}
		}
		link := models.UserLink{UserID: user.ID, Provider: provider}
		return tx.Create(&link).Error
	})
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsEmailTaken reports whether a user already exists with this email
func (r *userRepository) IsEmailTaken(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// IsUsernameTaken reports whether a user already exists with this username
func (r *userRepository) IsUsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ?", models.NormalizeUsername(username)).
		Count(&count).Error
	return count > 0, err
}

// SetEmailVerified stamps the user's email as verified at the current time
func (r *userRepository) SetEmailVerified(user *models.User) error {
	now := time.Now()
	if err := r.db.Model(user).Update("email_verified_at", now).Error; err != nil {
		return err
	}
	user.EmailVerifiedAt = &now
	return nil
}
