package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizhub/quizhub/app/models"
)

// refreshTokenRepository implements the RefreshTokenRepository interface
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository instance
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// FindByToken retrieves a refresh token record by its value
func (r *refreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := r.db.Where("token = ?", token).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert stores the refresh token for the user. The ON CONFLICT clause on
// user_id makes rotation last-write-wins: whichever concurrent rotation
// commits last owns the single valid token for that user.
func (r *refreshTokenRepository) Upsert(userID uint, token string) error {
	record := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "created_at"}),
	}).Create(&record).Error
}
