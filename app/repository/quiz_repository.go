package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quizhub/quizhub/app/models"
)

// quizRepository implements the QuizRepository interface
type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository creates a new quiz repository instance
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// Create creates a new quiz in the database
func (r *quizRepository) Create(quiz *models.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID retrieves a quiz by its ID
func (r *quizRepository) GetByID(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Update saves changes to an existing quiz
func (r *quizRepository) Update(quiz *models.Quiz) error {
	return r.db.Save(quiz).Error
}

// ListByOwner retrieves all quizzes owned by the given user
func (r *quizRepository) ListByOwner(ownerID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}
