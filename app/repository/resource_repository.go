package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quizhub/quizhub/app/models"
)

// resourceRepository implements the ResourceRepository interface
type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository instance
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// Create creates a new resource in the database
func (r *resourceRepository) Create(resource *models.Resource) error {
	return r.db.Create(resource).Error
}

// GetByID retrieves a resource by its ID
func (r *resourceRepository) GetByID(id uint) (*models.Resource, error) {
	var resource models.Resource
	err := r.db.First(&resource, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}
