package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles every repository built on one database handle
type Repositories struct {
	User         UserRepository
	UserLink     UserLinkRepository
	RefreshToken RefreshTokenRepository
	Quiz         QuizRepository
	Resource     ResourceRepository
}

// NewRepositories creates all repositories for the given database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		UserLink:     NewUserLinkRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Quiz:         NewQuizRepository(db),
		Resource:     NewResourceRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetUserLinkRepository returns the user link repository instance
func (f *Factory) GetUserLinkRepository() UserLinkRepository {
	return f.GetRepositories().UserLink
}

// GetRefreshTokenRepository returns the refresh token repository instance
func (f *Factory) GetRefreshTokenRepository() RefreshTokenRepository {
	return f.GetRepositories().RefreshToken
}

// GetQuizRepository returns the quiz repository instance
func (f *Factory) GetQuizRepository() QuizRepository {
	return f.GetRepositories().Quiz
}

// GetResourceRepository returns the resource repository instance
func (f *Factory) GetResourceRepository() ResourceRepository {
	return f.GetRepositories().Resource
}
