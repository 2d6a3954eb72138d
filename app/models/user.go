package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_STANDARD      = 0
	ROLE_MODERATOR     = 1
	ROLE_ADMINISTRATOR = 2
)

// User is an account on the platform. Emails are always stored
// lowercase; Password is nil for accounts created through an OpenID
// provider that never set one.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	EmailVerifiedAt *time.Time `gorm:"type:timestamp;default:null" json:"email_verified_at"`
	Username        string     `gorm:"type:varchar(100)" json:"username" validate:"required,alphanum,min=4,max=100"`
	Password        *string    `gorm:"type:text" json:"-"`
	Role            int        `gorm:"default:0" json:"role" validate:"oneof=0 1 2"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewUser builds an unsaved user with normalized email and username.
func NewUser(email string, username string, passwordHash string) *User {
	return &User{
		Email:    NormalizeEmail(email),
		Username: NormalizeUsername(username),
		Password: &passwordHash,
		Role:     ROLE_STANDARD,
	}
}

// NormalizeEmail trims and lowercases an email address. Every storage
// write and lookup must go through this so case-different variants of
// the same address map to one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies the provided password against the user's stored
// hash. Users without a password hash (OpenID only) never match.
func (u *User) CheckPassword(password string) bool {
	if u.Password == nil {
		return false
	}
	return CheckPasswordHash(password, *u.Password)
}

// IsEmailVerified reports whether the email has been verified.
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMINISTRATOR
}
