package models

import "time"

// RefreshToken is the opaque long-lived credential a client exchanges
// for a fresh access token. The token value is the primary key and the
// user id carries a unique index, so a user can only ever hold one
// active refresh token; rotation overwrites value and creation time.
type RefreshToken struct {
	Token     string    `gorm:"primaryKey;type:varchar(128)" json:"-"`
	UserID    uint      `gorm:"uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "user_refresh_tokens"
}
