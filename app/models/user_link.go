package models

import "time"

// UserLink records that a user has authenticated through a specific
// OpenID provider at least once. Composite primary key keeps at most
// one link per (user, provider) pair; links are created once and never
// updated.
type UserLink struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Provider  string    `gorm:"primaryKey;type:varchar(50)" json:"provider"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserLink) TableName() string {
	return "user_links"
}
