package models

import "time"

const (
	RESOURCE_VISIBILITY_PRIVATE = 0
	RESOURCE_VISIBILITY_PUBLIC  = 1
)

// Resource is an uploaded file (quiz cover image, attachment) tracked
// by path; the bytes themselves live outside the database.
type Resource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MimeType    string    `gorm:"type:varchar(100)" json:"mime_type" validate:"required,max=100"`
	Name        string    `gorm:"type:varchar(255)" json:"name" validate:"required,max=255"`
	Description string    `gorm:"type:varchar(255)" json:"description" validate:"max=255"`
	Path        string    `gorm:"type:varchar(255)" json:"path" validate:"required,max=255"`
	Visibility  int       `gorm:"default:0" json:"visibility" validate:"oneof=0 1"`
	OwnerID     uint      `gorm:"index" json:"owner"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Resource) TableName() string {
	return "resources"
}
