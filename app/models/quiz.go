package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QUIZ_STATE_DRAFT     = 0
	QUIZ_STATE_PUBLISHED = 1

	QUIZ_VISIBILITY_PRIVATE = 0
	QUIZ_VISIBILITY_PUBLIC  = 1
)

// Quiz holds a quiz document. Data contains the editor payload as raw
// JSON; its shape is owned by the frontend.
type Quiz struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255)" json:"title" validate:"required,max=255"`
	Description string         `gorm:"type:text" json:"description"`
	State       int            `gorm:"default:0" json:"state" validate:"oneof=0 1"`
	Visibility  int            `gorm:"default:0" json:"visibility" validate:"oneof=0 1"`
	CoverImage  *string        `gorm:"type:text" json:"cover_image"`
	Data        datatypes.JSON `gorm:"type:json" json:"data"`
	OwnerID     uint           `gorm:"index" json:"owner"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quiz"
}

// NewQuiz builds an unsaved draft quiz owned by the given user.
func NewQuiz(owner *User, title string) *Quiz {
	return &Quiz{
		Title:      title,
		State:      QUIZ_STATE_DRAFT,
		Visibility: QUIZ_VISIBILITY_PRIVATE,
		Data:       datatypes.JSON([]byte("{}")),
		OwnerID:    owner.ID,
	}
}
