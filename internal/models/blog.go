package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	Title   string `json:"title" gorm:"not null;size:255"`
	Slug    string `json:"slug" gorm:"uniqueIndex:idx_blogs_slug;not null;size:255"`
	Excerpt string `json:"excerpt" gorm:"type:text"`
	Content string `json:"content" gorm:"type:text;not null"`
	Image   string `json:"image" gorm:"size:1000"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Blog) TableName() string {
	return "blogs"
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
