package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a campground. Like campgrounds it carries an author
// username snapshot so pages render without joining users.
type Comment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Content        string         `gorm:"not null" json:"content"`
	UserID         uint           `gorm:"not null" json:"user_id"`
	AuthorUsername string         `json:"author_username"`
	CampgroundID   uint           `gorm:"not null;index" json:"campground_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
