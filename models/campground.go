package models

import (
	"time"

	"gorm.io/gorm"
)

// Campground is a listing created by a user. Location, Lat and Lng are always
// written together from a single geocoding result; Image always points at an
// asset previously uploaded to the image host. The author fields are a
// snapshot taken at creation time, not a live join.
type Campground struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Image          string         `json:"image"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	Lat            float64        `json:"lat"`
	Lng            float64        `json:"lng"`
	AuthorID       uint           `gorm:"not null;index" json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	Comments       []Comment      `gorm:"foreignKey:CampgroundID" json:"comments,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
