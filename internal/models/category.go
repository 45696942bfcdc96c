package models

import "time"

// DefaultCategoryColor is applied when no hex color is supplied at creation.
const DefaultCategoryColor = "#007bff"

// Category is a taxonomy entry posts are filed under. The slug is derived
// from the name and kept unique alongside it.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
	Color       string    `gorm:"size:7;not null;default:#007bff" json:"color"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
