package models

import (
	"strings"
	"time"
)

// ExcerptLength is the number of characters of content used when no explicit
// excerpt is supplied.
const ExcerptLength = 200

// Post is an article written by a user and filed under a category.
// AuthorID is set once at creation and never reassigned. Comments are child
// rows owned exclusively by the post, ordered by creation time.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     string     `gorm:"size:200" json:"excerpt"`
	AuthorID    uint       `gorm:"not null;index" json:"authorId"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID  uint       `gorm:"not null;index" json:"categoryId"`
	Category    Category   `gorm:"foreignKey:CategoryID" json:"category"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	IsPublished bool       `gorm:"not null;default:false" json:"isPublished"`
	ViewCount   int64      `gorm:"not null;default:0" json:"viewCount"`
	Comments    []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DeriveExcerpt returns the explicit excerpt when given, otherwise the first
// ExcerptLength characters of content.
func DeriveExcerpt(excerpt, content string) string {
	if excerpt != "" {
		return excerpt
	}
	runes := []rune(content)
	if len(runes) <= ExcerptLength {
		return content
	}
	return string(runes[:ExcerptLength])
}

// SplitTags converts a comma-delimited tag string into a trimmed list,
// preserving case and dropping empty entries.
func SplitTags(raw string) StringList {
	tags := StringList{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
