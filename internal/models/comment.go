package models

import "time"

// MaxCommentLength bounds comment content.
const MaxCommentLength = 1000

// Comment is a child row of its post: appended by any authenticated user,
// never edited or deleted, ordered by creation time (oldest first).
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	UserID    uint      `gorm:"not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
