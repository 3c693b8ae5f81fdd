package models

import "time"

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Creator     int       `gorm:"not null;index" json:"creator"`
	User        *User     `gorm:"foreignKey:Creator" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PostInput struct {
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description" binding:"required"`
}

// PostWithTally is the read model returned by the post endpoints.
type PostWithTally struct {
	Post
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
}
