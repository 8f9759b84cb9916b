package models

import (
	"time"
)

// Post represents a blog post
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null;unique"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Published   bool      `json:"published" gorm:"default:true;index"`
	ViewsCount  uint      `json:"views_count" gorm:"default:0"`
	CreatedByID uint      `json:"created_by" gorm:"not null;index"`
	// Relationships
	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// OwnerID returns the creating user's ID
func (p *Post) OwnerID() uint {
	return p.CreatedByID
}

// CreatePostRequest represents the request to create a new blog post
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required" example:"How we ship newsletters"`
	Content string `json:"content" binding:"required"`
}

// UpdatePostRequest represents the request to update a blog post
type UpdatePostRequest struct {
	Title     string `json:"title" binding:"required" example:"How we ship newsletters"`
	Content   string `json:"content" binding:"required"`
	Published *bool  `json:"published,omitempty"`
}

// PostResponse represents the response for blog post operations
type PostResponse struct {
	ID         uint   `json:"id" example:"1"`
	Title      string `json:"title" example:"How we ship newsletters"`
	Slug       string `json:"slug" example:"how-we-ship-newsletters"`
	Content    string `json:"content"`
	Published  bool   `json:"published" example:"true"`
	ViewsCount uint   `json:"views_count" example:"42"`
	CreatedBy  uint   `json:"created_by" example:"1"`
	CreatedAt  string `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt  string `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
