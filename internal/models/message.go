package models

import (
	"time"
)

// Message represents a reusable email body owned by the user who created it
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Subject     string    `json:"subject" gorm:"type:varchar(255);not null"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	CreatedByID uint      `json:"created_by" gorm:"not null;index"`
	// Relationships
	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// OwnerID returns the creating user's ID
func (m *Message) OwnerID() uint {
	return m.CreatedByID
}

// CreateMessageRequest represents the request to create a new message
type CreateMessageRequest struct {
	Subject string `json:"subject" binding:"required" example:"Weekly digest"`
	Body    string `json:"body" binding:"required" example:"Hello! Here is what happened this week..."`
}

// UpdateMessageRequest represents the request to update a message
type UpdateMessageRequest struct {
	Subject string `json:"subject" binding:"required" example:"Weekly digest"`
	Body    string `json:"body" binding:"required"`
}

// MessageResponse represents the response for message operations
type MessageResponse struct {
	ID        uint   `json:"id" example:"1"`
	Subject   string `json:"subject" example:"Weekly digest"`
	Body      string `json:"body"`
	CreatedBy uint   `json:"created_by" example:"1"`
	CreatedAt string `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt string `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
