package models

import (
	"time"
)

// Client represents a newsletter recipient owned by the user who created it
type Client struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `json:"email" gorm:"type:varchar(255);not null;index"`
	FirstName   string    `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName    string    `json:"last_name" gorm:"type:varchar(100);not null"`
	MiddleName  string    `json:"middle_name,omitempty" gorm:"type:varchar(100)"`
	Comment     string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedByID uint      `json:"created_by" gorm:"not null;index"`
	// Relationships
	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// OwnerID returns the creating user's ID
func (c *Client) OwnerID() uint {
	return c.CreatedByID
}

// CreateClientRequest represents the request to create a new client
type CreateClientRequest struct {
	Email      string `json:"email" binding:"required,email" example:"client@example.com"`
	FirstName  string `json:"first_name" binding:"required" example:"Ivan"`
	LastName   string `json:"last_name" binding:"required" example:"Petrov"`
	MiddleName string `json:"middle_name,omitempty" example:"Sergeevich"`
	Comment    string `json:"comment,omitempty" example:"Met at the conference"`
}

// UpdateClientRequest represents the request to update a client
type UpdateClientRequest struct {
	Email      string `json:"email" binding:"required,email" example:"client@example.com"`
	FirstName  string `json:"first_name" binding:"required" example:"Ivan"`
	LastName   string `json:"last_name" binding:"required" example:"Petrov"`
	MiddleName string `json:"middle_name,omitempty" example:"Sergeevich"`
	Comment    string `json:"comment,omitempty"`
}

// ClientResponse represents the response for client operations
type ClientResponse struct {
	ID         uint   `json:"id" example:"1"`
	Email      string `json:"email" example:"client@example.com"`
	FirstName  string `json:"first_name" example:"Ivan"`
	LastName   string `json:"last_name" example:"Petrov"`
	MiddleName string `json:"middle_name,omitempty" example:"Sergeevich"`
	Comment    string `json:"comment,omitempty"`
	CreatedBy  uint   `json:"created_by" example:"1"`
	CreatedAt  string `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt  string `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
