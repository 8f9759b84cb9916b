package models

import (
	"time"
)

// Newsletter frequencies
const (
	FrequencyOnce    = "once"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Newsletter statuses
const (
	NewsletterStatusCreated   = "created"
	NewsletterStatusScheduled = "scheduled"
)

// Newsletter associates a delivery schedule with a set of clients and a set
// of messages. A newsletter is never hard-deleted by end users: deleting it
// only flips IsActive to false and removes the scheduled job.
type Newsletter struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Scheduling: SendTime is the time of day ("15:04") the newsletter fires;
	// FinishDate/FinishTime bound recurring deliveries, both optional.
	SendTime   string     `json:"time" gorm:"type:varchar(5);not null"`
	FinishDate *time.Time `json:"finish_date,omitempty" gorm:"type:date;index"`
	FinishTime string     `json:"finish_time,omitempty" gorm:"type:varchar(5)"`
	Frequency  string     `json:"frequency" gorm:"type:varchar(10);not null;default:'once'"`

	Status      string    `json:"status" gorm:"type:varchar(10);not null;default:'created';index"`
	IsActive    bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedByID uint      `json:"created_by" gorm:"not null;index"`

	// Relationships
	CreatedBy User      `json:"-" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
	Clients   []Client  `json:"clients,omitempty" gorm:"many2many:newsletter_clients;constraint:OnDelete:CASCADE"`
	Messages  []Message `json:"messages,omitempty" gorm:"many2many:newsletter_messages;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Newsletter model
func (Newsletter) TableName() string {
	return "newsletters"
}

// OwnerID returns the creating user's ID
func (n *Newsletter) OwnerID() uint {
	return n.CreatedByID
}

// CreateNewsletterRequest represents the request to create a new newsletter
type CreateNewsletterRequest struct {
	Time       string `json:"time" binding:"required" example:"09:00"`
	FinishDate string `json:"finish_date,omitempty" example:"2026-12-31"`
	FinishTime string `json:"finish_time,omitempty" example:"18:00"`
	Frequency  string `json:"frequency" binding:"required,oneof=once daily weekly monthly" example:"weekly"`
	ClientIDs  []uint `json:"client_ids" binding:"required,min=1"`
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// UpdateNewsletterRequest represents the request to update a newsletter
type UpdateNewsletterRequest struct {
	Time       string `json:"time" binding:"required" example:"09:00"`
	FinishDate string `json:"finish_date,omitempty" example:"2026-12-31"`
	FinishTime string `json:"finish_time,omitempty" example:"18:00"`
	Frequency  string `json:"frequency" binding:"required,oneof=once daily weekly monthly" example:"daily"`
	ClientIDs  []uint `json:"client_ids" binding:"required,min=1"`
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// NewsletterResponse represents the response for newsletter operations
type NewsletterResponse struct {
	ID         uint              `json:"id" example:"1"`
	Time       string            `json:"time" example:"09:00"`
	FinishDate string            `json:"finish_date,omitempty" example:"2026-12-31"`
	FinishTime string            `json:"finish_time,omitempty" example:"18:00"`
	Frequency  string            `json:"frequency" example:"weekly"`
	Status     string            `json:"status" example:"scheduled"`
	IsActive   bool              `json:"is_active" example:"true"`
	CreatedBy  uint              `json:"created_by" example:"1"`
	Clients    []ClientResponse  `json:"clients,omitempty"`
	Messages   []MessageResponse `json:"messages,omitempty"`
	CreatedAt  string            `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt  string            `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
