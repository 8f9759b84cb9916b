package models

import (
	"time"
)

// Newsletter log statuses
const (
	LogStatusSuccess = "success"
	LogStatusFailure = "failure"
)

// NewsletterLog is an append-only record of a single delivery attempt.
// Exactly one row is written per send invocation, whatever the number of
// recipients; rows are immutable once written.
type NewsletterLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	DateTime     time.Time `json:"date_time" gorm:"not null;index"`
	Status       string    `json:"status" gorm:"type:varchar(10);not null;index"`
	Detail       string    `json:"detail,omitempty" gorm:"type:text"`
	NewsletterID uint      `json:"newsletter_id" gorm:"not null;index"`
	// Relationships
	Newsletter Newsletter `json:"-" gorm:"foreignKey:NewsletterID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the NewsletterLog model
func (NewsletterLog) TableName() string {
	return "newsletter_logs"
}

// NewsletterLogResponse represents the response for newsletter log operations
type NewsletterLogResponse struct {
	ID           uint   `json:"id" example:"1"`
	DateTime     string `json:"date_time" example:"2025-01-09T09:00:00Z"`
	Status       string `json:"status" example:"success"`
	Detail       string `json:"detail,omitempty"`
	NewsletterID uint   `json:"newsletter_id" example:"1"`
}
