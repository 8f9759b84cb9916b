package models

import (
	"time"
)

// User token purposes
const (
	TokenPurposeEmailConfirm  = "email_confirm"
	TokenPurposePasswordReset = "password_reset"
)

// UserToken represents a single-use token mailed to a user, either to confirm
// the email address after registration or to reset a forgotten password.
type UserToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token" gorm:"type:uuid;not null;unique;index"`
	Purpose   string    `json:"purpose" gorm:"type:varchar(20);not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	UsedAt    *time.Time `json:"used_at"`
	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the UserToken model
func (UserToken) TableName() string {
	return "user_tokens"
}

// IsUsable reports whether the token can still be redeemed
func (t *UserToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
