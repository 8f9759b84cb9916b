package models

import (
	"time"
)

// User represents a user of the newsletter service
type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Email         string     `json:"email" gorm:"type:varchar(255);not null;unique;index"`
	PasswordHash  string     `json:"-" gorm:"type:varchar(255);not null"`
	FirstName     string     `json:"first_name" gorm:"type:varchar(100)"`
	LastName      string     `json:"last_name" gorm:"type:varchar(100)"`
	MiddleName    string     `json:"middle_name,omitempty" gorm:"type:varchar(100)"`
	Comment       string     `json:"comment,omitempty" gorm:"type:text"`
	IsActive      bool       `json:"is_active" gorm:"default:false;index"`
	IsStaff       bool       `json:"is_staff" gorm:"default:false;index"`
	IsSuperuser   bool       `json:"is_superuser" gorm:"default:false;index"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	TokenVersion  uint       `json:"token_version" gorm:"default:0"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	// Relationships
	RefreshTokens []RefreshToken `json:"refresh_tokens,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Clients       []Client       `json:"clients,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
	Messages      []Message      `json:"messages,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsManager reports whether the user may access manager-level views
func (u *User) IsManager() bool {
	return u.IsStaff || u.IsSuperuser
}

// UpdateProfileRequest represents the request to update the current user's profile
type UpdateProfileRequest struct {
	FirstName  string `json:"first_name" binding:"required" example:"Anna"`
	LastName   string `json:"last_name" binding:"required" example:"Smirnova"`
	MiddleName string `json:"middle_name,omitempty" example:"Petrovna"`
	Comment    string `json:"comment,omitempty"`
}

// UserListItemResponse represents a row in the manager's user list
type UserListItemResponse struct {
	ID            uint   `json:"id" example:"1"`
	Email         string `json:"email" example:"user@example.com"`
	FirstName     string `json:"first_name" example:"Anna"`
	LastName      string `json:"last_name" example:"Smirnova"`
	IsActive      bool   `json:"is_active" example:"true"`
	IsStaff       bool   `json:"is_staff" example:"false"`
	EmailVerified bool   `json:"email_verified" example:"true"`
	CreatedAt     string `json:"created_at" example:"2025-01-09T10:30:00Z"`
}

// ManageUsersRequest represents the manager's bulk update of user accounts.
// BlockIDs is the set of users to block; ManagerIDs is the set of users to
// grant manager status (applied only when the caller is a superuser).
type ManageUsersRequest struct {
	BlockIDs   []uint `json:"block_ids"`
	ManagerIDs []uint `json:"manager_ids"`
}
