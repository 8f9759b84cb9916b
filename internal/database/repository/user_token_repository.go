package repository

import (
	"time"

	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type UserTokenRepository struct {
	db *gorm.DB
}

func NewUserTokenRepository(db *gorm.DB) *UserTokenRepository {
	return &UserTokenRepository{db: db}
}

// Create creates a new user token
func (r *UserTokenRepository) Create(token *models.UserToken) error {
	return r.db.Create(token).Error
}

// GetByToken retrieves a token by its value and purpose
func (r *UserTokenRepository) GetByToken(token, purpose string) (*models.UserToken, error) {
	var userToken models.UserToken
	err := r.db.Where("token = ? AND purpose = ?", token, purpose).First(&userToken).Error
	if err != nil {
		return nil, err
	}
	return &userToken, nil
}

// MarkUsed marks a token as redeemed
func (r *UserTokenRepository) MarkUsed(token *models.UserToken) error {
	now := time.Now()
	token.UsedAt = &now
	return r.db.Save(token).Error
}

// DeleteExpired deletes tokens past their expiry
func (r *UserTokenRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.UserToken{}).Error
}
