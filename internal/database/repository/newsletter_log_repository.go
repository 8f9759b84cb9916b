package repository

import (
	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type NewsletterLogRepository struct {
	db *gorm.DB
}

func NewNewsletterLogRepository(db *gorm.DB) *NewsletterLogRepository {
	return &NewsletterLogRepository{db: db}
}

// Create appends a new log row. Rows are never updated or deleted.
func (r *NewsletterLogRepository) Create(log *models.NewsletterLog) error {
	return r.db.Create(log).Error
}

// GetByID retrieves a log row by ID with its parent newsletter
func (r *NewsletterLogRepository) GetByID(id uint) (*models.NewsletterLog, error) {
	var log models.NewsletterLog
	err := r.db.Preload("Newsletter").First(&log, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// GetAll retrieves all log rows, newest first (staff and superusers)
func (r *NewsletterLogRepository) GetAll() ([]*models.NewsletterLog, error) {
	var logs []*models.NewsletterLog
	err := r.db.Order("date_time DESC").Find(&logs).Error
	return logs, err
}

// GetByNewsletterOwner retrieves log rows for newsletters created by a user,
// newest first
func (r *NewsletterLogRepository) GetByNewsletterOwner(userID uint) ([]*models.NewsletterLog, error) {
	var logs []*models.NewsletterLog
	err := r.db.Joins("JOIN newsletters ON newsletters.id = newsletter_logs.newsletter_id").
		Where("newsletters.created_by_id = ?", userID).
		Order("newsletter_logs.date_time DESC").
		Find(&logs).Error
	return logs, err
}
