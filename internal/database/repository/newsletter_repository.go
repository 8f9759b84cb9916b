package repository

import (
	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type NewsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Create creates a new newsletter
func (r *NewsletterRepository) Create(newsletter *models.Newsletter) error {
	return r.db.Create(newsletter).Error
}

// GetByID retrieves a newsletter by ID with its clients and messages
func (r *NewsletterRepository) GetByID(id uint) (*models.Newsletter, error) {
	var newsletter models.Newsletter
	err := r.db.Preload("Clients").
		Preload("Messages").
		First(&newsletter, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &newsletter, nil
}

// GetByOwner retrieves all newsletters created by a user, newest first
func (r *NewsletterRepository) GetByOwner(userID uint) ([]*models.Newsletter, error) {
	var newsletters []*models.Newsletter
	err := r.db.Where("created_by_id = ?", userID).
		Preload("Clients").
		Preload("Messages").
		Order("created_at DESC").
		Find(&newsletters).Error
	return newsletters, err
}

// GetAll retrieves all newsletters, newest first (staff and superusers)
func (r *NewsletterRepository) GetAll() ([]*models.Newsletter, error) {
	var newsletters []*models.Newsletter
	err := r.db.Preload("Clients").
		Preload("Messages").
		Order("created_at DESC").
		Find(&newsletters).Error
	return newsletters, err
}

// Update updates a newsletter
func (r *NewsletterRepository) Update(newsletter *models.Newsletter) error {
	return r.db.Save(newsletter).Error
}

// ReplaceClients replaces the newsletter's client set
func (r *NewsletterRepository) ReplaceClients(newsletter *models.Newsletter, clients []models.Client) error {
	return r.db.Model(newsletter).Association("Clients").Replace(clients)
}

// ReplaceMessages replaces the newsletter's message set
func (r *NewsletterRepository) ReplaceMessages(newsletter *models.Newsletter, messages []models.Message) error {
	return r.db.Model(newsletter).Association("Messages").Replace(messages)
}

// Count counts all newsletters
func (r *NewsletterRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Newsletter{}).Count(&count).Error
	return count, err
}

// CountActive counts active newsletters
func (r *NewsletterRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Newsletter{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// GetActive retrieves every active newsletter, for schedule restore at startup
func (r *NewsletterRepository) GetActive() ([]*models.Newsletter, error) {
	var newsletters []*models.Newsletter
	err := r.db.Where("is_active = ?", true).Find(&newsletters).Error
	return newsletters, err
}
