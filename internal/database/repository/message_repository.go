package repository

import (
	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetByOwner retrieves all messages created by a specific user
func (r *MessageRepository) GetByOwner(userID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.Where("created_by_id = ?", userID).Order("created_at").Find(&messages).Error
	return messages, err
}

// GetByOwnerAndIDs retrieves the owner's messages matching the given IDs
func (r *MessageRepository) GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("created_by_id = ? AND id IN ?", userID, ids).Find(&messages).Error
	return messages, err
}

// Update updates a message
func (r *MessageRepository) Update(message *models.Message) error {
	return r.db.Save(message).Error
}

// Delete deletes a message
func (r *MessageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Message{}, "id = ?", id).Error
}
