package repository

import (
	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByOwner retrieves all clients created by a specific user
func (r *ClientRepository) GetByOwner(userID uint) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.Where("created_by_id = ?", userID).Order("created_at").Find(&clients).Error
	return clients, err
}

// GetByOwnerAndIDs retrieves the owner's clients matching the given IDs
func (r *ClientRepository) GetByOwnerAndIDs(userID uint, ids []uint) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Where("created_by_id = ? AND id IN ?", userID, ids).Find(&clients).Error
	return clients, err
}

// ExistsByOwnerAndEmail checks whether the owner already created a client
// with the given email. Uniqueness is per owner only: the same email under
// a different owner is fine.
func (r *ClientRepository) ExistsByOwnerAndEmail(userID uint, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&models.Client{}).Where("created_by_id = ? AND email = ?", userID, email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update updates a client
func (r *ClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete deletes a client
func (r *ClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, "id = ?", id).Error
}

// GetAll retrieves all clients (manager export)
func (r *ClientRepository) GetAll() ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.Order("created_at").Find(&clients).Error
	return clients, err
}

// CountDistinctEmails counts distinct client emails across all owners
func (r *ClientRepository) CountDistinctEmails() (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Distinct("email").Count(&count).Error
	return count, err
}
