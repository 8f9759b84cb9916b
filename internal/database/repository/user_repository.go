package repository

import (
	"time"

	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckEmailExists checks if an email is already registered
func (r *UserRepository) CheckEmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update updates a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateLastLogin updates the last login timestamp for a user
func (r *UserRepository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", &now).Error
}

// IncrementTokenVersion increments the token version for a user,
// invalidating all previously issued access tokens
func (r *UserRepository) IncrementTokenVersion(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("token_version", gorm.Expr("token_version + 1")).Error
}

// GetAllExceptSuperusers retrieves every user except superusers,
// for the manager's user list
func (r *UserRepository) GetAllExceptSuperusers() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Where("is_superuser = ?", false).Order("created_at").Find(&users).Error
	return users, err
}

// UnblockAll marks every user active
func (r *UserRepository) UnblockAll() error {
	return r.db.Model(&models.User{}).Where("1 = 1").Update("is_active", true).Error
}

// BlockByIDs marks the given users inactive
func (r *UserRepository) BlockByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id IN ?", ids).Update("is_active", false).Error
}

// RemoveManagerStatusAll removes staff status from every non-superuser
func (r *UserRepository) RemoveManagerStatusAll() error {
	return r.db.Model(&models.User{}).Where("is_superuser = ?", false).Update("is_staff", false).Error
}

// SetManagerByIDs grants staff status to the given users
func (r *UserRepository) SetManagerByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id IN ?", ids).Update("is_staff", true).Error
}
