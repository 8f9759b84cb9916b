package repository

import (
	"github.com/skychimp/newsletter-service/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug
func (r *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublished retrieves published posts, newest first
func (r *PostRepository) GetPublished() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Where("published = ?", true).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// CheckTitleExists checks whether another post already uses the title
func (r *PostRepository) CheckTitleExists(title string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&models.Post{}).Where("title = ?", title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// IncrementViews increments the post's view counter
func (r *PostRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Update("views_count", gorm.Expr("views_count + 1")).Error
}

// Update updates a post
func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete deletes a post
func (r *PostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}
