package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/skychimp/newsletter-service/internal/access"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/utils"
)

// PostRepo is the post access the blog service needs
type PostRepo interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	GetPublished() ([]*models.Post, error)
	CheckTitleExists(title string, excludeID uint) (bool, error)
	IncrementViews(id uint) error
	Update(post *models.Post) error
	Delete(id uint) error
}

// PostService manages the blog. Published posts are public; editing and
// deleting are restricted to the author.
type PostService struct {
	postRepo PostRepo
}

func NewPostService(postRepo PostRepo) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost creates a new blog post with a slug derived from the title
func (s *PostService) CreatePost(user *models.User, req *models.CreatePostRequest) (*models.PostResponse, error) {
	exists, err := s.postRepo.CheckTitleExists(req.Title, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check post title: %w", err)
	}
	if exists {
		return nil, errors.New("post with this title already exists")
	}

	post := &models.Post{
		Title:       req.Title,
		Slug:        utils.Slugify(req.Title),
		Content:     req.Content,
		Published:   true,
		CreatedByID: user.ID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return toPostResponse(post), nil
}

// GetPublishedPosts retrieves published posts, newest first
func (s *PostService) GetPublishedPosts() ([]*models.PostResponse, error) {
	posts, err := s.postRepo.GetPublished()
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	responses := make([]*models.PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = toPostResponse(post)
	}
	return responses, nil
}

// GetPostBySlug retrieves a post by slug and increments its view counter
func (s *PostService) GetPostBySlug(slug string) (*models.PostResponse, error) {
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, errors.New("post not found")
	}
	if err := s.postRepo.IncrementViews(post.ID); err != nil {
		return nil, fmt.Errorf("failed to update post views: %w", err)
	}
	post.ViewsCount++
	return toPostResponse(post), nil
}

// UpdatePost updates a post authored by the user; the slug is recomputed
// from the title
func (s *PostService) UpdatePost(user *models.User, postID uint, req *models.UpdatePostRequest) (*models.PostResponse, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, errors.New("post not found")
	}
	if !access.Check(user, post, access.Authenticated, access.OwnerOnly) {
		return nil, errors.New("permission denied")
	}

	exists, err := s.postRepo.CheckTitleExists(req.Title, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post title: %w", err)
	}
	if exists {
		return nil, errors.New("post with this title already exists")
	}

	post.Title = req.Title
	post.Slug = utils.Slugify(req.Title)
	post.Content = req.Content
	if req.Published != nil {
		post.Published = *req.Published
	}
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return toPostResponse(post), nil
}

// DeletePost deletes a post authored by the user
func (s *PostService) DeletePost(user *models.User, postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return errors.New("post not found")
	}
	if !access.Check(user, post, access.Authenticated, access.OwnerOnly) {
		return errors.New("permission denied")
	}
	if err := s.postRepo.Delete(post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func toPostResponse(post *models.Post) *models.PostResponse {
	return &models.PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Slug:       post.Slug,
		Content:    post.Content,
		Published:  post.Published,
		ViewsCount: post.ViewsCount,
		CreatedBy:  post.CreatedByID,
		CreatedAt:  post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  post.UpdatedAt.Format(time.RFC3339),
	}
}
