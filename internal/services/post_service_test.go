package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/models"
)

type memPostRepo struct {
	posts  map[uint]*models.Post
	nextID uint
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[uint]*models.Post), nextID: 1}
}

func (f *memPostRepo) Create(p *models.Post) error {
	p.ID = f.nextID
	f.nextID++
	f.posts[p.ID] = p
	return nil
}

func (f *memPostRepo) GetByID(id uint) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *p
	return &cp, nil
}

func (f *memPostRepo) GetBySlug(slug string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *memPostRepo) GetPublished() ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *memPostRepo) CheckTitleExists(title string, excludeID uint) (bool, error) {
	for _, p := range f.posts {
		if p.Title == title && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *memPostRepo) IncrementViews(id uint) error {
	if p, ok := f.posts[id]; ok {
		p.ViewsCount++
	}
	return nil
}

func (f *memPostRepo) Update(p *models.Post) error {
	f.posts[p.ID] = p
	return nil
}

func (f *memPostRepo) Delete(id uint) error {
	delete(f.posts, id)
	return nil
}

func TestCreatePostSlugAndTitleUnique(t *testing.T) {
	svc := NewPostService(newMemPostRepo())
	author := &models.User{ID: 1, IsActive: true}

	post, err := svc.CreatePost(author, &models.CreatePostRequest{Title: "How We Ship Newsletters!", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "how-we-ship-newsletters", post.Slug)
	assert.True(t, post.Published)

	_, err = svc.CreatePost(author, &models.CreatePostRequest{Title: "How We Ship Newsletters!", Content: "other"})
	require.Error(t, err)
	assert.Equal(t, "post with this title already exists", err.Error())
}

func TestGetPostBySlugCountsViews(t *testing.T) {
	repo := newMemPostRepo()
	svc := NewPostService(repo)
	author := &models.User{ID: 1, IsActive: true}

	created, err := svc.CreatePost(author, &models.CreatePostRequest{Title: "Reading counts", Content: "body"})
	require.NoError(t, err)

	first, err := svc.GetPostBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.ViewsCount)

	second, err := svc.GetPostBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.ViewsCount)
}

func TestUpdatePostReslugsAndUnpublishes(t *testing.T) {
	repo := newMemPostRepo()
	svc := NewPostService(repo)
	author := &models.User{ID: 1, IsActive: true}

	created, err := svc.CreatePost(author, &models.CreatePostRequest{Title: "Old Title", Content: "body"})
	require.NoError(t, err)

	published := false
	updated, err := svc.UpdatePost(author, created.ID, &models.UpdatePostRequest{
		Title:     "New Title",
		Content:   "body",
		Published: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-title", updated.Slug)
	assert.False(t, updated.Published)

	// Unpublished posts disappear from the public listing
	posts, err := svc.GetPublishedPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostAuthorOnlyEdits(t *testing.T) {
	svc := NewPostService(newMemPostRepo())
	author := &models.User{ID: 1, IsActive: true}
	staff := &models.User{ID: 2, IsActive: true, IsStaff: true}

	created, err := svc.CreatePost(author, &models.CreatePostRequest{Title: "Mine", Content: "body"})
	require.NoError(t, err)

	_, err = svc.UpdatePost(staff, created.ID, &models.UpdatePostRequest{Title: "Taken over", Content: "body"})
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())

	err = svc.DeletePost(staff, created.ID)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
}
