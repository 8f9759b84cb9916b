package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skychimp/newsletter-service/internal/cache"
	"github.com/skychimp/newsletter-service/internal/models"
)

type countingNewsletterCounter struct {
	totalCalls  int
	activeCalls int
}

func (c *countingNewsletterCounter) Count() (int64, error) {
	c.totalCalls++
	return 12, nil
}

func (c *countingNewsletterCounter) CountActive() (int64, error) {
	c.activeCalls++
	return 7, nil
}

type countingClientCounter struct {
	calls int
}

func (c *countingClientCounter) CountDistinctEmails() (int64, error) {
	c.calls++
	return 30, nil
}

type fakePostRepo struct {
	published []*models.Post
}

func (f *fakePostRepo) Create(*models.Post) error                  { return nil }
func (f *fakePostRepo) GetByID(uint) (*models.Post, error) { return nil, errors.New("record not found") }
func (f *fakePostRepo) GetBySlug(string) (*models.Post, error) { return nil, errors.New("record not found") }
func (f *fakePostRepo) GetPublished() ([]*models.Post, error) { return f.published, nil }
func (f *fakePostRepo) CheckTitleExists(string, uint) (bool, error) { return false, nil }
func (f *fakePostRepo) IncrementViews(uint) error                  { return nil }
func (f *fakePostRepo) Update(*models.Post) error                  { return nil }
func (f *fakePostRepo) Delete(uint) error                          { return nil }

func newDashboardFixture(cacheEnabled bool) (*DashboardService, *countingNewsletterCounter, *countingClientCounter) {
	newsletters := &countingNewsletterCounter{}
	clients := &countingClientCounter{}
	posts := NewPostService(&fakePostRepo{published: []*models.Post{
		{ID: 1, Title: "One", Slug: "one", Published: true},
		{ID: 2, Title: "Two", Slug: "two", Published: true},
		{ID: 3, Title: "Three", Slug: "three", Published: true},
		{ID: 4, Title: "Four", Slug: "four", Published: true},
	}})
	svc := NewDashboardService(newsletters, clients, posts, cache.NewMemory(), cacheEnabled)
	return svc, newsletters, clients
}

func TestDashboardCountersCached(t *testing.T) {
	svc, newsletters, clients := newDashboardFixture(true)

	for i := 0; i < 3; i++ {
		_, err := svc.GetDashboard()
		require.NoError(t, err)
	}

	// Each counter hits its source once, later reads come from cache
	assert.Equal(t, 1, newsletters.totalCalls)
	assert.Equal(t, 1, newsletters.activeCalls)
	assert.Equal(t, 1, clients.calls)
}

func TestDashboardCountersUncached(t *testing.T) {
	svc, newsletters, clients := newDashboardFixture(false)

	for i := 0; i < 3; i++ {
		_, err := svc.GetDashboard()
		require.NoError(t, err)
	}

	assert.Equal(t, 3, newsletters.totalCalls)
	assert.Equal(t, 3, newsletters.activeCalls)
	assert.Equal(t, 3, clients.calls)
}

func TestDashboardCounterRecountedAfterExpiry(t *testing.T) {
	newsletters := &countingNewsletterCounter{}
	clients := &countingClientCounter{}
	posts := NewPostService(&fakePostRepo{})
	mem := cache.NewMemory()
	svc := NewDashboardService(newsletters, clients, posts, mem, true)

	total, err := svc.GetTotalNewsletters()
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, 1, newsletters.totalCalls)

	// Shrink the cached entry's lifetime and let it lapse
	mem.Set(cacheKeyTotalNewsletters, total, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	total, err = svc.GetTotalNewsletters()
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, 2, newsletters.totalCalls)
}

func TestDashboardValues(t *testing.T) {
	svc, _, _ := newDashboardFixture(true)

	dashboard, err := svc.GetDashboard()
	require.NoError(t, err)

	assert.Equal(t, int64(12), dashboard.TotalNewsletters)
	assert.Equal(t, int64(7), dashboard.ActiveNewsletters)
	assert.Equal(t, int64(30), dashboard.UniqueClients)
	assert.Len(t, dashboard.RandomPosts, 3)
}

func TestDashboardFewerPostsThanWanted(t *testing.T) {
	newsletters := &countingNewsletterCounter{}
	clients := &countingClientCounter{}
	posts := NewPostService(&fakePostRepo{published: []*models.Post{
		{ID: 1, Title: "Only", Slug: "only", Published: true},
	}})
	svc := NewDashboardService(newsletters, clients, posts, cache.NewMemory(), true)

	dashboard, err := svc.GetDashboard()
	require.NoError(t, err)
	assert.Len(t, dashboard.RandomPosts, 1)
}
