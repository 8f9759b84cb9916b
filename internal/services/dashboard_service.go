package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skychimp/newsletter-service/internal/cache"
	"github.com/skychimp/newsletter-service/internal/models"
)

// Cache keys and TTLs for the dashboard counters
const (
	cacheKeyTotalNewsletters  = "total_newsletter"
	cacheKeyActiveNewsletters = "active_newsletters"
	cacheKeyUniqueClients     = "unique_clients"

	ttlTotalNewsletters  = 10 * time.Second
	ttlActiveNewsletters = 120 * time.Second
	ttlUniqueClients     = 180 * time.Second
)

// NewsletterCounter counts newsletters for the dashboard
type NewsletterCounter interface {
	Count() (int64, error)
	CountActive() (int64, error)
}

// ClientCounter counts distinct client emails for the dashboard
type ClientCounter interface {
	CountDistinctEmails() (int64, error)
}

// DashboardResponse represents the main page counters and featured posts
type DashboardResponse struct {
	TotalNewsletters  int64                  `json:"total_newsletters"`
	ActiveNewsletters int64                  `json:"active_newsletters"`
	UniqueClients     int64                  `json:"unique_clients"`
	RandomPosts       []*models.PostResponse `json:"random_posts"`
}

// DashboardService serves the main page counters. With caching enabled each
// counter is read through the cache under a fixed key with a fixed TTL;
// entries are never invalidated on writes, staleness up to the TTL is
// accepted. With caching disabled every call recounts.
type DashboardService struct {
	newsletterRepo NewsletterCounter
	clientRepo     ClientCounter
	postService    *PostService
	cache          cache.CounterCache
	cacheEnabled   bool
}

func NewDashboardService(
	newsletterRepo NewsletterCounter,
	clientRepo ClientCounter,
	postService *PostService,
	counterCache cache.CounterCache,
	cacheEnabled bool,
) *DashboardService {
	return &DashboardService{
		newsletterRepo: newsletterRepo,
		clientRepo:     clientRepo,
		postService:    postService,
		cache:          counterCache,
		cacheEnabled:   cacheEnabled,
	}
}

// GetDashboard assembles the main page data
func (s *DashboardService) GetDashboard() (*DashboardResponse, error) {
	total, err := s.GetTotalNewsletters()
	if err != nil {
		return nil, err
	}
	active, err := s.GetActiveNewsletters()
	if err != nil {
		return nil, err
	}
	unique, err := s.GetUniqueClients()
	if err != nil {
		return nil, err
	}

	posts, err := s.randomPosts(3)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalNewsletters:  total,
		ActiveNewsletters: active,
		UniqueClients:     unique,
		RandomPosts:       posts,
	}, nil
}

// GetTotalNewsletters returns the total newsletter count
func (s *DashboardService) GetTotalNewsletters() (int64, error) {
	return s.counter(cacheKeyTotalNewsletters, ttlTotalNewsletters, s.newsletterRepo.Count)
}

// GetActiveNewsletters returns the active newsletter count
func (s *DashboardService) GetActiveNewsletters() (int64, error) {
	return s.counter(cacheKeyActiveNewsletters, ttlActiveNewsletters, s.newsletterRepo.CountActive)
}

// GetUniqueClients returns the distinct client email count
func (s *DashboardService) GetUniqueClients() (int64, error) {
	return s.counter(cacheKeyUniqueClients, ttlUniqueClients, s.clientRepo.CountDistinctEmails)
}

func (s *DashboardService) counter(key string, ttl time.Duration, count func() (int64, error)) (int64, error) {
	if !s.cacheEnabled {
		return count()
	}

	if value, ok := s.cache.Get(key); ok {
		return value, nil
	}

	logrus.Debugf("Cache miss for %s, recounting", key)
	value, err := count()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", key, err)
	}
	s.cache.Set(key, value, ttl)
	return value, nil
}

func (s *DashboardService) randomPosts(n int) ([]*models.PostResponse, error) {
	posts, err := s.postService.GetPublishedPosts()
	if err != nil {
		return nil, err
	}
	if len(posts) <= n {
		return posts, nil
	}
	picked := make([]*models.PostResponse, len(posts))
	copy(picked, posts)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n], nil
}
