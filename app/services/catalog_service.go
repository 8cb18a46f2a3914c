package services

import (
	"context"
	"sort"
	"time"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/pkg/cache"
	"github.com/shashiranjanraj/diagnocare/pkg/event"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// FeaturedKey is the cache key of the featured tests.
const FeaturedKey = "featured-tests"

// FeaturedLimit is how many tests are featured.
const FeaturedLimit = 3

// CatalogService manages diagnostic tests and their featured ranking.
type CatalogService struct {
	tests *repositories.Tests
	cache *cache.Store
	ttl   time.Duration
	bus   *event.Bus
}

// NewCatalogService wires the service and subscribes cache invalidation to
// bus. A nil cache disables caching.
func NewCatalogService(tests *repositories.Tests, c *cache.Store, ttl time.Duration, bus *event.Bus) *CatalogService {
	s := &CatalogService{tests: tests, cache: c, ttl: ttl, bus: bus}
	bus.Listen(EventTestsChanged, s.invalidate)
	bus.Listen(EventBookingCreated, s.invalidate)
	return s
}

func (s *CatalogService) All(ctx context.Context) ([]store.Document, error) {
	return s.tests.All(ctx)
}

func (s *CatalogService) Find(ctx context.Context, id string) (store.Document, error) {
	return s.tests.Find(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, test store.Document) (string, error) {
	id, err := s.tests.Create(ctx, test)
	if err != nil {
		return "", err
	}
	s.bus.Fire(ctx, EventTestsChanged, id)
	return id, nil
}

// Update merges fields into the test. Returns store.ErrNotFound when no
// test has id.
func (s *CatalogService) Update(ctx context.Context, id string, fields store.Document) (store.UpdateResult, error) {
	res, err := s.tests.Update(ctx, id, fields)
	if err != nil {
		return res, err
	}
	if res.MatchedCount == 0 {
		return res, store.ErrNotFound
	}
	s.bus.Fire(ctx, EventTestsChanged, id)
	return res, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.tests.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.bus.Fire(ctx, EventTestsChanged, id)
	}
	return n, nil
}

// Featured returns the FeaturedLimit most-booked tests, served from cache
// when possible.
func (s *CatalogService) Featured(ctx context.Context) ([]store.Document, error) {
	var cached []store.Document
	if s.cache.Get(ctx, FeaturedKey, &cached) {
		return cached, nil
	}

	all, err := s.tests.All(ctx)
	if err != nil {
		return nil, err
	}
	top := RankFeatured(all, FeaturedLimit)

	if err := s.cache.Set(ctx, FeaturedKey, top, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("featured cache write failed", "error", err)
	}
	return top, nil
}

// RankFeatured stable-sorts tests by bookings descending and keeps the
// first limit. Ties keep storage order.
func RankFeatured(tests []store.Document, limit int) []store.Document {
	ranked := make([]store.Document, len(tests))
	copy(ranked, tests)
	sort.SliceStable(ranked, func(i, j int) bool {
		return models.BookingsCount(ranked[i]) > models.BookingsCount(ranked[j])
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (s *CatalogService) invalidate(ctx context.Context, _ any) {
	if err := s.cache.Forget(ctx, FeaturedKey); err != nil {
		logger.WithCtx(ctx).Warn("featured cache invalidation failed", "error", err)
	}
}
