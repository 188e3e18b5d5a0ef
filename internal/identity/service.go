// Package identity resolves user display data for notification stamping and
// platform-wide fan-out, with a short-lived read-through cache.
package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Repository is the backing user store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service caches user lookups with a TTL. Concurrent misses for the same user
// collapse into a single repository call.
type Service struct {
	repo  Repository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedUser
}

type cachedUser struct {
	user      models.UserPublic
	expiresAt time.Time
}

// NewService creates an identity service with the given cache TTL.
func NewService(repo Repository, ttl time.Duration) *Service {
	return NewServiceWithClock(repo, ttl, time.Now)
}

// NewServiceWithClock allows deterministic cache expiry in tests.
func NewServiceWithClock(repo Repository, ttl time.Duration, clock func() time.Time) *Service {
	return &Service{
		repo:  repo,
		ttl:   ttl,
		clock: clock,
		cache: make(map[uuid.UUID]cachedUser),
	}
}

// GetUser returns the public projection of a user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.UserPublic, error) {
	now := s.clock()

	s.mu.RLock()
	if entry, ok := s.cache[id]; ok && entry.expiresAt.After(now) {
		s.mu.RUnlock()
		u := entry.user
		return &u, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do(id.String(), func() (interface{}, error) {
		user, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		pub := user.ToPublic()
		s.mu.Lock()
		s.cache[id] = cachedUser{user: pub, expiresAt: s.clock().Add(s.ttl)}
		s.mu.Unlock()
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	u := result.(models.UserPublic)
	return &u, nil
}

// ListIDs returns all registered user IDs. Not cached: it feeds rare
// platform-wide announcements, not per-request stamping.
func (s *Service) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDs(ctx)
}
