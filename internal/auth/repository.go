package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/store"
)

// Repository defines account lookups.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

// MemoryRepository serves the seeded accounts.
type MemoryRepository struct {
	latency store.Latency

	mu      sync.RWMutex
	byEmail map[string]User
	byID    map[string]User
}

// NewMemoryRepository constructs a repository over seeded accounts.
func NewMemoryRepository(seed []User, latency store.Latency) *MemoryRepository {
	byEmail := make(map[string]User, len(seed))
	byID := make(map[string]User, len(seed))
	for _, u := range seed {
		byEmail[strings.ToLower(u.Email)] = u
		byID[u.ID] = u
	}
	return &MemoryRepository{latency: latency, byEmail: byEmail, byID: byID}
}

// FindByEmail returns the account registered under email, case-insensitively.
func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	u, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	r.mu.RUnlock()
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", email, httpx.ErrNotFound)
	}
	return u, nil
}

// FindByID returns the account by id.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (User, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	u, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", id, httpx.ErrNotFound)
	}
	return u, nil
}
