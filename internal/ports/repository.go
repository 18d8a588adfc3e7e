package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/store"
)

// Repository exposes read access to the port reference data.
type Repository interface {
	List(ctx context.Context) ([]Port, error)
	Get(ctx context.Context, code string) (Port, error)
	Search(ctx context.Context, term string) ([]Port, error)
}

// MemoryRepository serves the seeded port list.
type MemoryRepository struct {
	latency store.Latency
	ports   []Port
	byCode  map[string]Port
}

// NewMemoryRepository builds a repository over the given seed set.
func NewMemoryRepository(seed []Port, latency store.Latency) *MemoryRepository {
	byCode := make(map[string]Port, len(seed))
	for _, p := range seed {
		byCode[strings.ToUpper(p.Code)] = p
	}
	return &MemoryRepository{latency: latency, ports: seed, byCode: byCode}
}

// List returns every known port.
func (r *MemoryRepository) List(ctx context.Context) ([]Port, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	out := make([]Port, len(r.ports))
	copy(out, r.ports)
	return out, nil
}

// Get looks a port up by its code.
func (r *MemoryRepository) Get(ctx context.Context, code string) (Port, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Port{}, err
	}
	p, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Port{}, fmt.Errorf("port %s: %w", code, httpx.ErrNotFound)
	}
	return p, nil
}

// Search matches ports whose name or code contains the term,
// case-insensitively.
func (r *MemoryRepository) Search(ctx context.Context, term string) ([]Port, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]Port, len(r.ports))
		copy(out, r.ports)
		return out, nil
	}
	var out []Port
	for _, p := range r.ports {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Code), term) {
			out = append(out, p)
		}
	}
	return out, nil
}
