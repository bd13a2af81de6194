package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gridbase/backend/internal/models"
)

// SavedQueryRepository keeps saved grid views in memory. Queries only live
// for the server's lifetime; the grid itself stays stateless.
type SavedQueryRepository struct {
	mu      sync.RWMutex
	queries map[uuid.UUID]models.SavedQuery
}

func NewSavedQueryRepository() *SavedQueryRepository {
	return &SavedQueryRepository{
		queries: make(map[uuid.UUID]models.SavedQuery),
	}
}

func (r *SavedQueryRepository) Create(q models.SavedQuery) models.SavedQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries[q.ID] = q
	return q
}

func (r *SavedQueryRepository) GetByID(id uuid.UUID) (models.SavedQuery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queries[id]
	if !ok {
		return models.SavedQuery{}, fmt.Errorf("saved query %s not found", id)
	}
	return q, nil
}

func (r *SavedQueryRepository) List() []models.SavedQuery {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.SavedQuery, 0, len(r.queries))
	for _, q := range r.queries {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
