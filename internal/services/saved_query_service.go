package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gridbase/backend/internal/models"
	"github.com/gridbase/backend/internal/repositories"
)

// SavedQueryService turns the current grid state into reusable query text
// and keeps the saved results. The text is regenerated by re-planning and
// re-rendering the structured plan, so it always matches what the grid
// would execute for that state.
type SavedQueryService struct {
	grid *GridService
	repo *repositories.SavedQueryRepository
}

func NewSavedQueryService(grid *GridService, repo *repositories.SavedQueryRepository) *SavedQueryService {
	return &SavedQueryService{grid: grid, repo: repo}
}

// BuildQueryText regenerates the literal query text for a grid state.
func (s *SavedQueryService) BuildQueryText(ctx context.Context, req FetchPageRequest) (string, error) {
	plan, _, err := s.grid.Plan(ctx, &req)
	if err != nil {
		return "", err
	}
	return plan.Text(), nil
}

// Save captures a grid state under a caller-supplied name.
func (s *SavedQueryService) Save(ctx context.Context, name string, req FetchPageRequest) (models.SavedQuery, error) {
	text, err := s.BuildQueryText(ctx, req)
	if err != nil {
		return models.SavedQuery{}, err
	}
	return s.repo.Create(models.SavedQuery{
		ID:        uuid.New(),
		Name:      name,
		Schema:    req.Table.Schema,
		Table:     req.Table.Table,
		QueryText: text,
		CreatedAt: time.Now().UTC(),
	}), nil
}

func (s *SavedQueryService) Get(id uuid.UUID) (models.SavedQuery, error) {
	return s.repo.GetByID(id)
}

func (s *SavedQueryService) List() []models.SavedQuery {
	return s.repo.List()
}
