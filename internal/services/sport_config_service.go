package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type SportConfigService struct {
	repo repositories.SportConfigRepository
	pub  registry.Publisher
}

func NewSportConfigService(repo repositories.SportConfigRepository, pub registry.Publisher) *SportConfigService {
	return &SportConfigService{repo: repo, pub: pub}
}

func (s *SportConfigService) Create(ctx context.Context, draft *models.SportConfig) (*models.SportConfig, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	s.notify(draft)
	return draft, nil
}

func (s *SportConfigService) Get(ctx context.Context, id uuid.UUID) (*models.SportConfig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SportConfigService) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.SportConfig, error) {
	return s.repo.ListBySport(ctx, sportID, nameFilter, limit)
}

func (s *SportConfigService) Update(ctx context.Context, draft *models.SportConfig, expected int64) (*models.SportConfig, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	tag, err := s.repo.UpdateIfVersion(ctx, draft, expected)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		current, gerr := s.repo.GetByID(ctx, draft.ID)
		if gerr != nil {
			if errors.Is(gerr, utils.ErrNotFound) {
				return nil, utils.ErrNotFound
			}
			return nil, gerr
		}
		return nil, &utils.ConflictError{CurrentVersion: current.RowVersion, Current: current}
	}
	s.notify(draft)
	return draft, nil
}

// Copy clones a config under a new name so it does not collide with the
// source's (sport_id, name) key.
func (s *SportConfigService) Copy(ctx context.Context, id uuid.UUID) (*models.SportConfig, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := src.Copy()
	draft.Name = utils.NormalizeWS(draft.Name + " (copy)")
	return s.Create(ctx, draft)
}

func (s *SportConfigService) notify(c *models.SportConfig) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(registry.Notice{Kind: registry.KindSportConfig, ID: c.ID, Version: c.RowVersion})
}
