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

type TournamentService struct {
	repo repositories.TournamentBaseRepository
	pub  registry.Publisher
}

func NewTournamentService(repo repositories.TournamentBaseRepository, pub registry.Publisher) *TournamentService {
	return &TournamentService{repo: repo, pub: pub}
}

func (s *TournamentService) Create(ctx context.Context, draft *models.TournamentBase) (*models.TournamentBase, error) {
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

func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (*models.TournamentBase, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TournamentService) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.TournamentBase, error) {
	return s.repo.ListBySport(ctx, sportID, nameFilter, limit)
}

func (s *TournamentService) Update(ctx context.Context, draft *models.TournamentBase, expected int64) (*models.TournamentBase, error) {
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

// Copy clones a tournament as a fresh draft: new id, version 0, state reset
// to DRAFT, and a new name clear of the source's (sport_id, name) key.
func (s *TournamentService) Copy(ctx context.Context, id uuid.UUID) (*models.TournamentBase, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := src.Copy()
	draft.Name = utils.NormalizeWS(draft.Name + " (copy)")
	return s.Create(ctx, draft)
}

func (s *TournamentService) notify(t *models.TournamentBase) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(registry.Notice{Kind: registry.KindTournamentBase, ID: t.ID, Version: t.RowVersion})
}
