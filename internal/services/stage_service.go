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

// StageService validates stages against their owning tournament before any
// write, so a stage can never outgrow its tournament's mode or entrant count.
type StageService struct {
	repo        repositories.StageRepository
	tournaments repositories.TournamentBaseRepository
	pub         registry.Publisher
}

func NewStageService(
	repo repositories.StageRepository,
	tournaments repositories.TournamentBaseRepository,
	pub registry.Publisher,
) *StageService {
	return &StageService{repo: repo, tournaments: tournaments, pub: pub}
}

func (s *StageService) validate(ctx context.Context, draft *models.Stage) error {
	draft.Normalize()
	if draft.TournamentID == uuid.Nil {
		var errs utils.ValidationErrors
		errs.Add(utils.NewFieldError("tournament_id", utils.FieldCodeRequired, ""))
		return &errs
	}
	tournament, err := s.tournaments.GetByID(ctx, draft.TournamentID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			var errs utils.ValidationErrors
			errs.Add(utils.NewFieldError("tournament_id", utils.FieldCodeInvalidFormat, "tournament does not exist"))
			return &errs
		}
		return err
	}
	return draft.Validate(tournament)
}

func (s *StageService) Create(ctx context.Context, draft *models.Stage) (*models.Stage, error) {
	if err := s.validate(ctx, draft); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	s.notify(draft)
	return draft, nil
}

func (s *StageService) Get(ctx context.Context, id uuid.UUID) (*models.Stage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *StageService) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Stage, error) {
	return s.repo.ListByTournament(ctx, tournamentID)
}

func (s *StageService) Update(ctx context.Context, draft *models.Stage, expected int64) (*models.Stage, error) {
	if err := s.validate(ctx, draft); err != nil {
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

func (s *StageService) notify(st *models.Stage) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(registry.Notice{Kind: registry.KindStage, ID: st.ID, Version: st.RowVersion})
}
