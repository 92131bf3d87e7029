package dtos

import (
	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
)

type SaveTournamentRequest struct {
	Name        string                 `json:"name" validate:"required"`
	SportID     uuid.UUID              `json:"sport_id" validate:"required"`
	NumEntrants int                    `json:"num_entrants" validate:"required,min=2"`
	Type        models.TournamentType  `json:"type"`
	Mode        models.TournamentMode  `json:"mode"`
	NumRounds   int                    `json:"num_rounds"`
	State       models.TournamentState `json:"state"`
	ActiveStage int                    `json:"active_stage"`
	RowVersion  int64                  `json:"row_version"`
}

func (r *SaveTournamentRequest) ToModel(id uuid.UUID) *models.TournamentBase {
	t := &models.TournamentBase{
		ID:          id,
		Name:        r.Name,
		SportID:     r.SportID,
		NumEntrants: r.NumEntrants,
		Type:        r.Type,
		Mode:        r.Mode,
		NumRounds:   r.NumRounds,
		State:       r.State,
		ActiveStage: r.ActiveStage,
	}
	t.SetRowVersion(r.RowVersion)
	return t
}

type SaveStageRequest struct {
	Number     int   `json:"number"`
	NumGroups  int   `json:"num_groups"`
	RowVersion int64 `json:"row_version"`
}

func (r *SaveStageRequest) ToModel(id, tournamentID uuid.UUID) *models.Stage {
	s := &models.Stage{
		ID:           id,
		TournamentID: tournamentID,
		Number:       r.Number,
		NumGroups:    r.NumGroups,
	}
	s.SetRowVersion(r.RowVersion)
	return s
}
