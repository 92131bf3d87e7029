package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// Stage is one stage of a tournament. The uniqueness key is
// (tournament_id, number).
type Stage struct {
	ID uuid.UUID `json:"id"`
	Versioned
	TournamentID uuid.UUID `json:"tournament_id"`
	Number       int       `json:"number"`
	NumGroups    int       `json:"num_groups"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Stage) GetID() string { return s.ID.String() }

func (s *Stage) Normalize() {
	if s.NumGroups == 0 {
		s.NumGroups = 1
	}
}

// Validate checks the stage against its owning tournament: the stage number
// must fit the tournament's mode, and every group needs at least two
// entrants.
func (s *Stage) Validate(tournament *TournamentBase) error {
	var errs utils.ValidationErrors

	if s.TournamentID == uuid.Nil {
		errs.Add(utils.NewFieldError("tournament_id", utils.FieldCodeRequired, ""))
	}

	maxStages := tournament.MaxStages()
	if s.Number < 0 || s.Number >= maxStages {
		errs.Add(utils.NewFieldError("number", utils.FieldCodeOutOfRange,
			fmt.Sprintf("stage number %d exceeds maximum allowed stages (%d) for mode %s",
				s.Number, maxStages, tournament.Mode)))
	}

	if s.NumGroups < 1 {
		errs.Add(utils.NewFieldError("num_groups", utils.FieldCodeOutOfRange,
			"number of groups must be at least 1"))
	} else if s.NumGroups*2 > tournament.NumEntrants {
		errs.Add(utils.NewFieldError("num_groups", utils.FieldCodeOutOfRange,
			fmt.Sprintf("%d groups need at least %d entrants, tournament has %d",
				s.NumGroups, s.NumGroups*2, tournament.NumEntrants)))
	}

	return errs.OrNil()
}

func (s *Stage) UniquenessKey() map[string]string {
	return map[string]string{
		"tournament_id": s.TournamentID.String(),
		"number":        fmt.Sprintf("%d", s.Number),
	}
}
