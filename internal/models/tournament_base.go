package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// TournamentType distinguishes planned from spontaneous tournaments.
type TournamentType string

const (
	TournamentScheduled TournamentType = "SCHEDULED"
	TournamentAdhoc     TournamentType = "ADHOC"
)

// TournamentMode selects the stage structure of a tournament. Swiss system
// additionally carries the number of rounds in TournamentBase.NumRounds.
type TournamentMode string

const (
	ModeSingleStage                TournamentMode = "SINGLE_STAGE"
	ModePoolAndFinalStage          TournamentMode = "POOL_AND_FINAL_STAGE"
	ModeTwoPoolStagesAndFinalStage TournamentMode = "TWO_POOL_STAGES_AND_FINAL_STAGE"
	ModeSwissSystem                TournamentMode = "SWISS_SYSTEM"
)

// TournamentState is the lifecycle state. ActiveStage carries the running
// stage index in TournamentBase.ActiveStage.
type TournamentState string

const (
	StateDraft       TournamentState = "DRAFT"
	StatePublished   TournamentState = "PUBLISHED"
	StateActiveStage TournamentState = "ACTIVE_STAGE"
	StateFinished    TournamentState = "FINISHED"
)

// TournamentBase holds the base parameters of a tournament. The uniqueness
// key is (sport_id, name).
type TournamentBase struct {
	ID uuid.UUID `json:"id"`
	Versioned
	Name        string          `json:"name"`
	SportID     uuid.UUID       `json:"sport_id"`
	NumEntrants int             `json:"num_entrants"`
	Type        TournamentType  `json:"type"`
	Mode        TournamentMode  `json:"mode"`
	NumRounds   int             `json:"num_rounds,omitempty"`
	State       TournamentState `json:"state"`
	ActiveStage int             `json:"active_stage,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *TournamentBase) GetID() string { return t.ID.String() }

// MaxStages returns the number of stages the mode allows. In the Swiss
// system each round is a stage.
func (t *TournamentBase) MaxStages() int {
	switch t.Mode {
	case ModePoolAndFinalStage:
		return 2
	case ModeTwoPoolStagesAndFinalStage:
		return 3
	case ModeSwissSystem:
		return t.NumRounds
	default:
		return 1
	}
}

// StageName returns the display name of the stage with the given number, or
// "" if the number exceeds the mode's stage count.
func (t *TournamentBase) StageName(number int) string {
	switch t.Mode {
	case ModeSingleStage:
		if number == 0 {
			return "Single Stage"
		}
	case ModePoolAndFinalStage:
		switch number {
		case 0:
			return "Pool Stage"
		case 1:
			return "Final Stage"
		}
	case ModeTwoPoolStagesAndFinalStage:
		switch number {
		case 0:
			return "First Pool Stage"
		case 1:
			return "Second Pool Stage"
		case 2:
			return "Final Stage"
		}
	case ModeSwissSystem:
		if number < t.NumRounds {
			return "Swiss System"
		}
	}
	return ""
}

func (t *TournamentBase) Normalize() {
	t.Name = utils.NormalizeWS(t.Name)
	if t.Type == "" {
		t.Type = TournamentScheduled
	}
	if t.Mode == "" {
		t.Mode = ModeSingleStage
	}
	if t.State == "" {
		t.State = StateDraft
	}
}

func (t *TournamentBase) Validate() error {
	var errs utils.ValidationErrors

	if t.Name == "" {
		errs.Add(utils.NewFieldError("name", utils.FieldCodeRequired, ""))
	}
	if t.SportID == uuid.Nil {
		errs.Add(utils.NewFieldError("sport_id", utils.FieldCodeRequired, ""))
	}
	if t.NumEntrants < 2 {
		errs.Add(utils.NewFieldError("num_entrants", utils.FieldCodeOutOfRange,
			"number of entrants must be at least 2"))
	}
	if t.Mode == ModeSwissSystem && t.NumRounds < 1 {
		errs.Add(utils.NewFieldError("num_rounds", utils.FieldCodeOutOfRange,
			"number of rounds must be > 0"))
	}
	if t.ActiveStage < 0 {
		errs.Add(utils.NewFieldError("active_stage", utils.FieldCodeOutOfRange,
			"active stage must not be negative"))
	} else if t.State == StateActiveStage && t.ActiveStage >= t.MaxStages() {
		errs.Add(utils.NewFieldError("active_stage", utils.FieldCodeOutOfRange,
			"active stage exceeds maximum number of stages for the tournament mode"))
	}

	return errs.OrNil()
}

func (t *TournamentBase) UniquenessKey() map[string]string {
	return map[string]string{
		"sport_id": t.SportID.String(),
		"name":     t.Name,
	}
}

// Copy seeds a new tournament from t's field values. Copies always start
// over as drafts.
func (t *TournamentBase) Copy() *TournamentBase {
	return &TournamentBase{
		Name:        t.Name,
		SportID:     t.SportID,
		NumEntrants: t.NumEntrants,
		Type:        t.Type,
		Mode:        t.Mode,
		NumRounds:   t.NumRounds,
		State:       StateDraft,
	}
}
