package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// SportConfig holds the sport-specific configuration document of one sport.
// The uniqueness key is (sport_id, name).
type SportConfig struct {
	ID uuid.UUID `json:"id"`
	Versioned
	SportID   uuid.UUID       `json:"sport_id"`
	Name      string          `json:"name"`
	Config    json.RawMessage `json:"config"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *SportConfig) GetID() string { return s.ID.String() }

func (s *SportConfig) Normalize() {
	s.Name = utils.NormalizeWS(s.Name)
	if len(s.Config) == 0 {
		s.Config = json.RawMessage(`{}`)
	}
}

func (s *SportConfig) Validate() error {
	var errs utils.ValidationErrors

	if s.Name == "" {
		errs.Add(utils.NewFieldError("name", utils.FieldCodeRequired, ""))
	}
	if s.SportID == uuid.Nil {
		errs.Add(utils.NewFieldError("sport_id", utils.FieldCodeRequired, ""))
	}

	// the config document must be a JSON object; a decode of the literal
	// null succeeds but leaves the map nil, so that is checked separately
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(s.Config, &doc); err != nil || doc == nil {
		errs.Add(utils.NewFieldError("config", utils.FieldCodeInvalidFormat,
			"config must be a JSON object"))
	}

	return errs.OrNil()
}

func (s *SportConfig) UniquenessKey() map[string]string {
	return map[string]string{
		"sport_id": s.SportID.String(),
		"name":     s.Name,
	}
}

func (s *SportConfig) Copy() *SportConfig {
	cfg := make(json.RawMessage, len(s.Config))
	copy(cfg, s.Config)
	return &SportConfig{
		SportID: s.SportID,
		Name:    s.Name,
		Config:  cfg,
	}
}
