package dtos

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
)

type SaveSportConfigRequest struct {
	SportID    uuid.UUID       `json:"sport_id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Config     json.RawMessage `json:"config" validate:"required"`
	RowVersion int64           `json:"row_version"`
}

func (r *SaveSportConfigRequest) ToModel(id uuid.UUID) *models.SportConfig {
	s := &models.SportConfig{
		ID:      id,
		SportID: r.SportID,
		Name:    r.Name,
		Config:  r.Config,
	}
	s.SetRowVersion(r.RowVersion)
	return s
}
