package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/dtos"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/services"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type SportConfigsController struct {
	configService *services.SportConfigService
}

func NewSportConfigsController(s *services.SportConfigService) *SportConfigsController {
	return &SportConfigsController{configService: s}
}

var sportConfigValidate = validator.New()

// sportFilter reads the required ?sport_id= of list requests.
func sportFilter(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("sport_id"))
	return id, err == nil && id != uuid.Nil
}

// POST /api/v1/sport-configs
func (c *SportConfigsController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveSportConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := sportConfigValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.configService.Create(r.Context(), req.ToModel(uuid.Nil))
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GET /api/v1/sport-configs/{id}
func (c *SportConfigsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	cfg, err := c.configService.Get(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

// GET /api/v1/sport-configs?sport_id=&name=&limit=
func (c *SportConfigsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	sportID, ok := sportFilter(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing or invalid sport_id", nil)
		return
	}
	nameFilter, limit := listParams(r)
	cfgs, err := c.configService.ListBySport(r.Context(), sportID, nameFilter, limit)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfgs)
}

// PUT /api/v1/sport-configs/{id}
func (c *SportConfigsController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	var req dtos.SaveSportConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := sportConfigValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.configService.Update(r.Context(), req.ToModel(id), req.RowVersion)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// POST /api/v1/sport-configs/{id}/copy
func (c *SportConfigsController) CopyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	copied, err := c.configService.Copy(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, copied)
}
