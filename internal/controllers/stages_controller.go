package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/dtos"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/services"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type StagesController struct {
	stageService *services.StageService
}

func NewStagesController(s *services.StageService) *StagesController {
	return &StagesController{stageService: s}
}

var stageValidate = validator.New()

func tournamentID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["tid"])
	return id, err == nil && id != uuid.Nil
}

// POST /api/v1/tournaments/{tid}/stages
func (c *StagesController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	tid, ok := tournamentID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid tournament id", nil)
		return
	}
	var req dtos.SaveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := stageValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.stageService.Create(r.Context(), req.ToModel(uuid.Nil, tid))
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GET /api/v1/tournaments/{tid}/stages
func (c *StagesController) ListHandler(w http.ResponseWriter, r *http.Request) {
	tid, ok := tournamentID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid tournament id", nil)
		return
	}
	stages, err := c.stageService.ListByTournament(r.Context(), tid)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stages)
}

// GET /api/v1/stages/{id}
func (c *StagesController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	st, err := c.stageService.Get(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, st)
}

// PUT /api/v1/stages/{id}
func (c *StagesController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	var req dtos.SaveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := stageValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	current, err := c.stageService.Get(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	saved, err := c.stageService.Update(r.Context(), req.ToModel(id, current.TournamentID), req.RowVersion)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}
