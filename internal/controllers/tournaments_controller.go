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

type TournamentsController struct {
	tournamentService *services.TournamentService
}

func NewTournamentsController(s *services.TournamentService) *TournamentsController {
	return &TournamentsController{tournamentService: s}
}

var tournamentValidate = validator.New()

// POST /api/v1/tournaments
func (c *TournamentsController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := tournamentValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.tournamentService.Create(r.Context(), req.ToModel(uuid.Nil))
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GET /api/v1/tournaments/{id}
func (c *TournamentsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	t, err := c.tournamentService.Get(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// GET /api/v1/tournaments?sport_id=&name=&limit=
func (c *TournamentsController) ListHandler(w http.ResponseWriter, r *http.Request) {
	sportID, ok := sportFilter(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing or invalid sport_id", nil)
		return
	}
	nameFilter, limit := listParams(r)
	ts, err := c.tournamentService.ListBySport(r.Context(), sportID, nameFilter, limit)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ts)
}

// PUT /api/v1/tournaments/{id}
func (c *TournamentsController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	var req dtos.SaveTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := tournamentValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.tournamentService.Update(r.Context(), req.ToModel(id), req.RowVersion)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// POST /api/v1/tournaments/{id}/copy
func (c *TournamentsController) CopyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	copied, err := c.tournamentService.Copy(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, copied)
}
