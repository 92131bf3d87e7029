package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/dtos"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/services"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type PostalAddressesController struct {
	addressService *services.PostalAddressService
}

func NewPostalAddressesController(s *services.PostalAddressService) *PostalAddressesController {
	return &PostalAddressesController{addressService: s}
}

var addressValidate = validator.New()

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil && id != uuid.Nil
}

// listParams reads the optional ?name= filter and ?limit= cap.
func listParams(r *http.Request) (string, int) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return q.Get("name"), limit
}

// POST /api/v1/addresses
func (c *PostalAddressesController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SavePostalAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := addressValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.addressService.Create(r.Context(), req.ToModel(uuid.Nil))
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GET /api/v1/addresses/{id}
func (c *PostalAddressesController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	addr, err := c.addressService.Get(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, addr)
}

// GET /api/v1/addresses?name=&limit=
func (c *PostalAddressesController) ListHandler(w http.ResponseWriter, r *http.Request) {
	nameFilter, limit := listParams(r)
	addrs, err := c.addressService.List(r.Context(), nameFilter, limit)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, addrs)
}

// PUT /api/v1/addresses/{id}
func (c *PostalAddressesController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	var req dtos.SavePostalAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := addressValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing required fields", nil, err)
		return
	}
	saved, err := c.addressService.Update(r.Context(), req.ToModel(id), req.RowVersion)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// POST /api/v1/addresses/{id}/copy
func (c *PostalAddressesController) CopyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	copied, err := c.addressService.Copy(r.Context(), id)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, copied)
}

// DELETE /api/v1/addresses/{id}
func (c *PostalAddressesController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid id", nil)
		return
	}
	if err := c.addressService.SoftDelete(r.Context(), id); err != nil {
		respondSaveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
