// Package controllers exposes the HTTP surface. Save failures map onto the
// wire taxonomy: validation_error (400), row_version_conflict (409, details
// carry the winner's version and snapshot), duplicate_key (409, details
// carry the colliding fields), not_found (404), internal_server_error (500).
package controllers

import (
	"errors"
	"net/http"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type conflictDetails struct {
	CurrentVersion int64 `json:"current_version"`
	Current        any   `json:"current"`
}

type duplicateDetails struct {
	Fields map[string]string `json:"fields"`
}

func respondSaveError(w http.ResponseWriter, err error) {
	var ve *utils.ValidationErrors
	var conflict *utils.ConflictError
	var dup *utils.DuplicateKeyError
	switch {
	case errors.As(err, &ve):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", ve.Errors)
	case errors.As(err, &conflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"Saved by someone else in the meantime", conflictDetails{
				CurrentVersion: conflict.CurrentVersion,
				Current:        conflict.Current,
			})
	case errors.As(err, &dup):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateKey,
			"A record with these values already exists", duplicateDetails{Fields: dup.Fields})
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Record not found", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"An unexpected error occurred", nil, err)
	}
}
