package controllers

import (
	"net/http"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/app"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/dtos"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if c.app.DB != nil {
		if err := c.app.DB.Ping(r.Context()); err != nil {
			utils.Logger.WithError(err).Error("DB unreachable")
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK", Store: "postgres"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK", Store: "memory"})
}
