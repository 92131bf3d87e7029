package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/routes"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/services"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

func tournamentRouter() *mux.Router {
	reg := registry.New()
	tournamentRepo := repositories.NewMemoryTournamentBaseRepository()
	stageRepo := repositories.NewMemoryStageRepository()

	tc := NewTournamentsController(services.NewTournamentService(tournamentRepo, reg))
	sc := NewStagesController(services.NewStageService(stageRepo, tournamentRepo, reg))

	router := mux.NewRouter()
	router.HandleFunc(routes.Tournaments, tc.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Tournaments, tc.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TournamentByID, tc.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TournamentByID, tc.UpdateHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.TournamentCopy, tc.CopyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.TournamentStages, sc.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.TournamentStages, sc.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.StageByID, sc.UpdateHandler).Methods(http.MethodPut)
	return router
}

func TestTournamentAndStageFlow(t *testing.T) {
	router := tournamentRouter()
	sportID := uuid.New()

	rec := doJSON(t, router, http.MethodPost, routes.Tournaments, map[string]any{
		"name":         "Stadtmeisterschaft",
		"sport_id":     sportID,
		"num_entrants": 16,
		"mode":         models.ModePoolAndFinalStage,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tb models.TournamentBase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tb))
	require.Equal(t, models.StateDraft, tb.State)
	require.Zero(t, tb.RowVersion)

	stagesPath := fmt.Sprintf("/api/v1/tournaments/%s/stages", tb.ID)

	rec = doJSON(t, router, http.MethodPost, stagesPath, map[string]any{"number": 0, "num_groups": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	var st models.Stage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, tb.ID, st.TournamentID)

	// stage number 2 does not exist for a two-stage mode
	rec = doJSON(t, router, http.MethodPost, stagesPath, map[string]any{"number": 2, "num_groups": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeValidation, decodeError(t, rec).Code)

	// duplicate stage number for the same tournament
	rec = doJSON(t, router, http.MethodPost, stagesPath, map[string]any{"number": 0, "num_groups": 2})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, utils.ErrCodeDuplicateKey, decodeError(t, rec).Code)

	rec = doJSON(t, router, http.MethodGet, stagesPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stages []models.Stage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages, 1)

	// list requires the sport filter
	rec = doJSON(t, router, http.MethodGet, routes.Tournaments, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("%s?sport_id=%s", routes.Tournaments, sportID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.TournamentBase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestTournamentUpdateConflict(t *testing.T) {
	router := tournamentRouter()
	sportID := uuid.New()

	payload := map[string]any{
		"name":         "Cup",
		"sport_id":     sportID,
		"num_entrants": 8,
	}
	rec := doJSON(t, router, http.MethodPost, routes.Tournaments, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tb models.TournamentBase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tb))

	path := fmt.Sprintf("/api/v1/tournaments/%s", tb.ID)
	payload["num_entrants"] = 12
	payload["row_version"] = 0
	rec = doJSON(t, router, http.MethodPut, path, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	payload["num_entrants"] = 10
	rec = doJSON(t, router, http.MethodPut, path, payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, utils.ErrCodeRowVersionConflict, decodeError(t, rec).Code)
}
