package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/app"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/config"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/controllers"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/routes"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/services"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize app:", err)
	}
	defer application.Close()

	// Repositories
	var (
		addressRepo     repositories.PostalAddressRepository
		sportConfigRepo repositories.SportConfigRepository
		tournamentRepo  repositories.TournamentBaseRepository
		stageRepo       repositories.StageRepository
	)
	if application.DB != nil {
		addressRepo = repositories.NewPostalAddressRepository(application.DB)
		sportConfigRepo = repositories.NewSportConfigRepository(application.DB)
		tournamentRepo = repositories.NewTournamentBaseRepository(application.DB)
		stageRepo = repositories.NewStageRepository(application.DB)
	} else {
		addressRepo = repositories.NewMemoryPostalAddressRepository()
		sportConfigRepo = repositories.NewMemorySportConfigRepository()
		tournamentRepo = repositories.NewMemoryTournamentBaseRepository()
		stageRepo = repositories.NewMemoryStageRepository()
	}

	if cfg.SeedTestData {
		if err := app.SeedTestData(context.Background(), addressRepo, sportConfigRepo, tournamentRepo, stageRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	addressService := services.NewPostalAddressService(addressRepo, application.Registry)
	sportConfigService := services.NewSportConfigService(sportConfigRepo, application.Registry)
	tournamentService := services.NewTournamentService(tournamentRepo, application.Registry)
	stageService := services.NewStageService(stageRepo, tournamentRepo, application.Registry)

	// Controllers
	healthController := controllers.NewHealthController(application)
	addressesController := controllers.NewPostalAddressesController(addressService)
	sportConfigsController := controllers.NewSportConfigsController(sportConfigService)
	tournamentsController := controllers.NewTournamentsController(tournamentService)
	stagesController := controllers.NewStagesController(stageService)

	// Router setup
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Addresses, addressesController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Addresses, addressesController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AddressByID, addressesController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AddressByID, addressesController.UpdateHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.AddressByID, addressesController.DeleteHandler).Methods(http.MethodDelete)
	router.HandleFunc(routes.AddressCopy, addressesController.CopyHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.SportConfigs, sportConfigsController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.SportConfigs, sportConfigsController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.SportConfigByID, sportConfigsController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.SportConfigByID, sportConfigsController.UpdateHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.SportConfigCopy, sportConfigsController.CopyHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.Tournaments, tournamentsController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Tournaments, tournamentsController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TournamentByID, tournamentsController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TournamentByID, tournamentsController.UpdateHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.TournamentCopy, tournamentsController.CopyHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.TournamentStages, stagesController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.TournamentStages, stagesController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.StageByID, stagesController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.StageByID, stagesController.UpdateHandler).Methods(http.MethodPut)

	router.HandleFunc(routes.Subscribe, registry.Serve(application.Registry)).Methods(http.MethodGet)

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
