package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// seedSportID keys the seeded sport config and tournament to one sport.
var seedSportID = uuid.MustParse("7b1c2a44-9c3e-4f5d-8a26-0d9f6c1e5b10")

// SeedTestData loads a small fixed data set so a fresh instance has
// something to click through. Enabled via SEED_TEST_DATA=true.
func SeedTestData(
	ctx context.Context,
	addresses repositories.PostalAddressRepository,
	sportConfigs repositories.SportConfigRepository,
	tournaments repositories.TournamentBaseRepository,
	stages repositories.StageRepository,
) error {
	seedAddresses := []*models.PostalAddress{
		{
			Name:       "Sporthalle Nord",
			Street:     "Ballspielweg 3",
			PostalCode: "24145",
			Locality:   "Kiel",
			Country:    "DE",
		},
		{
			Name:       "Vereinsheim TSV",
			Street:     "Am Sportplatz 1",
			PostalCode: "54321",
			Locality:   "Musterstadt",
			Region:     "Schleswig-Holstein",
			Country:    "DE",
		},
	}
	for _, a := range seedAddresses {
		a.Normalize()
		if err := addresses.Create(ctx, a); err != nil {
			return err
		}
	}

	cfg := &models.SportConfig{
		SportID: seedSportID,
		Name:    "Tischtennis Standard",
		Config:  json.RawMessage(`{"sets_to_win":3,"points_per_set":11}`),
	}
	if err := sportConfigs.Create(ctx, cfg); err != nil {
		return err
	}

	t := &models.TournamentBase{
		Name:        "Stadtmeisterschaft",
		SportID:     seedSportID,
		NumEntrants: 16,
		Mode:        models.ModePoolAndFinalStage,
	}
	t.Normalize()
	if err := tournaments.Create(ctx, t); err != nil {
		return err
	}

	st := &models.Stage{TournamentID: t.ID, Number: 0, NumGroups: 4}
	if err := stages.Create(ctx, st); err != nil {
		return err
	}

	utils.Logger.Infof("Seeded %d addresses, 1 sport config, 1 tournament, 1 stage", len(seedAddresses))
	return nil
}
