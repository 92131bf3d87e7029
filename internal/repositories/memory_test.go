package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

func testAddress(name string) *models.PostalAddress {
	return &models.PostalAddress{
		Name:       name,
		Street:     "Ballspielweg 3",
		PostalCode: "24145",
		Locality:   "Kiel",
		Country:    "DE",
	}
}

func TestMemoryCreateAssignsIdentity(t *testing.T) {
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(context.Background(), a))
	require.NotEmpty(t, a.ID)
	require.Zero(t, a.GetRowVersion())

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Name, got.Name)
}

func TestMemoryVersionIncrementsByOne(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(ctx, a))

	for expected := int64(0); expected < 5; expected++ {
		a.Street = "Neue Straße"
		tag, err := repo.UpdateIfVersion(ctx, a, expected)
		require.NoError(t, err)
		require.EqualValues(t, 1, tag.RowsAffected())
		require.Equal(t, expected+1, a.GetRowVersion())
	}
}

func TestMemoryUpdateKeepsServerTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(ctx, a))
	require.False(t, a.CreatedAt.IsZero())
	created := a.CreatedAt

	// an incoming update payload never carries timestamps
	update := testAddress("Sporthalle Nord")
	update.ID = a.ID
	update.Street = "Neue Straße"
	tag, err := repo.UpdateIfVersion(ctx, update, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())

	require.Equal(t, created, update.CreatedAt)
	require.False(t, update.UpdatedAt.IsZero())
	require.False(t, update.UpdatedAt.Before(created))
}

func TestMemoryStaleVersionLoses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(ctx, a))

	winner := *a
	winner.Name = "B"
	tag, err := repo.UpdateIfVersion(ctx, &winner, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())

	loser := *a
	loser.Name = "A"
	tag, err = repo.UpdateIfVersion(ctx, &loser, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, tag.RowsAffected())

	current, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "B", current.Name)
	require.EqualValues(t, 1, current.GetRowVersion())
}

func TestMemoryConcurrentUpdateExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(ctx, a))

	const writers = 8
	var (
		start sync.WaitGroup
		done  sync.WaitGroup
		mu    sync.Mutex
		wins  int
	)
	start.Add(1)
	for i := 0; i < writers; i++ {
		done.Add(1)
		go func(n int) {
			defer done.Done()
			draft := *a
			draft.Street = "Straße Nr."
			start.Wait()
			tag, err := repo.UpdateIfVersion(ctx, &draft, 0)
			if err != nil {
				return
			}
			if tag.RowsAffected() == 1 {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	start.Done()
	done.Wait()

	require.Equal(t, 1, wins)
	current, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, current.GetRowVersion())
}

func TestMemoryDuplicateKeyOnCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	require.NoError(t, repo.Create(ctx, testAddress("Sporthalle Nord")))

	dup := testAddress("Sporthalle Nord")
	dup.Street = "Andere Straße 9"
	err := repo.Create(ctx, dup)

	var dke *utils.DuplicateKeyError
	require.ErrorAs(t, err, &dke)
	require.Equal(t, map[string]string{
		"name":             "Sporthalle Nord",
		"postal_code":      "24145",
		"address_locality": "Kiel",
	}, dke.Fields)
}

func TestMemoryDuplicateKeyOnUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	first := testAddress("Sporthalle Nord")
	second := testAddress("Vereinsheim TSV")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	second.Name = "Sporthalle Nord"
	_, err := repo.UpdateIfVersion(ctx, second, 0)
	var dke *utils.DuplicateKeyError
	require.ErrorAs(t, err, &dke)
}

func TestMemorySoftDeleteFreesUniquenessKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	a := testAddress("Sporthalle Nord")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.SoftDelete(ctx, a.ID))

	_, err := repo.GetByID(ctx, a.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)

	// deleting again reports not found
	require.ErrorIs(t, repo.SoftDelete(ctx, a.ID), utils.ErrNotFound)

	// a deleted row neither blocks new rows nor accepts updates
	require.NoError(t, repo.Create(ctx, testAddress("Sporthalle Nord")))
	tag, err := repo.UpdateIfVersion(ctx, a, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, tag.RowsAffected())
}

func TestMemoryListFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostalAddressRepository()
	for _, name := range []string{"Sporthalle Nord", "Sporthalle Süd", "Vereinsheim TSV"} {
		a := testAddress(name)
		a.Locality = "Kiel " + name
		require.NoError(t, repo.Create(ctx, a))
	}

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	halls, err := repo.List(ctx, "sporthalle", 0)
	require.NoError(t, err)
	require.Len(t, halls, 2)
	require.Equal(t, "Sporthalle Nord", halls[0].Name)

	limited, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestMemoryStageRepoKeyedByTournamentAndNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStageRepository()
	tournaments := NewMemoryTournamentBaseRepository()

	tb := &models.TournamentBase{Name: "Cup", NumEntrants: 8, Mode: models.ModePoolAndFinalStage}
	tb.Normalize()
	require.NoError(t, tournaments.Create(ctx, tb))

	first := &models.Stage{TournamentID: tb.ID, Number: 0, NumGroups: 2}
	require.NoError(t, repo.Create(ctx, first))

	clash := &models.Stage{TournamentID: tb.ID, Number: 0, NumGroups: 4}
	var dke *utils.DuplicateKeyError
	require.ErrorAs(t, repo.Create(ctx, clash), &dke)

	next := &models.Stage{TournamentID: tb.ID, Number: 1, NumGroups: 1}
	require.NoError(t, repo.Create(ctx, next))

	stages, err := repo.ListByTournament(ctx, tb.ID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	require.Equal(t, 0, stages[0].Number)
	require.Equal(t, 1, stages[1].Number)
}
