package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/editor"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

func newAddressService() (*PostalAddressService, *registry.Registry) {
	reg := registry.New()
	return NewPostalAddressService(repositories.NewMemoryPostalAddressRepository(), reg), reg
}

func draftAddress(name string) *models.PostalAddress {
	return &models.PostalAddress{
		Name:       name,
		Street:     "Ballspielweg 3",
		PostalCode: "24145",
		Locality:   "Kiel",
		Country:    "DE",
	}
}

func TestCreateStartsAtVersionZero(t *testing.T) {
	svc, _ := newAddressService()
	saved, err := svc.Create(context.Background(), draftAddress("Sporthalle Nord"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Zero(t, saved.GetRowVersion())
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc, _ := newAddressService()
	bad := draftAddress("X")
	bad.PostalCode = "1011" // DE needs 5 digits

	_, err := svc.Create(context.Background(), bad)
	var ve *utils.ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.NotNil(t, ve.ForField("postal_code"))
}

func TestUpdateConflictCarriesWinnerSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	saved, err := svc.Create(ctx, draftAddress("Sporthalle Nord"))
	require.NoError(t, err)

	winner := *saved
	winner.Name = "B"
	updated, err := svc.Update(ctx, &winner, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, updated.GetRowVersion())

	loser := *saved
	loser.Name = "A"
	_, err = svc.Update(ctx, &loser, 0)

	var conflict *utils.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	require.EqualValues(t, 1, conflict.CurrentVersion)
	current, ok := conflict.Current.(*models.PostalAddress)
	require.True(t, ok)
	require.Equal(t, "B", current.Name)
}

func TestUpdateDeletedRowReportsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	saved, err := svc.Create(ctx, draftAddress("Sporthalle Nord"))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, saved.ID))

	_, err = svc.Update(ctx, saved, 0)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdatePublishesNotice(t *testing.T) {
	ctx := context.Background()
	svc, reg := newAddressService()
	saved, err := svc.Create(ctx, draftAddress("Sporthalle Nord"))
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := reg.Subscribe(subCtx, registry.Topic{Kind: registry.KindAddress, ID: saved.ID})
	require.NoError(t, err)

	saved.Name = "Renamed"
	_, err = svc.Update(ctx, saved, 0)
	require.NoError(t, err)

	n := <-ch
	require.Equal(t, registry.KindAddress, n.Kind)
	require.Equal(t, saved.ID, n.ID)
	require.EqualValues(t, 1, n.Version)
}

func TestCopyCreatesIndependentRow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	src, err := svc.Create(ctx, draftAddress("Sporthalle Nord"))
	require.NoError(t, err)

	copied, err := svc.Copy(ctx, src.ID)
	require.NoError(t, err)
	require.NotEqual(t, src.ID, copied.ID)
	require.Zero(t, copied.GetRowVersion())
	require.Equal(t, "Sporthalle Nord (copy)", copied.Name)
	require.Equal(t, src.Street, copied.Street)

	// copying the same source again collides with the first copy
	_, err = svc.Copy(ctx, src.ID)
	var dke *utils.DuplicateKeyError
	require.ErrorAs(t, err, &dke)

	_, err = svc.Get(ctx, uuid.New())
	require.ErrorIs(t, err, utils.ErrNotFound)
}

// The documented two-writer race, driven through two editing sessions:
// B saves first, A conflicts against B's version, reload shows B's values.
func TestConcurrentEditRaceScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	stored, err := svc.Create(ctx, draftAddress(""))
	require.NoError(t, err)

	save := func(draft *models.PostalAddress, expected int64, isNew bool) (*models.PostalAddress, error) {
		if isNew {
			return svc.Create(ctx, draft)
		}
		return svc.Update(ctx, draft, expected)
	}

	formA := editor.EditAddress(stored)
	formB := editor.EditAddress(stored)

	formB.SetName("B")
	require.Equal(t, editor.PhaseIdle, formB.Save(save))
	require.EqualValues(t, 1, formB.ExpectedVersion())

	formA.SetName("A")
	require.Equal(t, editor.PhaseConflict, formA.Save(save))
	require.EqualValues(t, 1, formA.Machine().Conflict().CurrentVersion)

	// user edits are still on screen while the banner shows
	require.Equal(t, "A", formA.Draft().Name)

	require.NoError(t, formA.RetryReload(nil))
	require.Equal(t, "B", formA.Draft().Name)
	require.EqualValues(t, 1, formA.ExpectedVersion())
	require.True(t, formA.CanSave())

	// second round: now the save goes through
	formA.SetName("A")
	require.Equal(t, editor.PhaseIdle, formA.Save(save))
	require.EqualValues(t, 2, formA.ExpectedVersion())
}

func TestCancelKeepsEditsAndStaleVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	stored, err := svc.Create(ctx, draftAddress(""))
	require.NoError(t, err)

	save := func(draft *models.PostalAddress, expected int64, isNew bool) (*models.PostalAddress, error) {
		return svc.Update(ctx, draft, expected)
	}

	winner := *stored
	winner.Name = "B"
	_, err = svc.Update(ctx, &winner, 0)
	require.NoError(t, err)

	form := editor.EditAddress(stored)
	form.SetName("A")
	require.Equal(t, editor.PhaseConflict, form.Save(save))

	require.NoError(t, form.Cancel())
	require.Equal(t, "A", form.Draft().Name)
	require.EqualValues(t, 0, form.ExpectedVersion())

	// saving again races again and conflicts again
	require.Equal(t, editor.PhaseConflict, form.Save(save))
}

func TestDuplicateOnCreateKeepsFormValues(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAddressService()
	existing := draftAddress("N")
	existing.PostalCode = "54321"
	existing.Locality = "City"
	existing.Country = "DK"
	_, err := svc.Create(ctx, existing)
	require.NoError(t, err)

	form := editor.NewAddressForm()
	form.SetName("N")
	form.SetStreet("Different Street 1")
	form.SetPostalCode("54321")
	form.SetLocality("City")
	form.SetCountry("DK")
	require.True(t, form.CanSave())

	save := func(draft *models.PostalAddress, expected int64, isNew bool) (*models.PostalAddress, error) {
		return svc.Create(ctx, draft)
	}
	require.Equal(t, editor.PhaseDuplicate, form.Save(save))

	dup := form.Machine().Duplicate()
	require.Equal(t, map[string]string{
		"name":             "N",
		"postal_code":      "54321",
		"address_locality": "City",
	}, dup.Fields)

	// the attempted values stay in the form for correction
	require.Equal(t, "N", form.Draft().Name)
	require.NoError(t, form.Dismiss())
	form.SetName("N 2")
	require.Equal(t, editor.PhaseIdle, form.Save(save))
}
