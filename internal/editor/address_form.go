package editor

import (
	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// SaveAddressFunc performs the actual write: create when isNew, otherwise a
// conditional update against the expected version. It returns the persisted
// row as the server echoed it.
type SaveAddressFunc func(draft *models.PostalAddress, expected int64, isNew bool) (*models.PostalAddress, error)

// FetchAddressFunc refetches the resource, used by retry-reload when the
// conflict did not carry the winner's snapshot.
type FetchAddressFunc func(id uuid.UUID) (*models.PostalAddress, error)

// AddressForm is one editing session over a postal address: the gate, the
// save machine and the expected version travel together.
type AddressForm struct {
	gate     *Gate[*models.PostalAddress]
	machine  *Machine
	expected int64
	isNew    bool
}

// NewAddressForm opens a blank create form.
func NewAddressForm() *AddressForm {
	return &AddressForm{
		gate:    NewGate(&models.PostalAddress{}),
		machine: NewMachine(),
		isNew:   true,
	}
}

// EditAddress opens an edit form over a loaded snapshot. The draft is a
// copy, so the caller's snapshot stays pristine for the preview.
func EditAddress(snapshot *models.PostalAddress) *AddressForm {
	draft := *snapshot
	return &AddressForm{
		gate:     NewGate(&draft),
		machine:  NewMachine(),
		expected: snapshot.RowVersion,
	}
}

func (f *AddressForm) Draft() *models.PostalAddress { return f.gate.Draft() }
func (f *AddressForm) Machine() *Machine            { return f.machine }
func (f *AddressForm) ExpectedVersion() int64       { return f.expected }
func (f *AddressForm) IsNew() bool                  { return f.isNew }

// Field setters run the full gate pipeline, so e.g. SetCountry re-validates
// the postal code without that field being touched.

func (f *AddressForm) SetName(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.Name = v })
}

func (f *AddressForm) SetStreet(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.Street = v })
}

func (f *AddressForm) SetPostalCode(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.PostalCode = v })
}

func (f *AddressForm) SetLocality(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.Locality = v })
}

func (f *AddressForm) SetRegion(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.Region = v })
}

func (f *AddressForm) SetCountry(v string) {
	f.gate.Edit(func(a *models.PostalAddress) { a.Country = v })
}

func (f *AddressForm) FieldError(field string) *utils.FieldError {
	return f.gate.FieldError(field)
}

// CanSave is the derived aggregate: every field valid and no save or
// banner in flight.
func (f *AddressForm) CanSave() bool {
	return f.machine.SaveEnabled(f.gate.CanSave())
}

// Save runs one attempt through the machine. On success the echoed values
// and version replace local state, so the user sees exactly what was
// persisted.
func (f *AddressForm) Save(save SaveAddressFunc) Phase {
	if !f.CanSave() {
		return f.machine.Phase()
	}
	if err := f.machine.BeginSave(); err != nil {
		return f.machine.Phase()
	}
	saved, err := save(f.gate.Draft(), f.expected, f.isNew)
	phase := f.machine.Resolve(err)
	if phase == PhaseIdle && saved != nil {
		echo := *saved
		f.gate.Replace(&echo)
		f.expected = saved.RowVersion
		f.isNew = false
	}
	return phase
}

// RetryReload discards the local edits and adopts the winner's snapshot.
// The fetch is only called when the conflict did not already carry it.
func (f *AddressForm) RetryReload(fetch FetchAddressFunc) error {
	conflict, err := f.machine.RetryReload()
	if err != nil {
		return err
	}
	current, ok := conflict.Current.(*models.PostalAddress)
	if !ok {
		if fetch == nil {
			return utils.ErrNotFound
		}
		current, err = fetch(f.gate.Draft().ID)
		if err != nil {
			return err
		}
	}
	fresh := *current
	f.gate.Replace(&fresh)
	f.expected = fresh.RowVersion
	f.isNew = false
	return nil
}

// Cancel keeps the local edits and the stale version.
func (f *AddressForm) Cancel() error { return f.machine.Cancel() }

// Dismiss closes a duplicate banner or generic toast.
func (f *AddressForm) Dismiss() error { return f.machine.Dismiss() }

// SaveAsNew turns the current field values into a create draft: no id, no
// version, state reset. The source row is untouched.
func (f *AddressForm) SaveAsNew() {
	f.gate.Replace(f.gate.Draft().Copy())
	f.expected = 0
	f.isNew = true
}
