// Package editor holds the session-side core of the save protocol: the
// per-field validation gate, the conflict presentation machine and the
// live preview model. It is transport-agnostic; controllers and tests
// drive it directly.
package editor

import (
	"errors"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// Entity is what a form edits. Normalize brings every field into canonical
// form, Validate reports per-field errors as *utils.ValidationErrors.
type Entity interface {
	Normalize()
	Validate() error
}

// Gate keeps the validation state of a draft current. Every edit runs the
// full normalize-then-validate pipeline again, so CanSave is derived from
// what the fields hold right now, never from a dirty flag. An untouched
// required field is therefore invalid from the start.
type Gate[T Entity] struct {
	draft T
	errs  *utils.ValidationErrors
}

// NewGate validates the initial draft immediately.
func NewGate[T Entity](draft T) *Gate[T] {
	g := &Gate[T]{draft: draft}
	g.Touch()
	return g
}

// Draft returns the entity under edit. Callers that mutate it directly must
// follow up with Touch.
func (g *Gate[T]) Draft() T { return g.draft }

// Edit applies fn to the draft and recomputes the whole gate in the same
// step, so cross-field rules fire without the dependent field being touched.
func (g *Gate[T]) Edit(fn func(T)) {
	fn(g.draft)
	g.Touch()
}

// Touch normalizes the draft and revalidates every field.
func (g *Gate[T]) Touch() {
	g.draft.Normalize()
	g.errs = nil
	if err := g.draft.Validate(); err != nil {
		var ve *utils.ValidationErrors
		if errors.As(err, &ve) {
			g.errs = ve
			return
		}
		g.errs = &utils.ValidationErrors{Errors: []utils.FieldError{
			utils.NewFieldError("", utils.FieldCodeInvalidFormat, err.Error()),
		}}
	}
}

// Replace swaps the draft for a fresh snapshot, e.g. after a reload or a
// successful save echoing the persisted values.
func (g *Gate[T]) Replace(draft T) {
	g.draft = draft
	g.Touch()
}

// CanSave reports whether every field is currently valid.
func (g *Gate[T]) CanSave() bool { return g.errs == nil }

// FieldError returns the current error of the named field, or nil.
func (g *Gate[T]) FieldError(field string) *utils.FieldError {
	if g.errs == nil {
		return nil
	}
	return g.errs.ForField(field)
}

// Errors returns all current field errors.
func (g *Gate[T]) Errors() []utils.FieldError {
	if g.errs == nil {
		return nil
	}
	return g.errs.Errors
}
