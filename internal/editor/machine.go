package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// Phase is the presentation state of one editing session.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSaving       Phase = "saving"
	PhaseConflict     Phase = "conflict_presented"
	PhaseDuplicate    Phase = "duplicate_presented"
	PhaseGenericError Phase = "generic_error_presented"
)

// DefaultDismissDelay is how long a generic error toast stays up before it
// dismisses itself.
const DefaultDismissDelay = 10 * time.Second

// Machine drives the conflict and error presentation of a save attempt.
// Every exit from an error phase is a named user action; the machine never
// retries on its own.
type Machine struct {
	mu           sync.Mutex
	phase        Phase
	conflict     *utils.ConflictError
	duplicate    *utils.DuplicateKeyError
	message      string
	dismissAfter time.Duration
	timer        *time.Timer
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseIdle, dismissAfter: DefaultDismissDelay}
}

// SetDismissDelay overrides the generic-error auto-dismiss delay. Tests set
// it very low; zero disables auto-dismiss.
func (m *Machine) SetDismissDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissAfter = d
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Inert reports whether the main content region must be non-interactive:
// true exactly while a conflict or duplicate banner is up.
func (m *Machine) Inert() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseConflict || m.phase == PhaseDuplicate
}

// SaveEnabled combines the gate verdict with the phase: saving is possible
// only from Idle, and only while the gate holds.
func (m *Machine) SaveEnabled(gateOK bool) bool {
	return gateOK && m.Phase() == PhaseIdle
}

// BeginSave moves Idle to Saving. Any other phase rejects the attempt.
func (m *Machine) BeginSave() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseIdle {
		return fmt.Errorf("editor: cannot save while %s", m.phase)
	}
	m.phase = PhaseSaving
	return nil
}

// Resolve consumes the outcome of the save call and moves to the matching
// phase. Validation errors reaching this point mean the gate and the server
// disagree; they surface as generic errors.
func (m *Machine) Resolve(err error) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseSaving {
		return m.phase
	}
	m.conflict = nil
	m.duplicate = nil
	m.message = ""

	if err == nil {
		m.phase = PhaseIdle
		return m.phase
	}

	var conflict *utils.ConflictError
	var dup *utils.DuplicateKeyError
	switch {
	case errors.As(err, &conflict):
		m.conflict = conflict
		m.phase = PhaseConflict
	case errors.As(err, &dup):
		m.duplicate = dup
		m.phase = PhaseDuplicate
	default:
		m.message = err.Error()
		m.phase = PhaseGenericError
		m.armDismissLocked()
	}
	return m.phase
}

// armDismissLocked starts the auto-dismiss timer for a generic error toast.
func (m *Machine) armDismissLocked() {
	if m.dismissAfter <= 0 {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.dismissAfter, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.phase == PhaseGenericError {
			m.phase = PhaseIdle
			m.message = ""
		}
	})
}

// Conflict returns the presented conflict while in ConflictPresented.
func (m *Machine) Conflict() *utils.ConflictError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflict
}

// Duplicate returns the presented collision while in DuplicatePresented.
func (m *Machine) Duplicate() *utils.DuplicateKeyError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duplicate
}

// Message returns the generic error text while the toast is up.
func (m *Machine) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

// RetryReload leaves ConflictPresented. The returned conflict carries the
// winner's version and, when available, its snapshot; the caller discards
// local edits and adopts it.
func (m *Machine) RetryReload() (*utils.ConflictError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseConflict {
		return nil, fmt.Errorf("editor: retry-reload not available while %s", m.phase)
	}
	c := m.conflict
	m.conflict = nil
	m.phase = PhaseIdle
	return c, nil
}

// Cancel leaves ConflictPresented keeping the local edits and the stale
// expected version. The next save will race again and may conflict again.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseConflict {
		return fmt.Errorf("editor: cancel not available while %s", m.phase)
	}
	m.conflict = nil
	m.phase = PhaseIdle
	return nil
}

// Dismiss closes a duplicate banner or a generic toast early. The form
// stays populated and editable.
func (m *Machine) Dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case PhaseDuplicate, PhaseGenericError:
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		m.duplicate = nil
		m.message = ""
		m.phase = PhaseIdle
		return nil
	}
	return fmt.Errorf("editor: nothing to dismiss while %s", m.phase)
}
