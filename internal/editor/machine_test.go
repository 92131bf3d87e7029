package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

func TestMachineSuccessRoundTrip(t *testing.T) {
	m := NewMachine()
	require.Equal(t, PhaseIdle, m.Phase())
	require.NoError(t, m.BeginSave())
	require.Equal(t, PhaseSaving, m.Phase())
	require.Error(t, m.BeginSave())

	require.Equal(t, PhaseIdle, m.Resolve(nil))
}

func TestMachineConflictRetryReload(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.BeginSave())

	current := &models.PostalAddress{Name: "B"}
	current.SetRowVersion(1)
	phase := m.Resolve(&utils.ConflictError{CurrentVersion: 1, Current: current})
	require.Equal(t, PhaseConflict, phase)
	require.True(t, m.Inert())
	require.False(t, m.SaveEnabled(true))

	conflict, err := m.RetryReload()
	require.NoError(t, err)
	require.EqualValues(t, 1, conflict.CurrentVersion)
	require.Same(t, current, conflict.Current)
	require.Equal(t, PhaseIdle, m.Phase())
	require.False(t, m.Inert())
}

func TestMachineConflictCancel(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.BeginSave())
	m.Resolve(&utils.ConflictError{CurrentVersion: 2})

	require.NoError(t, m.Cancel())
	require.Equal(t, PhaseIdle, m.Phase())

	// cancel and retry-reload are only offered while the banner is up
	require.Error(t, m.Cancel())
	_, err := m.RetryReload()
	require.Error(t, err)
}

func TestMachineDuplicateDismiss(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.BeginSave())

	phase := m.Resolve(&utils.DuplicateKeyError{Fields: map[string]string{"name": "N"}})
	require.Equal(t, PhaseDuplicate, phase)
	require.True(t, m.Inert())
	require.Equal(t, "N", m.Duplicate().Fields["name"])

	require.NoError(t, m.Dismiss())
	require.Equal(t, PhaseIdle, m.Phase())
	require.Nil(t, m.Duplicate())
}

func TestMachineGenericErrorAutoDismiss(t *testing.T) {
	m := NewMachine()
	m.SetDismissDelay(20 * time.Millisecond)
	require.NoError(t, m.BeginSave())

	phase := m.Resolve(errors.New("boom"))
	require.Equal(t, PhaseGenericError, phase)
	require.Equal(t, "boom", m.Message())
	require.False(t, m.SaveEnabled(true))

	require.Eventually(t, func() bool { return m.Phase() == PhaseIdle },
		time.Second, 5*time.Millisecond)
	require.Empty(t, m.Message())
}

func TestMachineGenericErrorManualDismiss(t *testing.T) {
	m := NewMachine()
	m.SetDismissDelay(time.Hour)
	require.NoError(t, m.BeginSave())
	m.Resolve(utils.ErrNotFound)

	require.Equal(t, PhaseGenericError, m.Phase())
	require.NoError(t, m.Dismiss())
	require.Equal(t, PhaseIdle, m.Phase())
}
