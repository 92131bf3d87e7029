package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
)

func TestPreviewAppliesVersionsMonotonically(t *testing.T) {
	p := NewPreview[string]()

	_, _, ok := p.Current()
	require.False(t, ok)

	require.True(t, p.Set(0, "v0"))
	require.True(t, p.Set(2, "v2"))
	require.False(t, p.Set(1, "stale"))
	require.False(t, p.Set(2, "repeat"))

	got, version, ok := p.Current()
	require.True(t, ok)
	require.Equal(t, "v2", got)
	require.EqualValues(t, 2, version)
}

func TestPreviewFollowSkipsStaleNotices(t *testing.T) {
	p := NewPreview[string]()
	p.Set(5, "v5")

	id := uuid.New()
	ch := make(chan registry.Notice, 4)
	ch <- registry.Notice{Kind: registry.KindAddress, ID: id, Version: 3}
	ch <- registry.Notice{Kind: registry.KindAddress, ID: id, Version: 6}
	close(ch)

	var fetched []int64
	p.Follow(ch, func(n registry.Notice) (string, int64, error) {
		fetched = append(fetched, n.Version)
		return "v6", n.Version, nil
	})

	require.Equal(t, []int64{6}, fetched)
	got, version, _ := p.Current()
	require.Equal(t, "v6", got)
	require.EqualValues(t, 6, version)
}

// Two sessions share a registry: a commit published by one advances the
// other's preview without touching its open edit buffer.
func TestRemoteUpdateAdvancesPreviewNotEditBuffer(t *testing.T) {
	reg := registry.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stored := &models.PostalAddress{ID: uuid.New(), Name: "Original", Street: "Ballspielweg 3",
		PostalCode: "24145", Locality: "Kiel", Country: "DE"}

	form := EditAddress(stored)
	form.SetName("My local draft")

	preview := NewPreview[*models.PostalAddress]()
	preview.Set(stored.RowVersion, stored)

	ch, err := reg.Subscribe(ctx, registry.Topic{Kind: registry.KindAddress, ID: stored.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		preview.Follow(ch, func(n registry.Notice) (*models.PostalAddress, int64, error) {
			remote := *stored
			remote.Name = "Remote edit"
			remote.SetRowVersion(n.Version)
			return &remote, n.Version, nil
		})
	}()

	reg.Publish(registry.Notice{Kind: registry.KindAddress, ID: stored.ID, Version: 1})

	require.Eventually(t, func() bool {
		_, v, ok := preview.Current()
		return ok && v == 1
	}, time.Second, 5*time.Millisecond)

	got, _, _ := preview.Current()
	require.Equal(t, "Remote edit", got.Name)
	require.Equal(t, "My local draft", form.Draft().Name)
	require.EqualValues(t, 0, form.ExpectedVersion())

	cancel()
	wg.Wait()
}
