package registry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func recvNotice(t *testing.T, ch <-chan Notice) Notice {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notice")
		return Notice{}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"address", "sport-config", "tournament-base", "stage"} {
		k, ok := ParseKind(s)
		require.True(t, ok)
		require.Equal(t, Kind(s), k)
	}
	_, ok := ParseKind("unknown")
	require.False(t, ok)
}

func TestSubscribeRejectsNilID(t *testing.T) {
	reg := New()
	_, err := reg.Subscribe(context.Background(), Topic{Kind: KindAddress})
	require.ErrorIs(t, err, ErrNilTopicID)
}

func TestPublishFansOutToTopicSubscribers(t *testing.T) {
	reg := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := uuid.New()
	topic := Topic{Kind: KindAddress, ID: id}

	first, err := reg.Subscribe(ctx, topic)
	require.NoError(t, err)
	second, err := reg.Subscribe(ctx, topic)
	require.NoError(t, err)
	other, err := reg.Subscribe(ctx, Topic{Kind: KindAddress, ID: uuid.New()})
	require.NoError(t, err)

	n := Notice{Kind: KindAddress, ID: id, Version: 1}
	reg.Publish(n)

	require.Equal(t, n, recvNotice(t, first))
	require.Equal(t, n, recvNotice(t, second))
	select {
	case got := <-other:
		t.Fatalf("unrelated subscriber received %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	reg := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := reg.Subscribe(ctx, Topic{Kind: KindStage, ID: uuid.New()})
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-ch:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	reg := New()
	reg.Publish(Notice{Kind: KindAddress, ID: uuid.New(), Version: 1})
}

func TestSlowSubscriberKeepsNewestNotices(t *testing.T) {
	reg := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := uuid.New()
	ch, err := reg.Subscribe(ctx, Topic{Kind: KindAddress, ID: id})
	require.NoError(t, err)

	total := subscriberBuffer + 8
	for v := 1; v <= total; v++ {
		reg.Publish(Notice{Kind: KindAddress, ID: id, Version: int64(v)})
	}

	// the oldest were dropped; what remains is in order and ends with the
	// newest version
	var got []int64
	for len(got) < subscriberBuffer {
		got = append(got, recvNotice(t, ch).Version)
	}
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i], got[i-1])
	}
	require.EqualValues(t, total, got[len(got)-1])
}
