// Package registry fans committed changes out to every session currently
// watching a resource. Topics are per resource instance; the transport
// (websocket, in-process channel) stays behind the Subscribe/Publish
// interface so view models and tests can consume notices directly.
package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Kind names a resource family. The values appear in subscribe URLs.
type Kind string

const (
	KindAddress        Kind = "address"
	KindSportConfig    Kind = "sport-config"
	KindTournamentBase Kind = "tournament-base"
	KindStage          Kind = "stage"
)

// ParseKind maps a URL segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindAddress, KindSportConfig, KindTournamentBase, KindStage:
		return Kind(s), true
	}
	return "", false
}

// Topic addresses one resource instance.
type Topic struct {
	Kind Kind
	ID   uuid.UUID
}

// Notice is what subscribers receive after a commit: which resource changed
// and the version it now carries. Receivers fetch the content themselves or
// get it from the change payload of their own save.
type Notice struct {
	Kind    Kind      `json:"kind"`
	ID      uuid.UUID `json:"id"`
	Version int64     `json:"version"`
}

func (n Notice) Topic() Topic { return Topic{Kind: n.Kind, ID: n.ID} }

// Publisher is the narrow interface the services depend on.
type Publisher interface {
	Publish(n Notice)
}

var ErrNilTopicID = errors.New("registry: nil topic id")

// subscriber buffer size; a receiver that falls further behind loses the
// oldest notices, which is safe because views apply versions monotonically.
const subscriberBuffer = 16

type Registry struct {
	mu    sync.Mutex
	buses map[Topic]map[chan Notice]struct{}
}

func New() *Registry {
	return &Registry{buses: make(map[Topic]map[chan Notice]struct{})}
}

// Subscribe registers for notices on topic until ctx is done. The returned
// channel is closed on unsubscribe. Buses are created on first subscribe and
// removed again when the last subscriber leaves.
func (r *Registry) Subscribe(ctx context.Context, topic Topic) (<-chan Notice, error) {
	if topic.ID == uuid.Nil {
		return nil, ErrNilTopicID
	}

	ch := make(chan Notice, subscriberBuffer)

	r.mu.Lock()
	bus, ok := r.buses[topic]
	if !ok {
		bus = make(map[chan Notice]struct{})
		r.buses[topic] = bus
	}
	bus[ch] = struct{}{}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		if bus, ok := r.buses[topic]; ok {
			delete(bus, ch)
			if len(bus) == 0 {
				delete(r.buses, topic)
			}
		}
		r.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Publish fans n out to all current subscribers of its topic. Best effort:
// if nobody is listening nothing happens, and a full subscriber buffer drops
// the oldest notice to make room for the newest.
func (r *Registry) Publish(n Notice) {
	topic := n.Topic()

	r.mu.Lock()
	defer r.mu.Unlock()

	bus, ok := r.buses[topic]
	if !ok {
		return
	}
	for ch := range bus {
		for {
			select {
			case ch <- n:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
