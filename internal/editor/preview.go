package editor

import (
	"sync"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
)

// Preview is the canonical read model of one resource in a session. Remote
// commits advance it in strictly increasing version order; the edit buffer
// lives in the Gate and is never written by a remote update.
type Preview[T any] struct {
	mu      sync.Mutex
	current T
	version int64
	seen    bool
}

func NewPreview[T any]() *Preview[T] { return &Preview[T]{} }

// Set installs a snapshot if it is newer than what is shown. A stale or
// repeated version is dropped and Set reports false.
func (p *Preview[T]) Set(version int64, snapshot T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen && version <= p.version {
		return false
	}
	p.current = snapshot
	p.version = version
	p.seen = true
	return true
}

// Current returns the shown snapshot and its version. ok is false before
// the first Set.
func (p *Preview[T]) Current() (snapshot T, version int64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.version, p.seen
}

// Outdated reports whether a notice at the given version would advance the
// preview, so followers can skip the fetch for stale notices.
func (p *Preview[T]) Outdated(version int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.seen || version > p.version
}

// Follow consumes notices until the channel closes. For every notice that
// would advance the preview it fetches the snapshot and applies it; fetch
// failures drop that notice, a later one catches up.
func (p *Preview[T]) Follow(ch <-chan registry.Notice, fetch func(n registry.Notice) (T, int64, error)) {
	for n := range ch {
		if !p.Outdated(n.Version) {
			continue
		}
		snapshot, version, err := fetch(n)
		if err != nil {
			continue
		}
		p.Set(version, snapshot)
	}
}
