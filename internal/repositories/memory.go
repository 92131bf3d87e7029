package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// The in-memory implementations back development mode (no database
// configured) and the unit tests. They satisfy the same interfaces and the
// same optimistic-lock contract as the Postgres repositories: the version
// check and the increment happen under one lock, so two concurrent
// UpdateIfVersion calls with the same expected version can never both win.

// memBucket is the generic storage cell shared by all in-memory repos.
type memBucket[T EntityWithVersion] struct {
	mu    sync.Mutex
	rows  map[string]T
	clone func(T) T
	// live uniqueness key; ok=false excludes the row (soft-deleted)
	key   func(T) (string, bool)
	setID func(T, uuid.UUID)
	stamp func(T, bool)
	// carry copies server-owned columns from the stored row into an
	// incoming update, matching what the SQL repos read back via RETURNING
	carry func(dst, src T)
}

func joinKey(kv map[string]string) string {
	names := make([]string, 0, len(kv))
	for n := range kv {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(kv))
	for _, n := range names {
		parts = append(parts, kv[n])
	}
	return strings.Join(parts, "\x1f")
}

func (b *memBucket[T]) keyTaken(candidate T) bool {
	want, ok := b.key(candidate)
	if !ok {
		return false
	}
	for id, row := range b.rows {
		if id == candidate.GetID() {
			continue
		}
		if got, live := b.key(row); live && got == want {
			return true
		}
	}
	return false
}

func (b *memBucket[T]) create(e T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setID(e, uuid.New())
	e.SetRowVersion(0)
	if b.keyTaken(e) {
		return duplicateErr(e)
	}
	b.stamp(e, true)
	b.rows[e.GetID()] = b.clone(e)
	return nil
}

func (b *memBucket[T]) get(id string) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return b.clone(row), true
}

func (b *memBucket[T]) list(match func(T) bool, less func(a, bb T) bool, limit int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []T
	for _, row := range b.rows {
		if match(row) {
			out = append(out, b.clone(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// updateIfVersion mirrors the SQL conditional update: affected rows are 0
// when the row is missing, dead, or carries a different version.
func (b *memBucket[T]) updateIfVersion(e T, expected int64) (pgconn.CommandTag, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, ok := b.rows[e.GetID()]
	if !ok {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if _, live := b.key(current); !live {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if current.GetRowVersion() != expected {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if b.keyTaken(e) {
		return nil, duplicateErr(e)
	}
	e.SetRowVersion(expected + 1)
	b.carry(e, current)
	b.stamp(e, false)
	b.rows[e.GetID()] = b.clone(e)
	return pgconn.CommandTag(tagUpdateWon), nil
}

type uniquenessKeyed interface {
	UniquenessKey() map[string]string
}

func duplicateErr(e any) error {
	if k, ok := e.(uniquenessKeyed); ok {
		return &utils.DuplicateKeyError{Fields: k.UniquenessKey()}
	}
	return &utils.DuplicateKeyError{}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

/* ------------------------------------------------------------------
   Postal addresses
------------------------------------------------------------------ */

type memoryPostalAddressRepo struct {
	bucket *memBucket[*models.PostalAddress]
}

func NewMemoryPostalAddressRepository() PostalAddressRepository {
	return &memoryPostalAddressRepo{
		bucket: &memBucket[*models.PostalAddress]{
			rows: make(map[string]*models.PostalAddress),
			clone: func(p *models.PostalAddress) *models.PostalAddress {
				c := *p
				if p.DeletedAt != nil {
					t := *p.DeletedAt
					c.DeletedAt = &t
				}
				return &c
			},
			key: func(p *models.PostalAddress) (string, bool) {
				if p.DeletedAt != nil {
					return "", false
				}
				return joinKey(p.UniquenessKey()), true
			},
			setID: func(p *models.PostalAddress, id uuid.UUID) { p.ID = id },
			carry: func(dst, src *models.PostalAddress) { dst.CreatedAt = src.CreatedAt },
			stamp: func(p *models.PostalAddress, created bool) {
				now := time.Now()
				if created {
					p.CreatedAt = now
				}
				p.UpdatedAt = now
			},
		},
	}
}

func (r *memoryPostalAddressRepo) Create(ctx context.Context, p *models.PostalAddress) error {
	return r.bucket.create(p)
}

func (r *memoryPostalAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PostalAddress, error) {
	p, ok := r.bucket.get(id.String())
	if !ok || p.DeletedAt != nil {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (r *memoryPostalAddressRepo) List(ctx context.Context, nameFilter string, limit int) ([]*models.PostalAddress, error) {
	return r.bucket.list(
		func(p *models.PostalAddress) bool {
			if p.DeletedAt != nil {
				return false
			}
			return nameFilter == "" || containsFold(p.Name, nameFilter)
		},
		func(a, b *models.PostalAddress) bool {
			if a.Name != b.Name {
				// empty names sort last, like NULLS LAST
				if a.Name == "" || b.Name == "" {
					return b.Name == ""
				}
				return a.Name < b.Name
			}
			return a.CreatedAt.Before(b.CreatedAt)
		},
		limit,
	), nil
}

func (r *memoryPostalAddressRepo) UpdateIfVersion(ctx context.Context, p *models.PostalAddress, expected int64) (pgconn.CommandTag, error) {
	return r.bucket.updateIfVersion(p, expected)
}

func (r *memoryPostalAddressRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.bucket.mu.Lock()
	defer r.bucket.mu.Unlock()
	p, ok := r.bucket.rows[id.String()]
	if !ok || p.DeletedAt != nil {
		return utils.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	p.UpdatedAt = now
	return nil
}

/* ------------------------------------------------------------------
   Tournament bases
------------------------------------------------------------------ */

type memoryTournamentBaseRepo struct {
	bucket *memBucket[*models.TournamentBase]
}

func NewMemoryTournamentBaseRepository() TournamentBaseRepository {
	return &memoryTournamentBaseRepo{
		bucket: &memBucket[*models.TournamentBase]{
			rows: make(map[string]*models.TournamentBase),
			clone: func(t *models.TournamentBase) *models.TournamentBase {
				c := *t
				return &c
			},
			key: func(t *models.TournamentBase) (string, bool) {
				return joinKey(t.UniquenessKey()), true
			},
			setID: func(t *models.TournamentBase, id uuid.UUID) { t.ID = id },
			carry: func(dst, src *models.TournamentBase) { dst.CreatedAt = src.CreatedAt },
			stamp: func(t *models.TournamentBase, created bool) {
				now := time.Now()
				if created {
					t.CreatedAt = now
				}
				t.UpdatedAt = now
			},
		},
	}
}

func (r *memoryTournamentBaseRepo) Create(ctx context.Context, t *models.TournamentBase) error {
	return r.bucket.create(t)
}

func (r *memoryTournamentBaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TournamentBase, error) {
	t, ok := r.bucket.get(id.String())
	if !ok {
		return nil, utils.ErrNotFound
	}
	return t, nil
}

func (r *memoryTournamentBaseRepo) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.TournamentBase, error) {
	return r.bucket.list(
		func(t *models.TournamentBase) bool {
			if t.SportID != sportID {
				return false
			}
			return nameFilter == "" || containsFold(t.Name, nameFilter)
		},
		func(a, b *models.TournamentBase) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.CreatedAt.Before(b.CreatedAt)
		},
		limit,
	), nil
}

func (r *memoryTournamentBaseRepo) UpdateIfVersion(ctx context.Context, t *models.TournamentBase, expected int64) (pgconn.CommandTag, error) {
	return r.bucket.updateIfVersion(t, expected)
}

/* ------------------------------------------------------------------
   Sport configs
------------------------------------------------------------------ */

type memorySportConfigRepo struct {
	bucket *memBucket[*models.SportConfig]
}

func NewMemorySportConfigRepository() SportConfigRepository {
	return &memorySportConfigRepo{
		bucket: &memBucket[*models.SportConfig]{
			rows: make(map[string]*models.SportConfig),
			clone: func(s *models.SportConfig) *models.SportConfig {
				c := *s
				c.Config = append([]byte(nil), s.Config...)
				return &c
			},
			key: func(s *models.SportConfig) (string, bool) {
				return joinKey(s.UniquenessKey()), true
			},
			setID: func(s *models.SportConfig, id uuid.UUID) { s.ID = id },
			carry: func(dst, src *models.SportConfig) { dst.CreatedAt = src.CreatedAt },
			stamp: func(s *models.SportConfig, created bool) {
				now := time.Now()
				if created {
					s.CreatedAt = now
				}
				s.UpdatedAt = now
			},
		},
	}
}

func (r *memorySportConfigRepo) Create(ctx context.Context, s *models.SportConfig) error {
	return r.bucket.create(s)
}

func (r *memorySportConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SportConfig, error) {
	s, ok := r.bucket.get(id.String())
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s, nil
}

func (r *memorySportConfigRepo) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.SportConfig, error) {
	return r.bucket.list(
		func(s *models.SportConfig) bool {
			if s.SportID != sportID {
				return false
			}
			return nameFilter == "" || containsFold(s.Name, nameFilter)
		},
		func(a, b *models.SportConfig) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.CreatedAt.Before(b.CreatedAt)
		},
		limit,
	), nil
}

func (r *memorySportConfigRepo) UpdateIfVersion(ctx context.Context, s *models.SportConfig, expected int64) (pgconn.CommandTag, error) {
	return r.bucket.updateIfVersion(s, expected)
}

/* ------------------------------------------------------------------
   Stages
------------------------------------------------------------------ */

type memoryStageRepo struct {
	bucket *memBucket[*models.Stage]
}

func NewMemoryStageRepository() StageRepository {
	return &memoryStageRepo{
		bucket: &memBucket[*models.Stage]{
			rows: make(map[string]*models.Stage),
			clone: func(s *models.Stage) *models.Stage {
				c := *s
				return &c
			},
			key: func(s *models.Stage) (string, bool) {
				return joinKey(s.UniquenessKey()), true
			},
			setID: func(s *models.Stage, id uuid.UUID) { s.ID = id },
			carry: func(dst, src *models.Stage) { dst.CreatedAt = src.CreatedAt },
			stamp: func(s *models.Stage, created bool) {
				now := time.Now()
				if created {
					s.CreatedAt = now
				}
				s.UpdatedAt = now
			},
		},
	}
}

func (r *memoryStageRepo) Create(ctx context.Context, s *models.Stage) error {
	return r.bucket.create(s)
}

func (r *memoryStageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Stage, error) {
	s, ok := r.bucket.get(id.String())
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s, nil
}

func (r *memoryStageRepo) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Stage, error) {
	return r.bucket.list(
		func(s *models.Stage) bool { return s.TournamentID == tournamentID },
		func(a, b *models.Stage) bool { return a.Number < b.Number },
		0,
	), nil
}

func (r *memoryStageRepo) UpdateIfVersion(ctx context.Context, s *models.Stage, expected int64) (pgconn.CommandTag, error) {
	return r.bucket.updateIfVersion(s, expected)
}
