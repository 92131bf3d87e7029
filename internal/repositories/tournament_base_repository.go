package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type TournamentBaseRepository interface {
	Create(ctx context.Context, t *models.TournamentBase) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.TournamentBase, error)
	ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.TournamentBase, error)

	UpdateIfVersion(ctx context.Context, t *models.TournamentBase, expected int64) (pgconn.CommandTag, error)
}

type tournamentBaseRepo struct {
	*BaseVersionedRepo[*models.TournamentBase]
	db DB
}

func NewTournamentBaseRepository(db DB) TournamentBaseRepository {
	r := &tournamentBaseRepo{db: db}
	selectStmt := baseSelectTournamentBase() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanTournamentBase)
	return r
}

func baseSelectTournamentBase() string {
	return `
        SELECT id, row_version, name, sport_id, num_entrants,
               tournament_type, mode, num_rounds, state, active_stage,
               created_at, updated_at
        FROM tournament_bases
    `
}

func scanTournamentBase(row pgx.Row) (*models.TournamentBase, error) {
	var t models.TournamentBase
	err := row.Scan(
		&t.ID,
		&t.RowVersion,
		&t.Name,
		&t.SportID,
		&t.NumEntrants,
		&t.Type,
		&t.Mode,
		&t.NumRounds,
		&t.State,
		&t.ActiveStage,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tournamentBaseRepo) Create(ctx context.Context, t *models.TournamentBase) error {
	t.ID = uuid.New()
	t.RowVersion = 0
	err := r.db.QueryRow(ctx, `
        INSERT INTO tournament_bases (
            id, row_version, name, sport_id, num_entrants,
            tournament_type, mode, num_rounds, state, active_stage,
            created_at, updated_at
        ) VALUES ($1, 0, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		t.ID,
		t.Name,
		t.SportID,
		t.NumEntrants,
		t.Type,
		t.Mode,
		t.NumRounds,
		t.State,
		t.ActiveStage,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return &utils.DuplicateKeyError{Fields: t.UniquenessKey()}
	}
	return err
}

func (r *tournamentBaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TournamentBase, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *tournamentBaseRepo) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.TournamentBase, error) {
	sql := baseSelectTournamentBase() + " WHERE sport_id=$1"
	args := []any{sportID}
	if nameFilter != "" {
		sql += " AND name ILIKE $2"
		args = append(args, "%"+utils.EscapeLike(nameFilter)+"%")
	}
	sql += " ORDER BY name ASC, created_at ASC"
	if limit > 0 {
		args = append(args, limit)
		if len(args) == 2 {
			sql += " LIMIT $2"
		} else {
			sql += " LIMIT $3"
		}
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.TournamentBase
	for rows.Next() {
		t, err := scanTournamentBase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tournamentBaseRepo) UpdateIfVersion(ctx context.Context, t *models.TournamentBase, expected int64) (pgconn.CommandTag, error) {
	err := r.db.QueryRow(ctx, `
        UPDATE tournament_bases SET
            name=$1, sport_id=$2, num_entrants=$3, tournament_type=$4,
            mode=$5, num_rounds=$6, state=$7, active_stage=$8,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$9 AND row_version=$10
        RETURNING created_at, updated_at
    `,
		t.Name,
		t.SportID,
		t.NumEntrants,
		t.Type,
		t.Mode,
		t.NumRounds,
		t.State,
		t.ActiveStage,
		t.ID,
		expected,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, &utils.DuplicateKeyError{Fields: t.UniquenessKey()}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if err != nil {
		return nil, err
	}
	t.SetRowVersion(expected + 1)
	return pgconn.CommandTag(tagUpdateWon), nil
}
