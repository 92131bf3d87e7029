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

type StageRepository interface {
	Create(ctx context.Context, s *models.Stage) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Stage, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Stage, error)

	UpdateIfVersion(ctx context.Context, s *models.Stage, expected int64) (pgconn.CommandTag, error)
}

type stageRepo struct {
	*BaseVersionedRepo[*models.Stage]
	db DB
}

func NewStageRepository(db DB) StageRepository {
	r := &stageRepo{db: db}
	selectStmt := baseSelectStage() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanStage)
	return r
}

func baseSelectStage() string {
	return `
        SELECT id, row_version, tournament_id, number, num_groups,
               created_at, updated_at
        FROM stages
    `
}

func scanStage(row pgx.Row) (*models.Stage, error) {
	var s models.Stage
	err := row.Scan(
		&s.ID,
		&s.RowVersion,
		&s.TournamentID,
		&s.Number,
		&s.NumGroups,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stageRepo) Create(ctx context.Context, s *models.Stage) error {
	s.ID = uuid.New()
	s.RowVersion = 0
	err := r.db.QueryRow(ctx, `
        INSERT INTO stages (
            id, row_version, tournament_id, number, num_groups,
            created_at, updated_at
        ) VALUES ($1, 0, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		s.ID,
		s.TournamentID,
		s.Number,
		s.NumGroups,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return &utils.DuplicateKeyError{Fields: s.UniquenessKey()}
	}
	return err
}

func (r *stageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Stage, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *stageRepo) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Stage, error) {
	rows, err := r.db.Query(ctx, baseSelectStage()+" WHERE tournament_id=$1 ORDER BY number", tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *stageRepo) UpdateIfVersion(ctx context.Context, s *models.Stage, expected int64) (pgconn.CommandTag, error) {
	err := r.db.QueryRow(ctx, `
        UPDATE stages SET
            tournament_id=$1, number=$2, num_groups=$3,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$4 AND row_version=$5
        RETURNING created_at, updated_at
    `,
		s.TournamentID,
		s.Number,
		s.NumGroups,
		s.ID,
		expected,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, &utils.DuplicateKeyError{Fields: s.UniquenessKey()}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if err != nil {
		return nil, err
	}
	s.SetRowVersion(expected + 1)
	return pgconn.CommandTag(tagUpdateWon), nil
}
