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

type SportConfigRepository interface {
	Create(ctx context.Context, s *models.SportConfig) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.SportConfig, error)
	ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.SportConfig, error)

	UpdateIfVersion(ctx context.Context, s *models.SportConfig, expected int64) (pgconn.CommandTag, error)
}

type sportConfigRepo struct {
	*BaseVersionedRepo[*models.SportConfig]
	db DB
}

func NewSportConfigRepository(db DB) SportConfigRepository {
	r := &sportConfigRepo{db: db}
	selectStmt := baseSelectSportConfig() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanSportConfig)
	return r
}

func baseSelectSportConfig() string {
	return `
        SELECT id, row_version, sport_id, name, config, created_at, updated_at
        FROM sport_configs
    `
}

func scanSportConfig(row pgx.Row) (*models.SportConfig, error) {
	var s models.SportConfig
	err := row.Scan(
		&s.ID,
		&s.RowVersion,
		&s.SportID,
		&s.Name,
		&s.Config,
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

func (r *sportConfigRepo) Create(ctx context.Context, s *models.SportConfig) error {
	s.ID = uuid.New()
	s.RowVersion = 0
	err := r.db.QueryRow(ctx, `
        INSERT INTO sport_configs (
            id, row_version, sport_id, name, config, created_at, updated_at
        ) VALUES ($1, 0, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		s.ID,
		s.SportID,
		s.Name,
		s.Config,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return &utils.DuplicateKeyError{Fields: s.UniquenessKey()}
	}
	return err
}

func (r *sportConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SportConfig, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *sportConfigRepo) ListBySport(ctx context.Context, sportID uuid.UUID, nameFilter string, limit int) ([]*models.SportConfig, error) {
	sql := baseSelectSportConfig() + " WHERE sport_id=$1"
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

	var out []*models.SportConfig
	for rows.Next() {
		s, err := scanSportConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sportConfigRepo) UpdateIfVersion(ctx context.Context, s *models.SportConfig, expected int64) (pgconn.CommandTag, error) {
	err := r.db.QueryRow(ctx, `
        UPDATE sport_configs SET
            sport_id=$1, name=$2, config=$3,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$4 AND row_version=$5
        RETURNING created_at, updated_at
    `,
		s.SportID,
		s.Name,
		s.Config,
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
