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

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PostalAddressRepository interface {
	Create(ctx context.Context, p *models.PostalAddress) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.PostalAddress, error)
	List(ctx context.Context, nameFilter string, limit int) ([]*models.PostalAddress, error)

	UpdateIfVersion(ctx context.Context, p *models.PostalAddress, expected int64) (pgconn.CommandTag, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type postalAddressRepo struct {
	*BaseVersionedRepo[*models.PostalAddress]
	db DB
}

func NewPostalAddressRepository(db DB) PostalAddressRepository {
	r := &postalAddressRepo{db: db}
	selectStmt := baseSelectPostalAddress() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanPostalAddress)
	return r
}

func baseSelectPostalAddress() string {
	return `
        SELECT id, row_version, name, street_address, postal_code,
               address_locality, address_region, address_country,
               created_at, updated_at
        FROM postal_addresses
    `
}

func scanPostalAddress(row pgx.Row) (*models.PostalAddress, error) {
	var p models.PostalAddress
	var name, region *string
	err := row.Scan(
		&p.ID,
		&p.RowVersion,
		&name,
		&p.Street,
		&p.PostalCode,
		&p.Locality,
		&region,
		&p.Country,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if name != nil {
		p.Name = *name
	}
	if region != nil {
		p.Region = *region
	}
	return &p, nil
}

// nullIfEmpty maps optional text columns to NULL, so the partial unique
// index treats absent names consistently.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *postalAddressRepo) Create(ctx context.Context, p *models.PostalAddress) error {
	p.ID = uuid.New()
	p.RowVersion = 0
	err := r.db.QueryRow(ctx, `
        INSERT INTO postal_addresses (
            id, row_version, name, street_address, postal_code,
            address_locality, address_region, address_country,
            created_at, updated_at
        ) VALUES ($1, 0, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		p.ID,
		nullIfEmpty(p.Name),
		p.Street,
		p.PostalCode,
		p.Locality,
		nullIfEmpty(p.Region),
		p.Country,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return &utils.DuplicateKeyError{Fields: p.UniquenessKey()}
	}
	return err
}

func (r *postalAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PostalAddress, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *postalAddressRepo) List(ctx context.Context, nameFilter string, limit int) ([]*models.PostalAddress, error) {
	sql := baseSelectPostalAddress() + " WHERE deleted_at IS NULL"
	args := []any{}
	if nameFilter != "" {
		sql += " AND name ILIKE $1"
		args = append(args, "%"+utils.EscapeLike(nameFilter)+"%")
	}
	sql += " ORDER BY name ASC NULLS LAST, created_at ASC"
	if limit > 0 {
		args = append(args, limit)
		if len(args) == 1 {
			sql += " LIMIT $1"
		} else {
			sql += " LIMIT $2"
		}
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PostalAddress
	for rows.Next() {
		p, err := scanPostalAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postalAddressRepo) UpdateIfVersion(ctx context.Context, p *models.PostalAddress, expected int64) (pgconn.CommandTag, error) {
	// RETURNING feeds the server-side timestamps back into the model, so
	// the saved entity echoed to the client matches the row.
	err := r.db.QueryRow(ctx, `
        UPDATE postal_addresses SET
            name=$1, street_address=$2, postal_code=$3,
            address_locality=$4, address_region=$5, address_country=$6,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$7 AND row_version=$8 AND deleted_at IS NULL
        RETURNING created_at, updated_at
    `,
		nullIfEmpty(p.Name),
		p.Street,
		p.PostalCode,
		p.Locality,
		nullIfEmpty(p.Region),
		p.Country,
		p.ID,
		expected,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, &utils.DuplicateKeyError{Fields: p.UniquenessKey()}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return pgconn.CommandTag(tagUpdateLost), nil
	}
	if err != nil {
		return nil, err
	}
	p.SetRowVersion(expected + 1)
	return pgconn.CommandTag(tagUpdateWon), nil
}

func (r *postalAddressRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE postal_addresses SET deleted_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND deleted_at IS NULL
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}
