// Package services implements the save protocol on top of the repositories:
// normalize, validate, write, and on a lost conditional update refetch the
// winner so the caller gets the current version back. Successful commits are
// published to the change registry. Nothing in this package retries.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/registry"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/repositories"
	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

type PostalAddressService struct {
	repo repositories.PostalAddressRepository
	pub  registry.Publisher
}

func NewPostalAddressService(repo repositories.PostalAddressRepository, pub registry.Publisher) *PostalAddressService {
	return &PostalAddressService{repo: repo, pub: pub}
}

// Create persists a new address at version 0.
func (s *PostalAddressService) Create(ctx context.Context, draft *models.PostalAddress) (*models.PostalAddress, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	s.notify(draft)
	return draft, nil
}

func (s *PostalAddressService) Get(ctx context.Context, id uuid.UUID) (*models.PostalAddress, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PostalAddressService) List(ctx context.Context, nameFilter string, limit int) ([]*models.PostalAddress, error) {
	return s.repo.List(ctx, nameFilter, limit)
}

// Update performs the conditional write. When the expected version lost, the
// stored row is refetched so the conflict carries the winner's version and
// snapshot; a row that is gone entirely reports not-found instead.
func (s *PostalAddressService) Update(ctx context.Context, draft *models.PostalAddress, expected int64) (*models.PostalAddress, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	tag, err := s.repo.UpdateIfVersion(ctx, draft, expected)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		current, gerr := s.repo.GetByID(ctx, draft.ID)
		if gerr != nil {
			if errors.Is(gerr, utils.ErrNotFound) {
				return nil, utils.ErrNotFound
			}
			return nil, gerr
		}
		return nil, &utils.ConflictError{CurrentVersion: current.RowVersion, Current: current}
	}
	s.notify(draft)
	return draft, nil
}

// Copy creates a new address from the stored field values of id. The copy
// gets its own id, starts at version 0 and is renamed so it does not collide
// with the source's uniqueness key; the source row is untouched.
func (s *PostalAddressService) Copy(ctx context.Context, id uuid.UUID) (*models.PostalAddress, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := src.Copy()
	draft.Name = utils.NormalizeWS(draft.Name + " (copy)")
	return s.Create(ctx, draft)
}

// SoftDelete hides the address from lists and frees its uniqueness key.
func (s *PostalAddressService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *PostalAddressService) notify(p *models.PostalAddress) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(registry.Notice{Kind: registry.KindAddress, ID: p.ID, Version: p.RowVersion})
}
