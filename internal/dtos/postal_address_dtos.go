package dtos

import (
	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/models"
)

// SavePostalAddressRequest is the payload of create and update. On update,
// RowVersion carries the version the client last saw; the write only
// succeeds if the stored row still has it.
type SavePostalAddressRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street_address" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Locality   string `json:"address_locality" validate:"required"`
	Region     string `json:"address_region"`
	Country    string `json:"address_country" validate:"required"`
	RowVersion int64  `json:"row_version"`
}

// ToModel builds the draft for the save path. Normalization and the full
// field validation happen in the service.
func (r *SavePostalAddressRequest) ToModel(id uuid.UUID) *models.PostalAddress {
	p := &models.PostalAddress{
		ID:         id,
		Name:       r.Name,
		Street:     r.Street,
		PostalCode: r.PostalCode,
		Locality:   r.Locality,
		Region:     r.Region,
		Country:    r.Country,
	}
	p.SetRowVersion(r.RowVersion)
	return p
}
