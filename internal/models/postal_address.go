package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

// PostalAddress is a stored postal address. Name and Region are optional;
// everything else is required. The uniqueness key among non-deleted rows is
// (name, postal_code, locality).
type PostalAddress struct {
	ID uuid.UUID `json:"id"`
	Versioned
	Name       string     `json:"name,omitempty"`
	Street     string     `json:"street_address"`
	PostalCode string     `json:"postal_code"`
	Locality   string     `json:"address_locality"`
	Region     string     `json:"address_region,omitempty"`
	Country    string     `json:"address_country"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"-"`
}

func (p *PostalAddress) GetID() string { return p.ID.String() }

// Normalize brings every field into its canonical form. Save paths call it
// before Validate, so what is persisted is exactly what was validated.
func (p *PostalAddress) Normalize() {
	p.Name = utils.NormalizeWS(p.Name)
	p.Street = utils.NormalizeWS(p.Street)
	p.PostalCode = utils.DigitsOnly(p.PostalCode)
	p.Locality = utils.NormalizeWS(p.Locality)
	p.Region = utils.NormalizeWS(p.Region)
	p.Country = utils.NormalizeCountry(p.Country)
}

// Validate checks the normalized address. Postal code validity depends on
// the selected country: for "DE" exactly 5 digits are required. Other
// countries only require a non-empty code until country-specific rules are
// available.
func (p *PostalAddress) Validate() error {
	var errs utils.ValidationErrors

	if p.Street == "" {
		errs.Add(utils.NewFieldError("street_address", utils.FieldCodeRequired, ""))
	}
	if p.Locality == "" {
		errs.Add(utils.NewFieldError("address_locality", utils.FieldCodeRequired, ""))
	}
	if p.Country == "" {
		errs.Add(utils.NewFieldError("address_country", utils.FieldCodeRequired, ""))
	}

	switch {
	case p.PostalCode == "":
		errs.Add(utils.NewFieldError("postal_code", utils.FieldCodeRequired, ""))
	case p.Country == "DE" && len(p.PostalCode) != 5:
		errs.Add(utils.FieldError{
			Field:   "postal_code",
			Code:    utils.FieldCodeInvalidFormat,
			Message: "postal code must be exactly 5 digits",
			Params:  map[string]string{"length": "5", "country": "DE"},
		})
	}

	return errs.OrNil()
}

// UniquenessKey returns the column/value pairs that must be unique among
// live addresses. Used by duplicate-key reporting.
func (p *PostalAddress) UniquenessKey() map[string]string {
	return map[string]string{
		"name":             p.Name,
		"postal_code":      p.PostalCode,
		"address_locality": p.Locality,
	}
}

// Copy returns an independent address seeded from p's field values. The new
// address has no id and no version yet; the original is untouched.
func (p *PostalAddress) Copy() *PostalAddress {
	return &PostalAddress{
		Name:       p.Name,
		Street:     p.Street,
		PostalCode: p.PostalCode,
		Locality:   p.Locality,
		Region:     p.Region,
		Country:    p.Country,
	}
}
