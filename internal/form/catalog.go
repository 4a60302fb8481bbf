package form

import (
	"strings"

	"appliance-manager/internal/model"
	"appliance-manager/internal/parse"
)

// ApplianceInput creates a catalog entry. It is bound from JSON by the staff API.
type ApplianceInput struct {
	Type             string   `json:"appliance_type" form:"appliance_type" validate:"required,appliance_type"`
	Brand            string   `json:"brand" form:"brand" validate:"required,max=50"`
	Model            string   `json:"model" form:"model" validate:"required,max=50"`
	Cost             *int     `json:"cost" form:"cost" validate:"required,gte=0"`
	MatchingScore    *float64 `json:"matching_score" form:"matching_score" validate:"required,gte=0,lte=1"`
	WarrantyPeriod   string   `json:"warranty_period" form:"warranty_period"`
	EfficiencyRating string   `json:"efficiency_rating" form:"efficiency_rating" validate:"required,efficiency"`
	Image            string   `json:"image" form:"image" validate:"required,max=255"`
}

// Validate returns the catalog appliance or FieldErrors. An empty warranty
// period means the default of 365 days.
func (in ApplianceInput) Validate() (*model.Appliance, error) {
	errs := check(in)

	a := &model.Appliance{
		Type:             model.ApplianceType(in.Type),
		Brand:            strings.TrimSpace(in.Brand),
		Model:            strings.TrimSpace(in.Model),
		WarrantyDays:     model.DefaultWarrantyDays,
		EfficiencyRating: model.EfficiencyRating(in.EfficiencyRating),
		Image:            in.Image,
	}
	if in.Cost != nil {
		a.Cost = *in.Cost
	}
	if in.MatchingScore != nil {
		a.MatchingScore = *in.MatchingScore
	}

	if strings.TrimSpace(in.WarrantyPeriod) != "" {
		days, err := parse.WarrantyDuration(in.WarrantyPeriod)
		switch {
		case err != nil:
			errs.Add("warranty_period", "Enter a valid duration.")
		case days < 0:
			errs.Add("warranty_period", "Warranty period cannot be negative")
		default:
			a.WarrantyDays = days
		}
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return a, nil
}

// PropertyInput creates a property.
type PropertyInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Address string `json:"address" form:"address" validate:"required,max=50"`
	Image   string `json:"image" form:"image" validate:"omitempty,max=255"`
}

func (in PropertyInput) Validate() (*model.Property, error) {
	if err := check(in).orNil(); err != nil {
		return nil, err
	}
	return &model.Property{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Image:   optional(in.Image),
	}, nil
}

// AssignmentInput links a landlord to a property.
type AssignmentInput struct {
	UserID     int64 `json:"user_id" form:"user_id" validate:"required,gt=0"`
	PropertyID int64 `json:"property_id" form:"property_id" validate:"required,gt=0"`
}

func (in AssignmentInput) Validate() error {
	return check(in).orNil()
}
