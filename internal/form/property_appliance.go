package form

import (
	"context"
	"strings"
	"time"

	"appliance-manager/internal/model"
	"appliance-manager/internal/parse"
)

// PropertyApplianceInput is the add-appliance form. Property carries the id of
// the landlord's UserProperty the modal was opened from.
type PropertyApplianceInput struct {
	Property             string `form:"property"`
	Appliance            string `form:"appliance" validate:"required,int"`
	ActualCost           string `form:"actual_cost" validate:"omitempty,int"`
	ActualWarrantyPeriod string `form:"actual_warranty_period"`
	Usage                string `form:"usage" validate:"required,usage"`
	PurchaseDate         string `form:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

// Validate resolves the installation described by the form. The returned
// UserProperty is the one named by the property field.
func (in PropertyApplianceInput) Validate(ctx context.Context, lookup Lookup, today time.Time) (*model.PropertyAppliance, *model.UserProperty, error) {
	in.ActualCost = strings.TrimSpace(in.ActualCost)
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	errs := check(in)

	pa := &model.PropertyAppliance{
		Usage:        model.Usage(in.Usage),
		PurchaseDate: model.NewDate(today),
	}

	var up *model.UserProperty
	if id := atoi64(in.Property); id <= 0 {
		errs.Add(NonFieldErrors, "Property ID is required")
	} else {
		found, err := lookup.GetUserProperty(ctx, id)
		if err != nil {
			if err := lookupError(errs, "property", "Invalid property", err); err != nil {
				return nil, nil, err
			}
		} else {
			up = found
			pa.PropertyID = found.PropertyID
			pa.Property = found.Property
		}
	}

	if !errs.Has("appliance") {
		a, err := lookup.GetAppliance(ctx, atoi64(in.Appliance))
		if err != nil {
			if err := lookupError(errs, "appliance", "Invalid appliance", err); err != nil {
				return nil, nil, err
			}
		} else {
			pa.ApplianceID = a.ID
			pa.Appliance = *a
		}
	}

	if in.ActualCost != "" && !errs.Has("actual_cost") {
		cost := atoi(in.ActualCost)
		if cost < 0 {
			errs.Add("actual_cost", "Cost cannot be negative")
		}
		pa.ActualCost = &cost
	}

	if strings.TrimSpace(in.ActualWarrantyPeriod) != "" {
		days, err := parse.WarrantyDuration(in.ActualWarrantyPeriod)
		switch {
		case err != nil:
			errs.Add("actual_warranty_period", "Enter a valid duration.")
		case days < 0:
			errs.Add("actual_warranty_period", "Warranty period cannot be negative")
		default:
			pa.ActualWarrantyDays = &days
		}
	}

	if in.PurchaseDate != "" && !errs.Has("purchase_date") {
		d, _ := parse.Date(in.PurchaseDate)
		pa.PurchaseDate = model.NewDate(d)
	}

	if err := errs.orNil(); err != nil {
		return nil, nil, err
	}
	return pa, up, nil
}
