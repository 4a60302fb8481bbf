package form

import (
	"context"
	"strings"
	"time"

	"appliance-manager/internal/model"
	"appliance-manager/internal/parse"
)

// ScheduleInput is the replacement-appointment form as submitted.
type ScheduleInput struct {
	PropertyApplianceID    string `form:"property_appliance_id" validate:"required,int"`
	ReplacementApplianceID string `form:"replacement_appliance_id" validate:"required,int"`
	Date                   string `form:"date" validate:"required,datetime=2006-01-02"`
	Hour                   string `form:"hour" validate:"required,int"`
	Minute                 string `form:"minute" validate:"required,int"`
	NotificationsEnabled   string `form:"notifications_enabled"`
	TenantEmail            string `form:"tenant_email" validate:"omitempty,email"`
	TenantPhone            string `form:"tenant_phone"`
}

// Validate checks the input against today's date and resolves both
// appliances. Field problems come back as FieldErrors; lookup failures other
// than a missing row are returned as is.
func (in ScheduleInput) Validate(ctx context.Context, lookup Lookup, today time.Time) (*model.Schedule, error) {
	in.TenantEmail = strings.TrimSpace(in.TenantEmail)
	errs := check(in)

	s := &model.Schedule{
		NotificationsEnabled: checked(in.NotificationsEnabled),
		TenantEmail:          optional(in.TenantEmail),
	}

	if !errs.Has("property_appliance_id") {
		pa, err := lookup.GetPropertyAppliance(ctx, atoi64(in.PropertyApplianceID))
		if err != nil {
			if err := lookupError(errs, "property_appliance_id", "Invalid property appliance", err); err != nil {
				return nil, err
			}
		} else {
			s.PropertyApplianceID = pa.ID
			s.PropertyAppliance = *pa
		}
	}

	if !errs.Has("replacement_appliance_id") {
		a, err := lookup.GetAppliance(ctx, atoi64(in.ReplacementApplianceID))
		if err != nil {
			if err := lookupError(errs, "replacement_appliance_id", "Invalid replacement appliance", err); err != nil {
				return nil, err
			}
		} else {
			s.ReplacementApplianceID = a.ID
			s.ReplacementAppliance = *a
		}
	}

	if !errs.Has("date") {
		d, _ := parse.Date(in.Date)
		if d.Before(model.DateOnly(today)) {
			errs.Add("date", "Cannot schedule for past dates")
		}
		s.Date = model.NewDate(d)
	}

	if !errs.Has("hour") {
		s.Hour = atoi(in.Hour)
		checkVar(errs, "hour", s.Hour, "min=0,max=23")
	}
	if !errs.Has("minute") {
		s.Minute = atoi(in.Minute)
		checkVar(errs, "minute", s.Minute, "min=0,max=59")
	}

	phone, err := parse.Phone(in.TenantPhone)
	if err != nil {
		errs.Add("tenant_phone", "Phone number must be at least 10 digits")
	} else {
		checkVar(errs, "tenant_phone", phone, "max=15")
	}
	s.TenantPhone = optional(phone)

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return s, nil
}
