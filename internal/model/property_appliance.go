package model

import (
	"time"

	"gorm.io/datatypes"
)

// PropertyAppliance is one catalog appliance installed at one property, with
// installation-specific overrides. Appliance must be preloaded before any of
// the resolution methods are called.
type PropertyAppliance struct {
	ID                 int64          `gorm:"primaryKey"`
	PropertyID         int64          `gorm:"not null;index"`
	ApplianceID        int64          `gorm:"not null;index"`
	PurchaseDate       datatypes.Date `gorm:"not null"`
	ActualCost         *int
	ActualWarrantyDays *int
	Usage              Usage `gorm:"size:50;not null"`

	// Associations
	Property  Property   `gorm:"constraint:OnDelete:CASCADE"`
	Appliance Appliance  `gorm:"constraint:OnDelete:CASCADE"`
	Schedules []Schedule `gorm:"foreignKey:PropertyApplianceID;constraint:OnDelete:CASCADE"`
}

// Coalesce returns the override when it is set and non-negative, otherwise def.
// Negative overrides are rejected when written, so they never win here either.
func Coalesce(override *int, def int) int {
	if override != nil && *override >= 0 {
		return *override
	}
	return def
}

// EffectiveCost is the actual cost if recorded, else the catalog cost.
func (pa PropertyAppliance) EffectiveCost() int {
	return Coalesce(pa.ActualCost, pa.Appliance.Cost)
}

// EffectiveWarrantyDays is the actual warranty if recorded, else the catalog default.
func (pa PropertyAppliance) EffectiveWarrantyDays() int {
	return Coalesce(pa.ActualWarrantyDays, pa.Appliance.WarrantyDays)
}

// WarrantyEnd is the last calendar day covered by the warranty.
func (pa PropertyAppliance) WarrantyEnd() time.Time {
	return DateOnly(time.Time(pa.PurchaseDate)).AddDate(0, 0, pa.EffectiveWarrantyDays())
}

// IsWithinWarrantyAt reports whether today is on or before the warranty end.
func (pa PropertyAppliance) IsWithinWarrantyAt(today time.Time) bool {
	return !DateOnly(today).After(pa.WarrantyEnd())
}

func (pa PropertyAppliance) IsWithinWarranty() bool {
	return pa.IsWithinWarrantyAt(time.Now().UTC())
}

func (pa PropertyAppliance) UsageSeverityClass() string {
	return pa.Usage.SeverityClass()
}

func (pa PropertyAppliance) String() string {
	return pa.Appliance.String() + " at " + pa.Property.String()
}

// DateOnly strips the time of day, keeping the wall-clock calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate wraps a calendar date for storage.
func NewDate(t time.Time) datatypes.Date {
	return datatypes.Date(DateOnly(t))
}
