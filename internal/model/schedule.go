package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Schedule is a planned replacement of an installed appliance.
type Schedule struct {
	ID                     int64          `gorm:"primaryKey"`
	PropertyApplianceID    int64          `gorm:"not null;index"`
	ReplacementApplianceID int64          `gorm:"not null;index"`
	Date                   datatypes.Date `gorm:"not null"`
	Hour                   int            `gorm:"not null;check:hour >= 0 AND hour <= 23"`
	Minute                 int            `gorm:"not null;check:minute >= 0 AND minute <= 59"`
	NotificationsEnabled   bool           `gorm:"not null;default:false"`
	TenantEmail            *string        `gorm:"size:254"`
	TenantPhone            *string        `gorm:"size:15"`
	CreatedAt              time.Time

	// Associations
	PropertyAppliance    PropertyAppliance `gorm:"constraint:OnDelete:CASCADE"`
	ReplacementAppliance Appliance         `gorm:"foreignKey:ReplacementApplianceID;constraint:OnDelete:CASCADE"`
}

// Day returns the scheduled calendar date.
func (s Schedule) Day() time.Time {
	return DateOnly(time.Time(s.Date))
}

// TimeLabel formats the slot as HH:MM.
func (s Schedule) TimeLabel() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// At is the scheduled moment in the given location.
func (s Schedule) At(loc *time.Location) time.Time {
	y, m, d := s.Day().Date()
	return time.Date(y, m, d, s.Hour, s.Minute, 0, 0, loc)
}

func (s Schedule) String() string {
	return fmt.Sprintf("%s Replacement %s::%s", s.PropertyAppliance, s.Day().Format(time.DateOnly), s.TimeLabel())
}
