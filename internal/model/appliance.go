package model

// DefaultWarrantyDays is the catalog warranty when none is given.
const DefaultWarrantyDays = 365

// Appliance is a catalog entry, independent of any property.
type Appliance struct {
	ID               int64            `gorm:"primaryKey" json:"id"`
	Type             ApplianceType    `gorm:"column:appliance_type;size:20;not null;index" json:"appliance_type"`
	Brand            string           `gorm:"size:50;not null" json:"brand"`
	Model            string           `gorm:"size:50;not null" json:"model"`
	Cost             int              `gorm:"not null" json:"cost"`
	MatchingScore    float64          `gorm:"not null" json:"matching_score"`
	WarrantyDays     int              `gorm:"not null;default:365" json:"warranty_days"`
	EfficiencyRating EfficiencyRating `gorm:"size:50;not null" json:"efficiency_rating"`
	Image            string           `gorm:"size:255;not null" json:"image"`

	// Associations
	Installations []PropertyAppliance `gorm:"foreignKey:ApplianceID;constraint:OnDelete:CASCADE" json:"-"`
	Replacements  []Schedule          `gorm:"foreignKey:ReplacementApplianceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a Appliance) String() string { return a.Brand + " " + a.Model }
