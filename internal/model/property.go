package model

// Property is a rental property owned by one or more landlords.
type Property struct {
	ID      int64   `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:100;not null" json:"name"`
	Address string  `gorm:"size:50;not null" json:"address"`
	Image   *string `gorm:"size:255" json:"image,omitempty"`

	// Associations
	Appliances []PropertyAppliance `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	Landlords  []UserProperty      `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p Property) String() string { return p.Name }
