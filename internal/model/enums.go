package model

// ApplianceType is the closed set of catalog appliance kinds.
type ApplianceType string

const (
	ApplianceWashingMachine ApplianceType = "WASHING_MACHINE"
	ApplianceDishwasher     ApplianceType = "DISHWASHER"
	ApplianceDryer          ApplianceType = "DRYER"
	ApplianceOven           ApplianceType = "OVEN"
	ApplianceMicrowave      ApplianceType = "MICROWAVE"
	ApplianceRefrigerator   ApplianceType = "REFRIGERATOR"
	ApplianceFreezer        ApplianceType = "FREEZER"
	ApplianceToaster        ApplianceType = "TOASTER"
	ApplianceToasterOven    ApplianceType = "TOASTER_OVEN"
)

// AllApplianceTypes lists every appliance type in display order.
func AllApplianceTypes() []ApplianceType {
	return []ApplianceType{
		ApplianceWashingMachine,
		ApplianceDishwasher,
		ApplianceDryer,
		ApplianceOven,
		ApplianceMicrowave,
		ApplianceRefrigerator,
		ApplianceFreezer,
		ApplianceToaster,
		ApplianceToasterOven,
	}
}

// Label returns the human-readable name, or "" for an unknown type.
func (t ApplianceType) Label() string {
	switch t {
	case ApplianceWashingMachine:
		return "Washing machine"
	case ApplianceDishwasher:
		return "Dishwasher"
	case ApplianceDryer:
		return "Dryer"
	case ApplianceOven:
		return "Oven"
	case ApplianceMicrowave:
		return "Microwave"
	case ApplianceRefrigerator:
		return "Refrigerator"
	case ApplianceFreezer:
		return "Freezer"
	case ApplianceToaster:
		return "Toaster"
	case ApplianceToasterOven:
		return "Toaster oven"
	}
	return ""
}

func (t ApplianceType) Valid() bool { return t.Label() != "" }

// EfficiencyRating is an ordered energy-efficiency grade.
type EfficiencyRating string

const (
	EfficiencyVeryLow  EfficiencyRating = "very_low"
	EfficiencyLow      EfficiencyRating = "low"
	EfficiencyBad      EfficiencyRating = "bad"
	EfficiencyModerate EfficiencyRating = "moderate"
	EfficiencyGood     EfficiencyRating = "good"
	EfficiencyHigh     EfficiencyRating = "high"
	EfficiencyVeryHigh EfficiencyRating = "very_high"
)

// AllEfficiencyRatings lists the ratings from worst to best.
func AllEfficiencyRatings() []EfficiencyRating {
	return []EfficiencyRating{
		EfficiencyVeryLow,
		EfficiencyLow,
		EfficiencyBad,
		EfficiencyModerate,
		EfficiencyGood,
		EfficiencyHigh,
		EfficiencyVeryHigh,
	}
}

// Rank is the 1-based position of the rating, 0 when unknown.
func (r EfficiencyRating) Rank() int {
	switch r {
	case EfficiencyVeryLow:
		return 1
	case EfficiencyLow:
		return 2
	case EfficiencyBad:
		return 3
	case EfficiencyModerate:
		return 4
	case EfficiencyGood:
		return 5
	case EfficiencyHigh:
		return 6
	case EfficiencyVeryHigh:
		return 7
	}
	return 0
}

func (r EfficiencyRating) Valid() bool { return r.Rank() > 0 }

// Label returns the enum name the admin UI shows, e.g. "VERY_LOW".
func (r EfficiencyRating) Label() string {
	switch r {
	case EfficiencyVeryLow:
		return "VERY_LOW"
	case EfficiencyLow:
		return "LOW"
	case EfficiencyBad:
		return "BAD"
	case EfficiencyModerate:
		return "MODERATE"
	case EfficiencyGood:
		return "GOOD"
	case EfficiencyHigh:
		return "HIGH"
	case EfficiencyVeryHigh:
		return "VERY_HIGH"
	}
	return ""
}

// Usage is how heavily an installed appliance is used.
type Usage string

const (
	UsageLow      Usage = "low"
	UsageMedium   Usage = "medium"
	UsageHigh     Usage = "high"
	UsageVeryHigh Usage = "very_high"
)

// AllUsages lists the usage levels from lightest to heaviest.
func AllUsages() []Usage {
	return []Usage{UsageLow, UsageMedium, UsageHigh, UsageVeryHigh}
}

func (u Usage) Label() string {
	switch u {
	case UsageLow:
		return "LOW"
	case UsageMedium:
		return "MEDIUM"
	case UsageHigh:
		return "HIGH"
	case UsageVeryHigh:
		return "VERY_HIGH"
	}
	return ""
}

func (u Usage) Valid() bool { return u.Label() != "" }

// Severity tags returned by Usage.SeverityClass.
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
	SeverityMuted   = "muted"
)

// SeverityClass maps the usage level to a display severity.
func (u Usage) SeverityClass() string {
	switch u {
	case UsageLow:
		return SeveritySuccess
	case UsageMedium:
		return SeverityWarning
	case UsageHigh, UsageVeryHigh:
		return SeverityDanger
	}
	return SeverityMuted
}

// TextClass is the CSS utility class for the usage badge.
func (u Usage) TextClass() string {
	return "text-" + u.SeverityClass()
}
