package auto

import "github.com/warp/rating-engine/rating"

// =============================================================================
// DRIVER RECORDS
// =============================================================================

// Accident is one accident on a driver's record.
type Accident struct {
	Date    rating.Date
	AtFault bool
}

// ViolationType classifies a traffic violation for factor matching.
type ViolationType string

const (
	ViolationDUI      ViolationType = "dui"
	ViolationMajor    ViolationType = "major"
	ViolationSpeeding ViolationType = "speeding"
	ViolationMinorTkt ViolationType = "minor"
)

// Violation is one traffic violation on a driver's record.
type Violation struct {
	Date rating.Date
	Type ViolationType
}

// Driver is one driver on the policy. The primary driver's attributes
// drive age-bracket rating.
type Driver struct {
	Name          string
	BirthDate     rating.Date
	LicenseNumber string
	LicenseState  string
	IsPrimary     bool
	Accidents     []Accident
	Violations    []Violation
}

// AgeAt returns the driver's age at the reference date, truncated to
// whole years (a driver is 24 until the day of their 25th birthday).
func (d Driver) AgeAt(ref rating.Date) int {
	age := ref.Year() - d.BirthDate.Year()
	if ref.Month() < d.BirthDate.Month() ||
		(ref.Month() == d.BirthDate.Month() && ref.Day() < d.BirthDate.Day()) {
		age--
	}
	return age
}

// accidentClass buckets the record: at-fault outranks any, which
// outranks none.
func (d Driver) accidentClass() rating.AccidentClass {
	if len(d.Accidents) == 0 {
		return rating.AccidentNone
	}
	for _, a := range d.Accidents {
		if a.AtFault {
			return rating.AccidentAtFault
		}
	}
	return rating.AccidentAny
}

// violationClass buckets the record: DUI and major violations outrank
// everything else.
func (d Driver) violationClass() rating.ViolationClass {
	if len(d.Violations) == 0 {
		return rating.ViolationNone
	}
	for _, v := range d.Violations {
		if v.Type == ViolationDUI || v.Type == ViolationMajor {
			return rating.ViolationMajor
		}
	}
	return rating.ViolationMinor
}
