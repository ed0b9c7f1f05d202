// Package auto implements the auto-insurance domain on top of the
// generic rating engine: vehicle and driver records, history
// classification, and the quoter that turns them into rating contexts.
package auto

// =============================================================================
// VEHICLE CLASSIFICATION
// =============================================================================

// VehicleType classifies the insured vehicle.
type VehicleType string

const (
	VehicleSedan        VehicleType = "Sedan"
	VehicleSUV          VehicleType = "SUV"
	VehicleTruck        VehicleType = "Truck"
	VehicleMotorcycle   VehicleType = "Motorcycle"
	VehicleCommercial   VehicleType = "Commercial"
	VehicleAgricultural VehicleType = "Agricultural"
)

// VehicleTypes lists every known vehicle type.
var VehicleTypes = []VehicleType{
	VehicleSedan, VehicleSUV, VehicleTruck,
	VehicleMotorcycle, VehicleCommercial, VehicleAgricultural,
}

// Valid reports whether vt is a known vehicle type.
func (vt VehicleType) Valid() bool {
	for _, known := range VehicleTypes {
		if vt == known {
			return true
		}
	}
	return false
}

// VehicleUsage classifies how the vehicle is driven.
type VehicleUsage string

const (
	UsageCommuting    VehicleUsage = "Commuting"
	UsageBusiness     VehicleUsage = "Business"
	UsageAgricultural VehicleUsage = "Agricultural"
	UsagePleasure     VehicleUsage = "Pleasure"
)

// VehicleUsages lists every known usage.
var VehicleUsages = []VehicleUsage{
	UsageCommuting, UsageBusiness, UsageAgricultural, UsagePleasure,
}

// Valid reports whether vu is a known usage.
func (vu VehicleUsage) Valid() bool {
	for _, known := range VehicleUsages {
		if vu == known {
			return true
		}
	}
	return false
}

// Vehicle is the insured vehicle. Built by the caller, read-only here.
type Vehicle struct {
	Year           int
	Make           string
	Model          string
	Type           VehicleType
	Usage          VehicleUsage
	VIN            string
	SafetyFeatures []string
}
