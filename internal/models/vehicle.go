package models

import "fmt"

// VehicleClass is the closed classification of a vehicle. It parameterizes
// the service-due thresholds.
type VehicleClass string

const (
	ClassCar        VehicleClass = "Car"
	ClassMotorcycle VehicleClass = "Motorcycle"
)

// ParseVehicleClass validates a raw class string.
func ParseVehicleClass(raw string) (VehicleClass, error) {
	switch VehicleClass(raw) {
	case ClassCar, ClassMotorcycle:
		return VehicleClass(raw), nil
	}
	return "", fmt.Errorf("unknown vehicle class %q", raw)
}

// Vehicle represents a tracked vehicle and its derived aggregate state.
type Vehicle struct {
	// ID is the unique identifier for the vehicle (UUID format).
	ID string

	// OwnerID identifies the user the vehicle belongs to. A vehicle's
	// trips and maintenance history are owned exclusively by the vehicle
	// and are removed with it.
	OwnerID string

	// Class selects the due-distance thresholds, see the due package.
	Class VehicleClass

	// Plate is the display plate identifier, unique per owner.
	Plate string

	// TotalDistance is the running sum of trip distances. After a full
	// reload it equals the sum of the remaining trips' distances exactly;
	// between reloads it moves by each trip's signed delta.
	TotalDistance float64

	// LastOilServiceDistance is the value TotalDistance had when an Oil
	// service was last performed. Monotonically non-decreasing.
	LastOilServiceDistance float64

	// LastMaintenanceServiceDistance is the value TotalDistance had when a
	// Maintenance service was last performed. Monotonically non-decreasing.
	LastMaintenanceServiceDistance float64

	// Trips is the vehicle's ledger in insertion order. Populated when the
	// vehicle is loaded with relations.
	Trips []Trip

	// History is the append-only maintenance log, oldest first. Populated
	// when the vehicle is loaded with relations.
	History []MaintenanceLogEntry

	// CreatedAt is the Unix timestamp when the vehicle was created.
	CreatedAt int64
}

// LastServiceDistance returns the counter matching the given service kind.
func (v *Vehicle) LastServiceDistance(kind ServiceKind) float64 {
	if kind == ServiceMaintenance {
		return v.LastMaintenanceServiceDistance
	}
	return v.LastOilServiceDistance
}

// TripSum returns the sum of the loaded trips' distances. It is the
// ledger-derived value TotalDistance must converge to after a reload.
func (v *Vehicle) TripSum() float64 {
	var sum float64
	for _, t := range v.Trips {
		sum += t.Distance
	}
	return sum
}
