package models

import (
	"fmt"
	"time"
)

// ServiceKind is the closed enumeration of tracked service types. Each kind
// owns an independent counter on the vehicle: performing one never resets
// the other.
type ServiceKind string

const (
	ServiceOil         ServiceKind = "Oil"
	ServiceMaintenance ServiceKind = "Maintenance"
)

// ParseServiceKind validates a raw service kind string.
func ParseServiceKind(raw string) (ServiceKind, error) {
	switch ServiceKind(raw) {
	case ServiceOil, ServiceMaintenance:
		return ServiceKind(raw), nil
	}
	return "", fmt.Errorf("unknown service kind %q", raw)
}

// MaintenanceLogEntry is an audit record of a performed service. Entries are
// append-only: never updated or deleted by normal operation.
type MaintenanceLogEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// VehicleID is the owning vehicle.
	VehicleID string

	// Kind is the service type performed.
	Kind ServiceKind

	// Date is when the service was recorded.
	Date time.Time

	// MileageAtService is the vehicle's TotalDistance at the moment the
	// service was performed, captured verbatim and never recomputed.
	MileageAtService float64

	// Notes is optional free text.
	Notes string
}
