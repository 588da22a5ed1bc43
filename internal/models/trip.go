package models

import "time"

// Trip represents a single distance event on a vehicle's ledger.
// Trips are immutable once created; correcting one means deleting it and
// recording a new one.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// VehicleID is the owning vehicle.
	VehicleID string

	// Date is the calendar date of the trip. Ordering of the ledger is by
	// insertion, not by date; no backdating recomputation happens.
	Date time.Time

	// Distance is the trip's distance in the vehicle's native unit.
	// Always finite and non-negative.
	Distance float64

	// Label is an optional human-readable name ("commute", "road trip").
	Label string
}
