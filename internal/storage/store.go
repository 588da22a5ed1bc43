// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/adilzhm/garagelog/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert or update violates a
	// uniqueness constraint (owner + plate on vehicles). Callers are
	// expected to distinguish it from generic store failures.
	ErrDuplicate = errors.New("duplicate record")
)

// CounterPatch is a partial update of a vehicle's derived counters. Nil
// fields are left untouched. The store applies a patch as a single-row
// update; it never recomputes values itself.
type CounterPatch struct {
	TotalDistance                  *float64
	LastOilServiceDistance         *float64
	LastMaintenanceServiceDistance *float64
}

// Store defines the record-store contract the coordinator runs against.
// Only single-entity operations are offered; there are no multi-entity
// transactions. Compound mutations (trip + aggregate, counter + log entry)
// are sequenced by the caller, which recovers from partial completion by
// re-deriving aggregates on the next full reload.
type Store interface {
	// InsertVehicle persists a new vehicle, populating ID and CreatedAt.
	// Returns ErrDuplicate when the owner already uses the plate.
	InsertVehicle(ctx context.Context, v *models.Vehicle) error

	// UpdateVehicle changes a vehicle's class and plate. Derived counters
	// are not touched. Returns ErrNotFound or ErrDuplicate.
	UpdateVehicle(ctx context.Context, id string, class models.VehicleClass, plate string) error

	// UpdateVehicleCounters applies a counter patch to one vehicle row.
	UpdateVehicleCounters(ctx context.Context, id string, patch CounterPatch) error

	// DeleteVehicle removes a vehicle and, by cascade, its trips and
	// maintenance log entries.
	DeleteVehicle(ctx context.Context, id string) error

	// InsertTrip appends a trip to the ledger, populating its ID.
	InsertTrip(ctx context.Context, t *models.Trip) error

	// DeleteTrip removes a single trip row.
	DeleteTrip(ctx context.Context, id string) error

	// InsertServiceEntry appends a maintenance log entry, populating its ID.
	InsertServiceEntry(ctx context.Context, e *models.MaintenanceLogEntry) error

	// VehiclesByOwner loads every vehicle of one owner. With relations,
	// trips (insertion order) and maintenance history (oldest first) are
	// attached.
	VehiclesByOwner(ctx context.Context, ownerID string, withRelations bool) ([]*models.Vehicle, error)

	// Close releases any resources held by the store.
	Close() error
}
