// Package ledger implements the consistency rules between a vehicle's trip
// ledger, its maintenance log, and its derived aggregate counters.
//
// The Coordinator sequences compound mutations against a record store that
// only offers single-entity operations. When the second step of a compound
// mutation fails, nothing is rolled back: the trip ledger is the source of
// truth and every full refresh re-derives the aggregate from it, so partial
// completion heals on the next reload.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/adilzhm/garagelog/internal/due"
	"github.com/adilzhm/garagelog/internal/models"
	"github.com/adilzhm/garagelog/internal/storage"
)

// Coordinator executes the compound vehicle/trip/service operations and owns
// the per-owner snapshot cache. Mutations for one owner are expected to be
// issued sequentially from one logical session; operations on different
// owners are independent and may run in parallel.
type Coordinator struct {
	store   storage.Store
	cache   *cache
	metrics *Metrics

	// reloadLocks serializes the full reload per owner: a reload already in
	// flight is awaited, not raced, so stale data never overwrites fresh.
	reloadLocks sync.Map // ownerID -> *sync.Mutex
}

// New creates a Coordinator over the given store. metrics must not be nil;
// use NewMetrics(nil) for unregistered collectors.
func New(store storage.Store, metrics *Metrics) *Coordinator {
	return &Coordinator{
		store:   store,
		cache:   newCache(),
		metrics: metrics,
	}
}

// TripResult is the outcome of a trip mutation. Warning is non-nil when the
// trip row was written but the aggregate counter update failed; the total is
// then re-derived from the ledger on the next refresh.
type TripResult struct {
	Trip    *models.Trip
	Warning error
}

// ServiceResult is the outcome of PerformService. Warning is non-nil when
// the service counter was reset but the audit log append failed; the due
// status is already correct in that case, only the history record is
// missing.
type ServiceResult struct {
	Entry   *models.MaintenanceLogEntry
	Vehicle *models.Vehicle
	Warning error
}

// TripInput describes a trip to append to a vehicle's ledger.
type TripInput struct {
	Date     time.Time
	Distance float64
	Label    string
}

// Refresh performs the full reload-and-rederive pass for one owner: load
// every vehicle with relations, re-derive each TotalDistance from the trip
// sum, repair the stored counter when it disagrees, and rebuild the cache.
func (c *Coordinator) Refresh(ctx context.Context, ownerID string) ([]*models.Vehicle, error) {
	lock := c.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	vehicles, err := c.store.VehiclesByOwner(ctx, ownerID, true)
	if err != nil {
		c.cache.invalidate(ownerID)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	for _, v := range vehicles {
		sum := v.TripSum()
		if sum == v.TotalDistance {
			continue
		}
		slog.Warn("aggregate out of sync with ledger, re-derived",
			"vehicle_id", v.ID, "stored", v.TotalDistance, "derived", sum)
		c.metrics.aggregateRepairs.Inc()
		v.TotalDistance = sum
		// Best effort write-back; the in-memory snapshot is already correct
		// and the next refresh will retry.
		if err := c.store.UpdateVehicleCounters(ctx, v.ID, storage.CounterPatch{TotalDistance: &sum}); err != nil {
			slog.Error("failed to write repaired total", "vehicle_id", v.ID, "error", err)
		}
	}

	c.cache.put(ownerID, vehicles)
	return vehicles, nil
}

// ListVehicles returns the owner's vehicles from the snapshot cache, loading
// it if empty. forceRefresh bypasses the cache.
func (c *Coordinator) ListVehicles(ctx context.Context, ownerID string, forceRefresh bool) ([]*models.Vehicle, error) {
	if !forceRefresh {
		if vehicles, ok := c.cache.get(ownerID); ok {
			return vehicles, nil
		}
	}
	return c.Refresh(ctx, ownerID)
}

// GetVehicle returns one vehicle of the owner, with relations.
func (c *Coordinator) GetVehicle(ctx context.Context, ownerID, vehicleID string) (*models.Vehicle, error) {
	vehicles, err := c.ListVehicles(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if v.ID == vehicleID {
			return v, nil
		}
	}
	return nil, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
}

// AddVehicle creates a vehicle with zeroed counters. A plate already used by
// the same owner fails with ErrDuplicatePlate and creates nothing.
func (c *Coordinator) AddVehicle(ctx context.Context, ownerID string, class models.VehicleClass, plate string) (v *models.Vehicle, err error) {
	defer func() { c.metrics.op("add_vehicle", err) }()

	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrValidation)
	}

	v = &models.Vehicle{OwnerID: ownerID, Class: class, Plate: plate}
	if err := c.store.InsertVehicle(ctx, v); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("plate %q: %w", plate, ErrDuplicatePlate)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	slog.Info("vehicle added", "vehicle_id", v.ID, "owner_id", ownerID, "class", v.Class)
	c.refreshAfterMutation(ctx, ownerID)
	return v, nil
}

// UpdateVehicle changes a vehicle's class and plate. Derived counters are
// never touched by this path.
func (c *Coordinator) UpdateVehicle(ctx context.Context, ownerID, vehicleID string, class models.VehicleClass, plate string) (err error) {
	defer func() { c.metrics.op("update_vehicle", err) }()

	if plate == "" {
		return fmt.Errorf("%w: plate is required", ErrValidation)
	}
	if _, err := c.GetVehicle(ctx, ownerID, vehicleID); err != nil {
		return err
	}

	if err := c.store.UpdateVehicle(ctx, vehicleID, class, plate); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return fmt.Errorf("plate %q: %w", plate, ErrDuplicatePlate)
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	c.refreshAfterMutation(ctx, ownerID)
	return nil
}

// DeleteVehicle removes a vehicle together with its trips and history.
func (c *Coordinator) DeleteVehicle(ctx context.Context, ownerID, vehicleID string) (err error) {
	defer func() { c.metrics.op("delete_vehicle", err) }()

	if _, err := c.GetVehicle(ctx, ownerID, vehicleID); err != nil {
		return err
	}
	if err := c.store.DeleteVehicle(ctx, vehicleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	slog.Info("vehicle deleted", "vehicle_id", vehicleID, "owner_id", ownerID)
	c.refreshAfterMutation(ctx, ownerID)
	return nil
}

// AddTrip appends a trip to the vehicle's ledger and moves the aggregate
// total by the trip's distance. Validation happens before any store call.
func (c *Coordinator) AddTrip(ctx context.Context, ownerID, vehicleID string, input TripInput) (res *TripResult, err error) {
	defer func() { c.metrics.op("add_trip", err) }()

	if math.IsNaN(input.Distance) || math.IsInf(input.Distance, 0) {
		return nil, fmt.Errorf("%w: distance must be a finite number", ErrValidation)
	}
	if input.Distance < 0 {
		return nil, fmt.Errorf("%w: distance must not be negative", ErrValidation)
	}

	v, err := c.GetVehicle(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		VehicleID: vehicleID,
		Date:      input.Date,
		Distance:  input.Distance,
		Label:     input.Label,
	}
	if err := c.store.InsertTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	res = &TripResult{Trip: trip}
	newTotal := v.TotalDistance + input.Distance
	mustNonNegative(newTotal, "total after trip add")
	if err := c.store.UpdateVehicleCounters(ctx, vehicleID, storage.CounterPatch{TotalDistance: &newTotal}); err != nil {
		// The trip row exists but the counter does not reflect it yet. The
		// refresh below re-derives the total from the ledger.
		slog.Warn("trip inserted but aggregate update failed", "trip_id", trip.ID, "vehicle_id", vehicleID, "error", err)
		res.Warning = fmt.Errorf("aggregate update failed, total re-derived on reload: %w", err)
	}

	c.refreshAfterMutation(ctx, ownerID)
	return res, nil
}

// DeleteTrip removes a trip and decrements the aggregate total by its
// distance, clamped at zero. Out-of-order or duplicated deletes never drive
// the total negative.
func (c *Coordinator) DeleteTrip(ctx context.Context, ownerID, tripID string) (res *TripResult, err error) {
	defer func() { c.metrics.op("delete_trip", err) }()

	trip, vehicle, err := c.findTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	if err := c.store.DeleteTrip(ctx, tripID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	res = &TripResult{Trip: trip}
	newTotal := math.Max(0, vehicle.TotalDistance-trip.Distance)
	if err := c.store.UpdateVehicleCounters(ctx, vehicle.ID, storage.CounterPatch{TotalDistance: &newTotal}); err != nil {
		slog.Warn("trip deleted but aggregate update failed", "trip_id", tripID, "vehicle_id", vehicle.ID, "error", err)
		res.Warning = fmt.Errorf("aggregate update failed, total re-derived on reload: %w", err)
	}

	c.refreshAfterMutation(ctx, ownerID)
	return res, nil
}

// PerformService resets the matching service counter to the vehicle's
// current total, then appends the audit log entry carrying that same value.
// The two kinds are independent; resetting one never touches the other. A
// failed log append after a successful counter reset is reported as a
// warning, never rolled back: due status depends only on the counter.
func (c *Coordinator) PerformService(ctx context.Context, ownerID, vehicleID string, kind models.ServiceKind, notes string) (res *ServiceResult, err error) {
	defer func() { c.metrics.op("perform_service", err) }()

	v, err := c.GetVehicle(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}

	mileage := v.TotalDistance
	mustNonNegative(mileage, "service mileage")
	patch := storage.CounterPatch{}
	switch kind {
	case models.ServiceOil:
		patch.LastOilServiceDistance = &mileage
	case models.ServiceMaintenance:
		patch.LastMaintenanceServiceDistance = &mileage
	default:
		return nil, fmt.Errorf("%w: unknown service kind %q", ErrValidation, kind)
	}

	if err := c.store.UpdateVehicleCounters(ctx, vehicleID, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	entry := &models.MaintenanceLogEntry{
		VehicleID:        vehicleID,
		Kind:             kind,
		Date:             time.Now().UTC(),
		MileageAtService: mileage,
		Notes:            notes,
	}
	res = &ServiceResult{Entry: entry}
	if err := c.store.InsertServiceEntry(ctx, entry); err != nil {
		// Counter already reset, so due status is correct; the missing
		// history record is a data-quality issue surfaced to the caller.
		slog.Warn("service counter reset but log append failed", "vehicle_id", vehicleID, "kind", kind, "error", err)
		c.metrics.logAppendFailures.Inc()
		res.Entry = nil
		res.Warning = fmt.Errorf("service recorded but history entry missing: %w", err)
	}

	c.refreshAfterMutation(ctx, ownerID)
	if fresh, err := c.GetVehicle(ctx, ownerID, vehicleID); err == nil {
		res.Vehicle = fresh
	}
	slog.Info("service performed", "vehicle_id", vehicleID, "kind", kind, "mileage", mileage)
	return res, nil
}

// DueStatus evaluates the due verdicts for one vehicle from the current
// aggregate snapshot.
func (c *Coordinator) DueStatus(ctx context.Context, ownerID, vehicleID string) (due.Status, error) {
	v, err := c.GetVehicle(ctx, ownerID, vehicleID)
	if err != nil {
		return due.Status{}, err
	}
	return due.Evaluate(v), nil
}

// IsOilDue reports whether an oil service is due for the vehicle.
func (c *Coordinator) IsOilDue(ctx context.Context, ownerID, vehicleID string) (bool, error) {
	status, err := c.DueStatus(ctx, ownerID, vehicleID)
	return status.OilDue, err
}

// IsMaintenanceDue reports whether a maintenance service is due for the vehicle.
func (c *Coordinator) IsMaintenanceDue(ctx context.Context, ownerID, vehicleID string) (bool, error) {
	status, err := c.DueStatus(ctx, ownerID, vehicleID)
	return status.MaintenanceDue, err
}

// findTrip locates a trip within the owner's vehicles, refreshing once when
// it is absent from the cached snapshot.
func (c *Coordinator) findTrip(ctx context.Context, ownerID, tripID string) (*models.Trip, *models.Vehicle, error) {
	search := func(vehicles []*models.Vehicle) (*models.Trip, *models.Vehicle) {
		for _, v := range vehicles {
			for i := range v.Trips {
				if v.Trips[i].ID == tripID {
					return &v.Trips[i], v
				}
			}
		}
		return nil, nil
	}

	vehicles, err := c.ListVehicles(ctx, ownerID, false)
	if err != nil {
		return nil, nil, err
	}
	if trip, v := search(vehicles); trip != nil {
		return trip, v, nil
	}

	// Not in the snapshot; it may have been added since the last reload.
	vehicles, err = c.Refresh(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if trip, v := search(vehicles); trip != nil {
		return trip, v, nil
	}
	return nil, nil, fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
}

// refreshAfterMutation rebuilds the owner's snapshot after a write. A failed
// refresh only drops the cache; the mutation itself already succeeded.
func (c *Coordinator) refreshAfterMutation(ctx context.Context, ownerID string) {
	if _, err := c.Refresh(ctx, ownerID); err != nil {
		slog.Warn("post-mutation refresh failed, cache dropped", "owner_id", ownerID, "error", err)
	}
}

func (c *Coordinator) ownerLock(ownerID string) *sync.Mutex {
	lock, _ := c.reloadLocks.LoadOrStore(ownerID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// mustNonNegative guards the aggregate invariant. A negative counter can only
// come from a bug in this package, so fail fast instead of clamping (the one
// sanctioned clamp is the trip-delete floor, applied before this check).
func mustNonNegative(v float64, what string) {
	if v < 0 {
		panic(fmt.Sprintf("ledger: %s is negative (%v)", what, v))
	}
}
