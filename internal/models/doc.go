// Package models defines the core domain models for garagelog.
//
// # Models
//
//   - Vehicle: a tracked vehicle with its derived distance counters
//   - Trip: a single distance event on a vehicle's ledger
//   - MaintenanceLogEntry: an audit record of a performed service
//
// # Design Principles
//
// 1. **Ledger as source of truth**: a vehicle's TotalDistance is derived from
// its trips and can always be re-computed by summing them; the stored counter
// is a running accumulator kept for cheap reads.
//
// 2. **Append-only history**: trips and maintenance log entries are never
// updated in place. Trips may be deleted (delete + recreate replaces edit);
// log entries are permanent.
//
// 3. **Avoid circular references**: children carry the owning VehicleID string
// instead of pointers back to the vehicle.
package models
