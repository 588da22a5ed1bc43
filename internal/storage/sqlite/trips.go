package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adilzhm/garagelog/internal/models"
	"github.com/adilzhm/garagelog/internal/storage"
)

// InsertTrip appends a trip row to the ledger.
func (s *SQLiteStore) InsertTrip(ctx context.Context, t *models.Trip) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trips (id, vehicle_id, date, distance, label) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.VehicleID, t.Date.UTC().Format(time.RFC3339), encodeDistance(t.Distance), t.Label,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", translateErr(err))
	}
	return nil
}

// DeleteTrip removes a single trip row.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trip %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// tripsByVehicle loads a vehicle's ledger in insertion order.
func (s *SQLiteStore) tripsByVehicle(ctx context.Context, vehicleID string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vehicle_id, date, distance, label FROM trips WHERE vehicle_id = ? ORDER BY rowid",
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var (
			t              models.Trip
			date, distance string
		)
		if err := rows.Scan(&t.ID, &t.VehicleID, &date, &distance, &t.Label); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		t.Date = decodeTime(date)
		t.Distance = decodeDistance(distance)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// decodeTime parses a stored RFC3339 timestamp, tolerating malformed values
// the same way distances are tolerated.
func decodeTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
