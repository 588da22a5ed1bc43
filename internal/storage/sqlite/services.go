package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adilzhm/garagelog/internal/models"
)

// InsertServiceEntry appends a maintenance log row. Entries are append-only;
// there is deliberately no update or delete counterpart.
func (s *SQLiteStore) InsertServiceEntry(ctx context.Context, e *models.MaintenanceLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO maintenance_logs (id, vehicle_id, kind, date, mileage_at_service, notes) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.VehicleID, string(e.Kind), e.Date.UTC().Format(time.RFC3339), encodeDistance(e.MileageAtService), e.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance log entry: %w", translateErr(err))
	}
	return nil
}

// serviceEntriesByVehicle loads a vehicle's maintenance history, oldest first.
func (s *SQLiteStore) serviceEntriesByVehicle(ctx context.Context, vehicleID string) ([]models.MaintenanceLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vehicle_id, kind, date, mileage_at_service, notes FROM maintenance_logs WHERE vehicle_id = ? ORDER BY rowid",
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance logs: %w", err)
	}
	defer rows.Close()

	var entries []models.MaintenanceLogEntry
	for rows.Next() {
		var (
			e             models.MaintenanceLogEntry
			kind          string
			date, mileage string
		)
		if err := rows.Scan(&e.ID, &e.VehicleID, &kind, &date, &mileage, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance log entry: %w", err)
		}
		e.Kind = models.ServiceKind(kind)
		e.Date = decodeTime(date)
		e.MileageAtService = decodeDistance(mileage)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate maintenance logs: %w", err)
	}
	return entries, nil
}
