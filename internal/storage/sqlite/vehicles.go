package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adilzhm/garagelog/internal/models"
	"github.com/adilzhm/garagelog/internal/storage"
)

// InsertVehicle persists a new vehicle row. The (owner_id, plate) UNIQUE
// constraint enforces plate uniqueness per owner at the store level.
func (s *SQLiteStore) InsertVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt == 0 {
		v.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vehicles
		 (id, owner_id, class, plate, total_distance, last_oil_service, last_maintenance_service, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.OwnerID, string(v.Class), v.Plate,
		encodeDistance(v.TotalDistance),
		encodeDistance(v.LastOilServiceDistance),
		encodeDistance(v.LastMaintenanceServiceDistance),
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", translateErr(err))
	}
	return nil
}

// UpdateVehicle changes class and plate only.
func (s *SQLiteStore) UpdateVehicle(ctx context.Context, id string, class models.VehicleClass, plate string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE vehicles SET class = ?, plate = ? WHERE id = ?",
		string(class), plate, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// UpdateVehicleCounters applies a partial counter update to one row.
func (s *SQLiteStore) UpdateVehicleCounters(ctx context.Context, id string, patch storage.CounterPatch) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if patch.TotalDistance != nil {
		sets = append(sets, "total_distance = ?")
		args = append(args, encodeDistance(*patch.TotalDistance))
	}
	if patch.LastOilServiceDistance != nil {
		sets = append(sets, "last_oil_service = ?")
		args = append(args, encodeDistance(*patch.LastOilServiceDistance))
	}
	if patch.LastMaintenanceServiceDistance != nil {
		sets = append(sets, "last_maintenance_service = ?")
		args = append(args, encodeDistance(*patch.LastMaintenanceServiceDistance))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE vehicles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update vehicle counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update vehicle counters: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// DeleteVehicle removes the row; trips and maintenance logs go with it via
// foreign key cascade.
func (s *SQLiteStore) DeleteVehicle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// VehiclesByOwner loads all vehicles of one owner, ordered by creation.
func (s *SQLiteStore) VehiclesByOwner(ctx context.Context, ownerID string, withRelations bool) ([]*models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, class, plate, total_distance, last_oil_service, last_maintenance_service, created_at
		 FROM vehicles WHERE owner_id = ? ORDER BY rowid`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		var (
			v                      models.Vehicle
			class                  string
			total, lastOil, lastMx string
		)
		if err := rows.Scan(&v.ID, &v.OwnerID, &class, &v.Plate, &total, &lastOil, &lastMx, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		v.Class = models.VehicleClass(class)
		v.TotalDistance = decodeDistance(total)
		v.LastOilServiceDistance = decodeDistance(lastOil)
		v.LastMaintenanceServiceDistance = decodeDistance(lastMx)
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}

	if !withRelations {
		return vehicles, nil
	}

	for _, v := range vehicles {
		trips, err := s.tripsByVehicle(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.Trips = trips

		history, err := s.serviceEntriesByVehicle(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.History = history
	}
	return vehicles, nil
}
