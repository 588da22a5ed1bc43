package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Distance columns are TEXT, holding string-encoded decimals; the decode
// path (see decode.go) normalizes them at the store boundary. Trips and log
// entries are ordered by rowid, i.e. insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    class TEXT NOT NULL,
    plate TEXT NOT NULL,
    total_distance TEXT NOT NULL DEFAULT '0',
    last_oil_service TEXT NOT NULL DEFAULT '0',
    last_maintenance_service TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL,
    UNIQUE (owner_id, plate)
);

CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    vehicle_id TEXT NOT NULL,
    date TEXT NOT NULL,
    distance TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS maintenance_logs (
    id TEXT PRIMARY KEY,
    vehicle_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    date TEXT NOT NULL,
    mileage_at_service TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_vehicles_owner_id ON vehicles(owner_id);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle_id ON trips(vehicle_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_logs_vehicle_id ON maintenance_logs(vehicle_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
