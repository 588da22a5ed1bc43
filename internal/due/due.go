// Package due implements the service-due evaluation. It is pure: a verdict
// depends only on the aggregate snapshot passed in, never on stored history.
package due

import "github.com/adilzhm/garagelog/internal/models"

// Threshold table: distance a vehicle may accumulate since the last service
// of a kind before that service becomes due. Units match stored trip
// distances.
var thresholds = map[models.ServiceKind]map[models.VehicleClass]float64{
	models.ServiceOil: {
		models.ClassCar:        5000,
		models.ClassMotorcycle: 500,
	},
	models.ServiceMaintenance: {
		models.ClassCar:        5000,
		models.ClassMotorcycle: 1000,
	},
}

// Threshold returns the due-distance threshold for a service kind and
// vehicle class.
func Threshold(kind models.ServiceKind, class models.VehicleClass) float64 {
	return thresholds[kind][class]
}

// IsDue reports whether a service of the given kind is due. The threshold is
// inclusive: exactly threshold distance since the last service counts as due.
// A lastServiceDistance above totalDistance (reachable through the
// trip-delete floor clamp) is treated as zero distance accumulated, never as
// a negative value.
func IsDue(kind models.ServiceKind, class models.VehicleClass, totalDistance, lastServiceDistance float64) bool {
	since := totalDistance - lastServiceDistance
	if since < 0 {
		since = 0
	}
	return since >= Threshold(kind, class)
}

// Status is the due verdict for every service kind of one vehicle.
type Status struct {
	OilDue         bool
	MaintenanceDue bool
}

// Evaluate computes the full due status from a vehicle's aggregate snapshot.
func Evaluate(v *models.Vehicle) Status {
	return Status{
		OilDue:         IsDue(models.ServiceOil, v.Class, v.TotalDistance, v.LastOilServiceDistance),
		MaintenanceDue: IsDue(models.ServiceMaintenance, v.Class, v.TotalDistance, v.LastMaintenanceServiceDistance),
	}
}
