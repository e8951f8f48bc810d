package cost

import (
	"math"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/domain"
)

// Breakdown is the itemized cost of moving one container over one route,
// per spec.md §4.2.
type Breakdown struct {
	Fuel         float64
	Toll         float64
	Maintenance  float64
	Driver       float64
	Depreciation float64
}

func (b Breakdown) Total() float64 {
	return b.Fuel + b.Toll + b.Maintenance + b.Driver + b.Depreciation
}

// Model evaluates C2 against a fixed table document.
type Model struct {
	Tables Tables
}

// NewModel builds a Model over the embedded default tables.
func NewModel() Model { return Model{Tables: DefaultTables()} }

// Compute evaluates the cost of a single container trip. Negative
// distance is an InvalidInput per spec.md §4.2; missing optional
// container cost parameters are backfilled from the category default
// table, which always exists.
func (m Model) Compute(container domain.ContainerSnapshot, route domain.RouteDescriptor) (Breakdown, *coreerr.Error) {
	if route.DistanceKM < 0 {
		return Breakdown{}, coreerr.New(coreerr.InvalidInput, "distance_km must not be negative", map[string]any{"container_id": container.TypeID})
	}

	defaults := m.Tables.categoryDefaults(container.Category)
	routeRow := m.Tables.routeRow(route.RouteType)

	fuelLitresPerKM := defaults.FuelLitresPerKM
	fuelPrice := m.Tables.FuelPrice
	maintenancePerKM := defaults.MaintenancePerKM
	driverRate := defaults.DriverHourlyRate
	ageMultiplier := defaults.AgeMultiplier
	depreciationPerKM := defaults.DepreciationPerKM

	if container.Cost != nil {
		if container.Cost.FuelLitresPerKM > 0 {
			fuelLitresPerKM = container.Cost.FuelLitresPerKM
		}
		if container.Cost.FuelPrice > 0 {
			fuelPrice = container.Cost.FuelPrice
		}
		if container.Cost.MaintenancePerKM > 0 {
			maintenancePerKM = container.Cost.MaintenancePerKM
		}
		if container.Cost.DriverHourlyRate > 0 {
			driverRate = container.Cost.DriverHourlyRate
		}
		if container.Cost.AgeMultiplier > 0 {
			ageMultiplier = container.Cost.AgeMultiplier
		}
		if container.Cost.DepreciationPerKM > 0 {
			depreciationPerKM = container.Cost.DepreciationPerKM
		}
	}

	fuelCost := route.DistanceKM * fuelLitresPerKM * fuelPrice
	tollCost := route.DistanceKM * routeRow.TollRatePerKM
	maintenanceCost := route.DistanceKM * maintenancePerKM * ageMultiplier
	depreciation := route.DistanceKM * depreciationPerKM

	driverCost := 0.0
	if routeRow.AvgSpeedKMH > 0 {
		tripHours := math.Ceil(route.DistanceKM / routeRow.AvgSpeedKMH)
		driverCost = tripHours * driverRate
		if tripHours >= 8 {
			dayRate := 8 * driverRate
			if dayRate > driverCost {
				driverCost = dayRate
			}
		}
	}

	return Breakdown{
		Fuel:         fuelCost,
		Toll:         tollCost,
		Maintenance:  maintenanceCost,
		Driver:       driverCost,
		Depreciation: depreciation,
	}, nil
}
