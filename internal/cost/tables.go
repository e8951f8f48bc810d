// Package cost implements C2: a deterministic, side-effect-free
// operational-cost model for a container over a route. Category default
// tables live in an embedded YAML document so an embedder can override
// them without recompiling, in the config-as-data idiom the pack's
// Cobra/Viper CLIs use for policy tables.
package cost

import (
	_ "embed"

	"github.com/prakashgarg91/truckopti/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// CategoryDefaults are the safe per-category operational parameters
// substituted when a ContainerSnapshot omits them (spec.md §4.2).
type CategoryDefaults struct {
	FuelLitresPerKM   float64 `yaml:"fuel_litres_per_km"`
	MaintenancePerKM  float64 `yaml:"maintenance_per_km"`
	DriverHourlyRate  float64 `yaml:"driver_hourly_rate"`
	DepreciationPerKM float64 `yaml:"depreciation_per_km"`
	AgeMultiplier     float64 `yaml:"age_multiplier"`
}

// RouteRow is the toll-rate and average-speed row for one route type.
type RouteRow struct {
	TollRatePerKM float64 `yaml:"toll_rate_per_km"`
	AvgSpeedKMH   float64 `yaml:"avg_speed_kmh"`
}

// Tables is the full cost-table document: category defaults, route
// rows, and the fuel price used when a container's CostParams omits it.
type Tables struct {
	FuelPrice  float64                      `yaml:"fuel_price"`
	Categories map[string]CategoryDefaults  `yaml:"categories"`
	Routes     map[string]RouteRow          `yaml:"routes"`
}

// DefaultTables loads the embedded cost-table document.
func DefaultTables() Tables {
	var t Tables
	if err := yaml.Unmarshal(defaultTablesYAML, &t); err != nil {
		panic("cost: embedded tables.yaml failed to parse: " + err.Error())
	}
	return t
}

// LoadTables parses a caller-supplied YAML document of the same shape,
// for embedders that override the defaults per spec.md §4.2.
func LoadTables(doc []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(doc, &t); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func (t Tables) categoryDefaults(cat domain.Category) CategoryDefaults {
	if row, ok := t.Categories[cat.String()]; ok {
		return row
	}
	return t.Categories["medium"]
}

func (t Tables) routeRow(rt domain.RouteType) RouteRow {
	if row, ok := t.Routes[rt.String()]; ok {
		return row
	}
	return t.Routes["city"]
}
