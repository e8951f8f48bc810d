package domain

import "math"

// PersistedPackingPlan is the on-the-wire shape for a persisted plan,
// per spec.md §6 Interface C. Lengths are centimetres, masses are
// kilograms, costs are decimal numbers rounded to 2 places, ratios are
// rounded to 4 places.
type PersistedPackingPlan struct {
	Version       string              `json:"version" yaml:"version"`
	Strategy      string              `json:"strategy" yaml:"strategy"`
	Route         PersistedRoute      `json:"route" yaml:"route"`
	Containers    []PersistedContainer `json:"containers" yaml:"containers"`
	GlobalUnfit   []string            `json:"global_unfitted" yaml:"global_unfitted"`
	GlobalMetrics PersistedGlobal     `json:"global_metrics" yaml:"global_metrics"`
}

type PersistedRoute struct {
	DistanceKM float64 `json:"distance_km" yaml:"distance_km"`
	RouteType  string  `json:"route_type" yaml:"route_type"`
	Region     string  `json:"region,omitempty" yaml:"region,omitempty"`
}

type PersistedPlacement struct {
	ItemID      string  `json:"item_id" yaml:"item_id"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Z           float64 `json:"z" yaml:"z"`
	Orientation int     `json:"orientation" yaml:"orientation"`
}

type PersistedMetrics struct {
	VolUtil   float64 `json:"vol_util" yaml:"vol_util"`
	WtUtil    float64 `json:"wt_util" yaml:"wt_util"`
	Stability float64 `json:"stability" yaml:"stability"`
	Cost      float64 `json:"cost" yaml:"cost"`
	Objective float64 `json:"objective" yaml:"objective"`
}

type PersistedContainer struct {
	TypeID     string               `json:"type_id" yaml:"type_id"`
	Placements []PersistedPlacement `json:"placements" yaml:"placements"`
	Unfitted   []string             `json:"unfitted" yaml:"unfitted"`
	Metrics    PersistedMetrics     `json:"metrics" yaml:"metrics"`
}

type PersistedGlobal struct {
	AvgVolUtil float64 `json:"avg_vol_util" yaml:"avg_vol_util"`
	TotalCost  float64 `json:"total_cost" yaml:"total_cost"`
	TruckCount int     `json:"truck_count" yaml:"truck_count"`
	Objective  float64 `json:"objective" yaml:"objective"`
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func expandUnfitted(items []UnfittedItem) []string {
	ids := make([]string, 0, len(items))
	for _, u := range items {
		for i := 0; i < u.Count; i++ {
			ids = append(ids, u.ItemTypeID)
		}
	}
	return ids
}

// ToPersisted renders a PackingPlan into the versioned wire shape.
func ToPersisted(strategy Strategy, route RouteDescriptor, plan PackingPlan) PersistedPackingPlan {
	out := PersistedPackingPlan{
		Version:  "pp/1",
		Strategy: strategy.String(),
		Route: PersistedRoute{
			DistanceKM: round(route.DistanceKM, 2),
			RouteType:  route.RouteType.String(),
			Region:     route.Region,
		},
		GlobalUnfit: expandUnfitted(plan.GlobalUnfitted),
		GlobalMetrics: PersistedGlobal{
			AvgVolUtil: round(plan.AverageVolumeUtil, 4),
			TotalCost:  round(plan.TotalCost, 2),
			TruckCount: plan.ContainerCount,
			Objective:  round(plan.Objective, 4),
		},
	}

	for _, entry := range plan.Containers {
		pc := PersistedContainer{
			TypeID:   entry.Container.TypeID,
			Unfitted: expandUnfitted(entry.Result.Unfitted),
			Metrics: PersistedMetrics{
				VolUtil:   round(entry.Result.VolumeUtilization, 4),
				WtUtil:    round(entry.Result.WeightUtilization, 4),
				Stability: round(entry.Result.Stability, 4),
				Cost:      round(entry.Result.Cost, 2),
				Objective: round(entry.Result.Objective, 4),
			},
		}
		for _, p := range entry.Result.Placements {
			pc.Placements = append(pc.Placements, PersistedPlacement{
				ItemID:      p.ItemTypeID,
				X:           round(p.Position.X, 6),
				Y:           round(p.Position.Y, 6),
				Z:           round(p.Position.Z, 6),
				Orientation: int(p.Orientation),
			})
		}
		out.Containers = append(out.Containers, pc)
	}

	return out
}
