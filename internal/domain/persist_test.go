package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func samplePlan() PackingPlan {
	return PackingPlan{
		Containers: []ContainerPlacementEntry{
			{
				Container: ContainerSnapshot{TypeID: "20ft-van"},
				Result: PackingResult{
					Placements: []Placement{
						{ItemTypeID: "box-a", Position: Vec3{X: 0.123456789, Y: 1, Z: 2}, Orientation: OrientationWLH},
					},
					Unfitted:          []UnfittedItem{{ItemTypeID: "box-b", Count: 2}},
					VolumeUtilization: 0.654321,
					WeightUtilization: 0.4,
					Stability:         0.9,
					Cost:              123.456,
					Objective:         0.789123,
				},
			},
		},
		GlobalUnfitted:    []UnfittedItem{{ItemTypeID: "box-b", Count: 2}},
		TotalCost:         123.456,
		AverageVolumeUtil: 0.654321,
		ContainerCount:    1,
		Objective:         0.789123,
	}
}

func TestToPersisted_RoundsFieldsAndExpandsUnfitted(t *testing.T) {
	route := RouteDescriptor{DistanceKM: 42.567, RouteType: RouteCity, Region: "west"}
	out := ToPersisted(StrategySpace, route, samplePlan())

	assert.Equal(t, "pp/1", out.Version)
	assert.Equal(t, StrategySpace.String(), out.Strategy)
	assert.Equal(t, 42.57, out.Route.DistanceKM)
	assert.Equal(t, []string{"box-b", "box-b"}, out.GlobalUnfit)
	assert.Equal(t, 1, out.GlobalMetrics.TruckCount)
	assert.Equal(t, 0.6543, out.GlobalMetrics.AvgVolUtil)

	require.Len(t, out.Containers, 1)
	c := out.Containers[0]
	assert.Equal(t, "20ft-van", c.TypeID)
	assert.Equal(t, []string{"box-b", "box-b"}, c.Unfitted)
	require.Len(t, c.Placements, 1)
	assert.Equal(t, 0.123457, c.Placements[0].X)
	assert.Equal(t, int(OrientationWLH), c.Placements[0].Orientation)
}

func TestPersistedPlan_JSONRoundTrip(t *testing.T) {
	route := RouteDescriptor{DistanceKM: 10, RouteType: RouteHighway}
	want := ToPersisted(StrategyBalanced, route, samplePlan())

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	var got PersistedPackingPlan
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want, got)
}

func TestPersistedPlan_YAMLRoundTrip(t *testing.T) {
	route := RouteDescriptor{DistanceKM: 10, RouteType: RouteHighway}
	want := ToPersisted(StrategyMinTrucks, route, samplePlan())

	raw, err := yaml.Marshal(want)
	require.NoError(t, err)

	var got PersistedPackingPlan
	require.NoError(t, yaml.Unmarshal(raw, &got))
	assert.Equal(t, want, got)
}

func TestToPersisted_EmptyPlanHasEmptySlicesNotPanics(t *testing.T) {
	out := ToPersisted(StrategySpace, RouteDescriptor{}, PackingPlan{})
	assert.Empty(t, out.Containers)
	assert.Empty(t, out.GlobalUnfit)
}
