package fingerprint

import (
	"testing"

	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/stretchr/testify/require"
)

func sampleRequest() domain.PackRequest {
	return domain.PackRequest{
		Items: []domain.ItemCount{
			{Item: domain.ItemSnapshot{TypeID: "box-a", Dimensions: domain.Dimensions{L: 10, W: 10, H: 10}, MassKG: 5}, Count: 3},
			{Item: domain.ItemSnapshot{TypeID: "box-b", Dimensions: domain.Dimensions{L: 20, W: 10, H: 10}, MassKG: 8}, Count: 2},
		},
		Containers: []domain.ContainerSlot{
			{Container: domain.ContainerSnapshot{TypeID: "truck-1", Dimensions: domain.Dimensions{L: 400, W: 200, H: 200}, PayloadKG: 5000}, Availability: 2},
		},
		Strategy: domain.StrategySpace,
		Route:    domain.RouteDescriptor{DistanceKM: 100, RouteType: domain.RouteHighway},
	}
}

func TestOf_OrderIndependent(t *testing.T) {
	a := sampleRequest()
	b := sampleRequest()
	b.Items[0], b.Items[1] = b.Items[1], b.Items[0]
	b.Containers = append([]domain.ContainerSlot{}, b.Containers...)

	hashA, err := Of(a)
	require.NoError(t, err)
	hashB, err := Of(b)
	require.NoError(t, err)

	require.Equal(t, hashA, hashB)
}

func TestOf_DiffersOnStrategy(t *testing.T) {
	a := sampleRequest()
	b := sampleRequest()
	b.Strategy = domain.StrategyCost

	hashA, err := Of(a)
	require.NoError(t, err)
	hashB, err := Of(b)
	require.NoError(t, err)

	require.NotEqual(t, hashA, hashB)
}
