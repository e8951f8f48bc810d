package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prakashgarg91/truckopti/internal/applog"
	"github.com/prakashgarg91/truckopti/internal/cache"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/pool"
)

func testApp() *fiber.App {
	app := fiber.New()
	SetupRoutes(app, &Server{
		Cost:  cost.NewModel(),
		Cache: cache.New(16, time.Minute),
		Pool:  pool.New(2, 8),
		Log:   applog.NewNoop(),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sampleRequest() PackRequestDTO {
	return PackRequestDTO{
		Items: []ItemCountDTO{
			{Item: ItemDTO{TypeID: "box", Dimensions: DimensionsDTO{L: 40, W: 40, H: 40}, MassKG: 10, Stackable: true}, Count: 10},
		},
		Containers: []ContainerSlotDTO{
			{Container: ContainerDTO{TypeID: "van", Dimensions: DimensionsDTO{L: 200, W: 150, H: 150}, PayloadKG: 1000, Category: "medium"}, Availability: 3},
		},
		Strategy: "space",
		Route:    RouteDTO{DistanceKM: 50, RouteType: "city"},
	}
}

func TestHealthCheck(t *testing.T) {
	app := testApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPackHandler_HappyPath(t *testing.T) {
	app := testApp()
	resp := postJSON(t, app, "/api/v1/pack", sampleRequest())
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "pp/1", decoded["version"])
}

func TestPackHandler_RejectsEmptyItems(t *testing.T) {
	app := testApp()
	req := sampleRequest()
	req.Items = nil
	resp := postJSON(t, app, "/api/v1/pack", req)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPackHandler_RejectsUnknownStrategy(t *testing.T) {
	app := testApp()
	req := sampleRequest()
	req.Strategy = "fastest"
	resp := postJSON(t, app, "/api/v1/pack", req)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPackAlternativesHandler_IncludesAlternatives(t *testing.T) {
	app := testApp()
	req := sampleRequest()
	req.Containers = append(req.Containers, ContainerSlotDTO{
		Container:    ContainerDTO{TypeID: "small-van", Dimensions: DimensionsDTO{L: 100, W: 100, H: 100}, PayloadKG: 400, Category: "light"},
		Availability: 3,
	})

	resp := postJSON(t, app, "/api/v1/pack/alternatives", req)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "recommendation")
	assert.Contains(t, decoded, "alternatives")
}

func TestConsolidateHandler_MergesStrictlyBetterOrders(t *testing.T) {
	app := testApp()
	body := ConsolidateRequestDTO{
		Orders: []ShipmentOrderDTO{
			{ID: "o1", DeliveryRegion: "north", DeliveryDate: "2026-02-01", Items: []ItemCountDTO{
				{Item: ItemDTO{TypeID: "half-a", Dimensions: DimensionsDTO{L: 40, W: 100, H: 100}, MassKG: 10}, Count: 1},
			}},
			{ID: "o2", DeliveryRegion: "north", DeliveryDate: "2026-02-01", Items: []ItemCountDTO{
				{Item: ItemDTO{TypeID: "half-b", Dimensions: DimensionsDTO{L: 40, W: 100, H: 100}, MassKG: 10}, Count: 1},
			}},
		},
		Containers: []ContainerSlotDTO{
			{Container: ContainerDTO{TypeID: "cube", Dimensions: DimensionsDTO{L: 100, W: 100, H: 100}, PayloadKG: 5000, Category: "light"}, Availability: 5},
		},
		Strategy: "cost",
		Route:    RouteDTO{DistanceKM: 200, RouteType: "highway"},
	}

	resp := postJSON(t, app, "/api/v1/consolidate", body)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Groups []struct {
			OrderIDs []string `json:"order_ids"`
			Merged   bool     `json:"merged"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(respBody, &decoded))
	require.Len(t, decoded.Groups, 1)
	assert.True(t, decoded.Groups[0].Merged)
	assert.ElementsMatch(t, []string{"o1", "o2"}, decoded.Groups[0].OrderIDs)
}
