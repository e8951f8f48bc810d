// Package api exposes the core's operations (Interfaces A and B) over
// HTTP, translating wire DTOs to and from domain values.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prakashgarg91/truckopti/internal/applog"
	"github.com/prakashgarg91/truckopti/internal/cache"
	"github.com/prakashgarg91/truckopti/internal/consolidate"
	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/fingerprint"
	"github.com/prakashgarg91/truckopti/internal/pool"
	"github.com/prakashgarg91/truckopti/internal/recommend"
)

// Server holds the shared, request-independent dependencies every
// handler closes over.
type Server struct {
	Cost  cost.Model
	Cache *cache.Cache
	Pool  *pool.Pool
	Log   *applog.Logger
}

// SetupRoutes mounts the health check and Interface A/B endpoints.
func SetupRoutes(app *fiber.App, s *Server) {
	app.Get("/healthz", HealthCheckHandler)

	v1 := app.Group("/api/v1")
	v1.Post("/pack", PackHandler(s))
	v1.Post("/pack/alternatives", PackAlternativesHandler(s))
	v1.Post("/consolidate", ConsolidateHandler(s))
}

func HealthCheckHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "UP",
		"service": "truckopti",
	})
}

// PackHandler runs Interface A end to end (fingerprint → bounded worker
// pool → cache → recommend) and returns only the best plan.
func PackHandler(s *Server) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, resp, cerr := resolvePack(c, s)
		if cerr != nil {
			return writeCoreErr(c, cerr)
		}
		return c.Status(fiber.StatusOK).JSON(domain.ToPersisted(req.Strategy, req.Route, *resp.Recommendation))
	}
}

// PackAlternativesHandler returns the full ranked candidate set
// (recommendation plus alternatives) for the same request the cache
// already keys on, so it shares the single-flight build with
// PackHandler instead of recomputing.
func PackAlternativesHandler(s *Server) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, resp, cerr := resolvePack(c, s)
		if cerr != nil {
			return writeCoreErr(c, cerr)
		}
		alts := make([]fiber.Map, 0, len(resp.Alternatives))
		for _, p := range resp.Alternatives {
			alts = append(alts, fiber.Map{"container_count": p.ContainerCount, "total_cost": p.TotalCost, "objective": p.Objective})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"recommendation": domain.ToPersisted(req.Strategy, req.Route, *resp.Recommendation),
			"alternatives":   alts,
			"partial":        resp.Partial,
			"diagnostics":    resp.Diagnostics,
		})
	}
}

func resolvePack(c *fiber.Ctx, s *Server) (domain.PackRequest, domain.PackResponse, *coreerr.Error) {
	var dto PackRequestDTO
	if err := c.BodyParser(&dto); err != nil {
		return domain.PackRequest{}, domain.PackResponse{}, coreerr.New(coreerr.InvalidInput, "invalid JSON body", map[string]any{"parse_error": err.Error()})
	}
	req, err := dto.ToDomain()
	if err != nil {
		return domain.PackRequest{}, domain.PackResponse{}, coreerr.New(coreerr.InvalidInput, err.Error(), nil)
	}
	req = req.WithDefaults()
	if verr := req.Validate(); verr != nil {
		return domain.PackRequest{}, domain.PackResponse{}, verr
	}

	key, herr := fingerprint.Of(req)
	if herr != nil {
		return domain.PackRequest{}, domain.PackResponse{}, coreerr.Wrap(coreerr.Internal, "failed to fingerprint request", herr)
	}

	resp, perr := s.Pool.Submit(func() (domain.PackResponse, *coreerr.Error) {
		return s.Cache.GetOrBuild(key, func() (domain.PackResponse, *coreerr.Error) {
			return recommend.Recommend(c.Context(), req, s.Cost)
		})
	})
	if perr != nil {
		return domain.PackRequest{}, domain.PackResponse{}, perr
	}
	s.Log.Info("pack request resolved", "strategy", req.Strategy.String(), "containers", resp.Recommendation.ContainerCount)
	return req, resp, nil
}

// ConsolidateHandler runs the C6 consolidation layer: one packing plan
// per order group after attempting strictly-better merges.
func ConsolidateHandler(s *Server) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var dto ConsolidateRequestDTO
		if err := c.BodyParser(&dto); err != nil {
			return writeCoreErr(c, coreerr.New(coreerr.InvalidInput, "invalid JSON body", map[string]any{"parse_error": err.Error()}))
		}

		strategy, ok := domain.ParseStrategy(dto.Strategy)
		if !ok {
			return writeCoreErr(c, coreerr.New(coreerr.InvalidInput, "unrecognised strategy", nil))
		}
		route, err := dto.Route.ToDomain()
		if err != nil {
			return writeCoreErr(c, coreerr.New(coreerr.InvalidInput, err.Error(), nil))
		}

		orders := make([]domain.ShipmentOrder, len(dto.Orders))
		for i, o := range dto.Orders {
			order, err := o.ToDomain()
			if err != nil {
				return writeCoreErr(c, coreerr.New(coreerr.InvalidInput, err.Error(), nil))
			}
			orders[i] = order
		}
		containers := make([]domain.ContainerSlot, len(dto.Containers))
		for i, cs := range dto.Containers {
			containers[i] = cs.ToDomain()
		}

		results, cerr := consolidate.Consolidate(c.Context(), orders, containers, strategy, route, s.Cost, dto.Options.ToDomain(), nil)
		if cerr != nil {
			return writeCoreErr(c, cerr)
		}

		out := make([]fiber.Map, 0, len(results))
		for _, r := range results {
			out = append(out, fiber.Map{
				"order_ids": r.OrderIDs,
				"merged":    r.Merged,
				"plan":      domain.ToPersisted(strategy, route, r.Plan),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"groups": out})
	}
}

// writeCoreErr maps a closed-taxonomy error onto an HTTP status and
// JSON envelope, the translation boundary the teacher's string-sniffed
// `strings.Contains(err.Error(), "validation")` was replaced by.
func writeCoreErr(c *fiber.Ctx, err *coreerr.Error) error {
	code := fiber.StatusInternalServerError
	switch err.Kind {
	case coreerr.InvalidInput, coreerr.CatalogMissing:
		code = fiber.StatusBadRequest
	case coreerr.NoFeasibleCandidate:
		code = fiber.StatusUnprocessableEntity
	case coreerr.DeadlineExceeded:
		code = fiber.StatusGatewayTimeout
	case coreerr.Overloaded:
		code = fiber.StatusServiceUnavailable
	case coreerr.Internal:
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    err.Kind.String(),
			"message": err.Message,
			"context": err.Context,
		},
	})
}

// RequestSizeLimiter rejects request bodies over maxBytes before they
// reach BodyParser.
func RequestSizeLimiter(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > maxBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": fiber.Map{"message": "request body too large"},
			})
		}
		return c.Next()
	}
}
