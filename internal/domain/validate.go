package domain

import (
	"github.com/prakashgarg91/truckopti/internal/coreerr"
)

// Validate checks an ItemSnapshot for the InvalidInput conditions named
// in spec.md §7 ("negative/zero dimension, negative mass").
func (i ItemSnapshot) Validate() *coreerr.Error {
	if i.TypeID == "" {
		return coreerr.New(coreerr.InvalidInput, "item type id is required", nil)
	}
	if i.Dimensions.L <= 0 || i.Dimensions.W <= 0 || i.Dimensions.H <= 0 {
		return coreerr.New(coreerr.InvalidInput, "item dimensions must be positive", map[string]any{"item_id": i.TypeID})
	}
	if i.MassKG < 0 {
		return coreerr.New(coreerr.InvalidInput, "item mass must not be negative", map[string]any{"item_id": i.TypeID})
	}
	return nil
}

// Validate checks a ContainerSnapshot for InvalidInput conditions.
func (c ContainerSnapshot) Validate() *coreerr.Error {
	if c.TypeID == "" {
		return coreerr.New(coreerr.InvalidInput, "container type id is required", nil)
	}
	if c.Dimensions.L <= 0 || c.Dimensions.W <= 0 || c.Dimensions.H <= 0 {
		return coreerr.New(coreerr.InvalidInput, "container dimensions must be positive", map[string]any{"container_id": c.TypeID})
	}
	if c.PayloadKG <= 0 {
		return coreerr.New(coreerr.InvalidInput, "container payload must be positive", map[string]any{"container_id": c.TypeID})
	}
	return nil
}

// Validate checks a RouteDescriptor for InvalidInput conditions.
func (r RouteDescriptor) Validate() *coreerr.Error {
	if r.DistanceKM < 0 {
		return coreerr.New(coreerr.InvalidInput, "distance_km must not be negative", nil)
	}
	return nil
}

// Validate checks a PackRequest as a whole: malformed multiset, empty
// catalog slice, invalid route. It does not evaluate feasibility — that
// is C3/C4/C5's job and infeasibility is never an error.
func (req PackRequest) Validate() *coreerr.Error {
	if len(req.Items) == 0 {
		return coreerr.New(coreerr.InvalidInput, "items multiset must not be empty", nil)
	}
	if len(req.Containers) == 0 {
		return coreerr.New(coreerr.InvalidInput, "containers catalog slice must not be empty", nil)
	}
	for _, ic := range req.Items {
		if ic.Count <= 0 {
			return coreerr.New(coreerr.InvalidInput, "item count must be positive", map[string]any{"item_id": ic.Item.TypeID})
		}
		if err := ic.Item.Validate(); err != nil {
			return err
		}
	}
	for _, slot := range req.Containers {
		if err := slot.Container.Validate(); err != nil {
			return err
		}
	}
	if err := req.Route.Validate(); err != nil {
		return err
	}
	if _, ok := any(req.Strategy).(Strategy); !ok {
		return coreerr.New(coreerr.InvalidInput, "strategy is required", nil)
	}
	return nil
}

// Validate checks a ShipmentOrder for InvalidInput conditions.
func (o ShipmentOrder) Validate() *coreerr.Error {
	if o.ID == "" {
		return coreerr.New(coreerr.InvalidInput, "order id is required", nil)
	}
	if len(o.Items) == 0 {
		return coreerr.New(coreerr.InvalidInput, "order items must not be empty", map[string]any{"order_id": o.ID})
	}
	for _, ic := range o.Items {
		if err := ic.Item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaults fills in zero-valued tunables with spec.md's documented
// defaults, leaving caller-supplied non-zero values untouched.
func (req PackRequest) WithDefaults() PackRequest {
	out := req
	def := DefaultPackOptions()
	if out.Options.Epsilon == 0 {
		out.Options.Epsilon = def.Epsilon
	}
	if out.Options.SigmaMin == 0 {
		out.Options.SigmaMin = def.SigmaMin
	}
	if out.Options.FanOut == 0 {
		out.Options.FanOut = def.FanOut
	}
	if out.Options.MaxCombos == 0 {
		out.Options.MaxCombos = def.MaxCombos
	}
	if out.Options.MaxContainers == 0 {
		out.Options.MaxContainers = def.MaxContainers
	}
	if out.Options.BalancedWeightUtl == 0 {
		out.Options.BalancedWeightUtl = def.BalancedWeightUtl
	}
	if out.Options.BalancedWeightCst == 0 {
		out.Options.BalancedWeightCst = def.BalancedWeightCst
	}
	if out.MaxCombos == 0 {
		out.MaxCombos = out.Options.MaxCombos
	}
	return out
}
