package api

import (
	"fmt"
	"time"

	"github.com/prakashgarg91/truckopti/internal/domain"
)

// DimensionsDTO is the wire shape of domain.Dimensions.
type DimensionsDTO struct {
	L float64 `json:"l" yaml:"l"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

func (d DimensionsDTO) ToDomain() domain.Dimensions {
	return domain.Dimensions{L: d.L, W: d.W, H: d.H}
}

// CostParamsDTO is the wire shape of domain.CostParams.
type CostParamsDTO struct {
	CostPerKM         float64 `json:"cost_per_km" yaml:"cost_per_km"`
	FuelLitresPerKM   float64 `json:"fuel_litres_per_km" yaml:"fuel_litres_per_km"`
	FuelPrice         float64 `json:"fuel_price" yaml:"fuel_price"`
	DriverHourlyRate  float64 `json:"driver_hourly_rate" yaml:"driver_hourly_rate"`
	MaintenancePerKM  float64 `json:"maintenance_per_km" yaml:"maintenance_per_km"`
	AgeMultiplier     float64 `json:"age_multiplier" yaml:"age_multiplier"`
	DepreciationPerKM float64 `json:"depreciation_per_km" yaml:"depreciation_per_km"`
}

func (c CostParamsDTO) ToDomain() *domain.CostParams {
	return &domain.CostParams{
		CostPerKM:         c.CostPerKM,
		FuelLitresPerKM:   c.FuelLitresPerKM,
		FuelPrice:         c.FuelPrice,
		DriverHourlyRate:  c.DriverHourlyRate,
		MaintenancePerKM:  c.MaintenancePerKM,
		AgeMultiplier:     c.AgeMultiplier,
		DepreciationPerKM: c.DepreciationPerKM,
	}
}

// ContainerDTO is the wire shape of a container catalog entry.
type ContainerDTO struct {
	TypeID     string         `json:"type_id" yaml:"type_id"`
	Dimensions DimensionsDTO  `json:"dimensions" yaml:"dimensions"`
	PayloadKG  float64        `json:"payload_kg" yaml:"payload_kg"`
	Category   string         `json:"category" yaml:"category"`
	Cost       *CostParamsDTO `json:"cost,omitempty" yaml:"cost,omitempty"`
}

func (c ContainerDTO) ToDomain() domain.ContainerSnapshot {
	snap := domain.ContainerSnapshot{
		TypeID:     c.TypeID,
		Dimensions: c.Dimensions.ToDomain(),
		PayloadKG:  c.PayloadKG,
		Category:   parseCategory(c.Category),
	}
	if c.Cost != nil {
		snap.Cost = c.Cost.ToDomain()
	}
	return snap
}

func parseCategory(s string) domain.Category {
	switch s {
	case "light":
		return domain.CategoryLight
	case "heavy":
		return domain.CategoryHeavy
	default:
		return domain.CategoryMedium
	}
}

// ContainerSlotDTO pairs a container with how many instances a request
// may draw on. Availability < 0 requests unbounded ("requirements
// calculator") mode.
type ContainerSlotDTO struct {
	Container    ContainerDTO `json:"container" yaml:"container"`
	Availability int          `json:"availability" yaml:"availability"`
}

func (s ContainerSlotDTO) ToDomain() domain.ContainerSlot {
	return domain.ContainerSlot{Container: s.Container.ToDomain(), Availability: s.Availability}
}

// ItemDTO is the wire shape of an item-type catalog entry.
type ItemDTO struct {
	TypeID         string        `json:"type_id" yaml:"type_id"`
	Dimensions     DimensionsDTO `json:"dimensions" yaml:"dimensions"`
	MassKG         float64       `json:"mass_kg" yaml:"mass_kg"`
	CanRotate      bool          `json:"can_rotate" yaml:"can_rotate"`
	Fragile        bool          `json:"fragile" yaml:"fragile"`
	Stackable      bool          `json:"stackable" yaml:"stackable"`
	MaxStackHeight int           `json:"max_stack_height" yaml:"max_stack_height"`
	Priority       int           `json:"priority" yaml:"priority"`
	Value          float64       `json:"value" yaml:"value"`
}

func (i ItemDTO) ToDomain() domain.ItemSnapshot {
	return domain.ItemSnapshot{
		TypeID:         i.TypeID,
		Dimensions:     i.Dimensions.ToDomain(),
		MassKG:         i.MassKG,
		CanRotate:      i.CanRotate,
		Fragile:        i.Fragile,
		Stackable:      i.Stackable,
		MaxStackHeight: i.MaxStackHeight,
		Priority:       i.Priority,
		Value:          i.Value,
	}
}

// ItemCountDTO is one entry of the item multiset.
type ItemCountDTO struct {
	Item  ItemDTO `json:"item" yaml:"item"`
	Count int     `json:"count" yaml:"count"`
}

func (ic ItemCountDTO) ToDomain() domain.ItemCount {
	return domain.ItemCount{Item: ic.Item.ToDomain(), Count: ic.Count}
}

// RouteDTO is the wire shape of a route descriptor.
type RouteDTO struct {
	DistanceKM float64 `json:"distance_km" yaml:"distance_km"`
	RouteType  string  `json:"route_type" yaml:"route_type"`
	Region     string  `json:"region,omitempty" yaml:"region,omitempty"`
}

func (r RouteDTO) ToDomain() (domain.RouteDescriptor, error) {
	rt, ok := domain.ParseRouteType(r.RouteType)
	if !ok && r.RouteType != "" {
		return domain.RouteDescriptor{}, fmt.Errorf("unrecognised route_type: %q", r.RouteType)
	}
	return domain.RouteDescriptor{DistanceKM: r.DistanceKM, RouteType: rt, Region: r.Region}, nil
}

// PackOptionsDTO mirrors domain.PackOptions; zero fields are filled by
// domain.PackRequest.WithDefaults on the server side.
type PackOptionsDTO struct {
	Epsilon           float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
	SigmaMin          float64 `json:"sigma_min,omitempty" yaml:"sigma_min,omitempty"`
	Compaction        *bool   `json:"compaction,omitempty" yaml:"compaction,omitempty"`
	FanOut            int     `json:"fan_out,omitempty" yaml:"fan_out,omitempty"`
	MaxCombos         int     `json:"max_combos,omitempty" yaml:"max_combos,omitempty"`
	MaxContainers     int     `json:"max_containers,omitempty" yaml:"max_containers,omitempty"`
	BalancedWeightUtl float64 `json:"balanced_weight_util,omitempty" yaml:"balanced_weight_util,omitempty"`
	BalancedWeightCst float64 `json:"balanced_weight_cost,omitempty" yaml:"balanced_weight_cost,omitempty"`
}

func (o PackOptionsDTO) ToDomain() domain.PackOptions {
	opts := domain.PackOptions{
		Epsilon:           o.Epsilon,
		SigmaMin:          o.SigmaMin,
		Compaction:        true,
		FanOut:            o.FanOut,
		MaxCombos:         o.MaxCombos,
		MaxContainers:     o.MaxContainers,
		BalancedWeightUtl: o.BalancedWeightUtl,
		BalancedWeightCst: o.BalancedWeightCst,
	}
	if o.Compaction != nil {
		opts.Compaction = *o.Compaction
	}
	return opts
}

// PackRequestDTO is Interface A's wire-level input envelope.
type PackRequestDTO struct {
	Items      []ItemCountDTO     `json:"items" yaml:"items"`
	Containers []ContainerSlotDTO `json:"containers" yaml:"containers"`
	Strategy   string             `json:"strategy" yaml:"strategy"`
	Route      RouteDTO           `json:"route" yaml:"route"`
	DeadlineMS int                `json:"deadline_ms,omitempty" yaml:"deadline_ms,omitempty"`
	Options    PackOptionsDTO     `json:"options,omitempty" yaml:"options,omitempty"`
}

// ToDomain validates the strategy string and converts the wire request
// into the core's domain.PackRequest. Field-level validation beyond
// that (positive dimensions, non-empty multiset, ...) is
// domain.PackRequest.Validate's job, run once by the caller.
func (r PackRequestDTO) ToDomain() (domain.PackRequest, error) {
	strategy, ok := domain.ParseStrategy(r.Strategy)
	if !ok {
		return domain.PackRequest{}, fmt.Errorf("unrecognised strategy: %q", r.Strategy)
	}
	route, err := r.Route.ToDomain()
	if err != nil {
		return domain.PackRequest{}, err
	}

	items := make([]domain.ItemCount, len(r.Items))
	for i, ic := range r.Items {
		items[i] = ic.ToDomain()
	}
	containers := make([]domain.ContainerSlot, len(r.Containers))
	for i, cs := range r.Containers {
		containers[i] = cs.ToDomain()
	}

	return domain.PackRequest{
		Items:      items,
		Containers: containers,
		Strategy:   strategy,
		Route:      route,
		Deadline:   time.Duration(r.DeadlineMS) * time.Millisecond,
		Options:    r.Options.ToDomain(),
	}, nil
}

// ShipmentOrderDTO is one order in a consolidation request.
type ShipmentOrderDTO struct {
	ID             string         `json:"id" yaml:"id"`
	DeliveryRegion string         `json:"delivery_region" yaml:"delivery_region"`
	DeliveryDate   string         `json:"delivery_date" yaml:"delivery_date"` // YYYY-MM-DD
	Items          []ItemCountDTO `json:"items" yaml:"items"`
}

func (o ShipmentOrderDTO) ToDomain() (domain.ShipmentOrder, error) {
	date, err := time.Parse("2006-01-02", o.DeliveryDate)
	if err != nil {
		return domain.ShipmentOrder{}, fmt.Errorf("order %s: invalid delivery_date (want YYYY-MM-DD): %w", o.ID, err)
	}
	items := make([]domain.ItemCount, len(o.Items))
	for i, ic := range o.Items {
		items[i] = ic.ToDomain()
	}
	return domain.ShipmentOrder{ID: o.ID, DeliveryRegion: o.DeliveryRegion, DeliveryDate: date, Items: items}, nil
}

// ConsolidateRequestDTO is the consolidation endpoint's wire-level input
// envelope.
type ConsolidateRequestDTO struct {
	Orders     []ShipmentOrderDTO `json:"orders" yaml:"orders"`
	Containers []ContainerSlotDTO `json:"containers" yaml:"containers"`
	Strategy   string             `json:"strategy" yaml:"strategy"`
	Route      RouteDTO           `json:"route" yaml:"route"`
	Options    PackOptionsDTO     `json:"options,omitempty" yaml:"options,omitempty"`
}
