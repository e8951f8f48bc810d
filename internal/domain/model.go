// Package domain holds the closed record types shared by every core
// component: containers, items, placements, plans, and the request/
// response envelopes for Interfaces A and B. Types here are immutable
// value snapshots once constructed; no component mutates a value it did
// not itself create.
package domain

import "time"

// Strategy selects the sort key and objective function used by C3/C5.
// A Strategy value must always be honoured end to end — no component may
// hard-code a particular strategy (spec.md §4.5 historical regression).
type Strategy int

const (
	StrategySpace Strategy = iota
	StrategyCost
	StrategyBalanced
	StrategyMinTrucks
)

func (s Strategy) String() string {
	switch s {
	case StrategySpace:
		return "space"
	case StrategyCost:
		return "cost"
	case StrategyBalanced:
		return "balanced"
	case StrategyMinTrucks:
		return "min-trucks"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a wire string onto a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "space":
		return StrategySpace, true
	case "cost":
		return StrategyCost, true
	case "balanced":
		return StrategyBalanced, true
	case "min-trucks", "minTrucks", "min_trucks":
		return StrategyMinTrucks, true
	default:
		return 0, false
	}
}

// RouteType selects the toll-rate and average-speed table row used by C2.
type RouteType int

const (
	RouteCity RouteType = iota
	RouteHighway
	RouteExpressway
	RouteMixed
)

func (r RouteType) String() string {
	switch r {
	case RouteCity:
		return "city"
	case RouteHighway:
		return "highway"
	case RouteExpressway:
		return "expressway"
	case RouteMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

func ParseRouteType(s string) (RouteType, bool) {
	switch s {
	case "city":
		return RouteCity, true
	case "highway":
		return RouteHighway, true
	case "expressway":
		return RouteExpressway, true
	case "mixed":
		return RouteMixed, true
	default:
		return 0, false
	}
}

// Category is the advisory light/medium/heavy tag used to look up cost
// defaults when a container snapshot omits optional operational fields.
type Category int

const (
	CategoryLight Category = iota
	CategoryMedium
	CategoryHeavy
)

func (c Category) String() string {
	switch c {
	case CategoryLight:
		return "light"
	case CategoryMedium:
		return "medium"
	case CategoryHeavy:
		return "heavy"
	default:
		return "medium"
	}
}

// RouteDescriptor is the distance/route input consumed by C2.
type RouteDescriptor struct {
	DistanceKM float64
	RouteType  RouteType
	Region     string
}

// Dimensions is a length/width/height triple, in centimetres.
type Dimensions struct {
	L, W, H float64
}

func (d Dimensions) Volume() float64 { return d.L * d.W * d.H }

// Vec3 is a position, in centimetres, relative to a container's min-corner.
type Vec3 struct {
	X, Y, Z float64
}

// CostParams are the optional per-container operational parameters
// consumed by C2. A nil *CostParams on a ContainerSnapshot means "use
// the category default table".
type CostParams struct {
	CostPerKM         float64
	FuelLitresPerKM   float64
	FuelPrice         float64
	DriverHourlyRate  float64
	MaintenancePerKM  float64
	AgeMultiplier     float64
	DepreciationPerKM float64
}

// ContainerSnapshot is an immutable container-type value captured at
// request entry (spec.md §3, "Lifecycle").
type ContainerSnapshot struct {
	TypeID     string
	Dimensions Dimensions
	PayloadKG  float64
	Category   Category
	Cost       *CostParams
}

// ContainerSlot pairs a container type with how many instances of it are
// available. Availability < 0 means unbounded ("requirements calculator"
// mode, spec.md §3).
type ContainerSlot struct {
	Container    ContainerSnapshot
	Availability int
}

func (s ContainerSlot) Unbounded() bool { return s.Availability < 0 }

// ItemSnapshot is an immutable item-type value captured at request entry.
type ItemSnapshot struct {
	TypeID         string
	Dimensions     Dimensions
	MassKG         float64
	CanRotate      bool
	Fragile        bool
	Stackable      bool
	MaxStackHeight int // 0 means unlimited
	Priority       int
	Value          float64
}

// ItemCount is one entry of the {(item_type, count)} multiset.
type ItemCount struct {
	Item  ItemSnapshot
	Count int
}

// Orientation indexes one of the (up to) six axis permutations of an
// item's dimensions.
type Orientation int

const (
	OrientationLWH Orientation = iota // L,W,H
	OrientationLHW                    // L,H,W
	OrientationWLH                    // W,L,H
	OrientationWHL                    // W,H,L
	OrientationHLW                    // H,L,W
	OrientationHWL                    // H,W,L
)

// Placement is a chosen position and orientation for one item instance
// inside one container.
type Placement struct {
	ID             string
	ItemTypeID     string
	Position       Vec3
	Dims           Dimensions // oriented dimensions (L',W',H')
	Orientation    Orientation
	MassKG         float64
	Fragile        bool
	Stackable      bool
	MaxStackHeight int
	Priority       int
	Value          float64
	SupportRatio   float64
}

func (p Placement) Volume() float64 { return p.Dims.Volume() }

// UnfittedItem records how many instances of an item type could not be
// placed.
type UnfittedItem struct {
	ItemTypeID string
	Count      int
}

// PackingResult is C3's per-container output (spec.md §3).
type PackingResult struct {
	ContainerTypeID   string
	Placements        []Placement
	Unfitted          []UnfittedItem
	VolumeUtilization float64
	WeightUtilization float64
	Stability         float64 // lowest support ratio achieved across placements
	Cost              float64
	Objective         float64
	Errors            []string
}

func (r PackingResult) FittedCount() int { return len(r.Placements) }

// ContainerPlacementEntry pairs a container instance with its packing
// result inside a PackingPlan.
type ContainerPlacementEntry struct {
	Container ContainerSnapshot
	Result    PackingResult
}

// PackingPlan is C4/C5's multi-container output (spec.md §3).
type PackingPlan struct {
	Containers        []ContainerPlacementEntry
	GlobalUnfitted    []UnfittedItem
	TotalCost         float64
	AverageVolumeUtil float64
	ContainerCount    int
	Objective         float64
	Partial           bool
	Reasons           []string
}

func (p PackingPlan) UnfittedCount() int {
	n := 0
	for _, u := range p.GlobalUnfitted {
		n += u.Count
	}
	return n
}

// PackOptions carries the tunables spec.md leaves to the embedder:
// tolerance, support threshold, compaction, fan-out, candidate caps, and
// balanced-strategy weights.
type PackOptions struct {
	Epsilon           float64
	SigmaMin          float64
	Compaction        bool
	FanOut            int
	MaxCombos         int
	MaxContainers     int
	BalancedWeightUtl float64
	BalancedWeightCst float64
}

// DefaultPackOptions returns the documented defaults from spec.md.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		Epsilon:           1e-6,
		SigmaMin:          0.80,
		Compaction:        true,
		FanOut:            4,
		MaxCombos:         5,
		MaxContainers:     4,
		BalancedWeightUtl: 1000,
		BalancedWeightCst: 1,
	}
}

// PackRequest is Interface A's input record.
type PackRequest struct {
	Items      []ItemCount
	Containers []ContainerSlot
	Strategy   Strategy
	Route      RouteDescriptor
	MaxCombos  int
	Deadline   time.Duration
	Options    PackOptions
}

// PackResponse is Interface A's output record.
type PackResponse struct {
	Recommendation *PackingPlan
	Alternatives   []PackingPlan
	Diagnostics    []string
	Partial        bool
}

// ShipmentOrder is one source order consumed by C6's consolidation
// layer: an item multiset bound for a delivery region on a delivery
// date, independent of which container(s) eventually carry it.
type ShipmentOrder struct {
	ID             string
	DeliveryRegion string
	DeliveryDate   time.Time
	Items          []ItemCount
}
