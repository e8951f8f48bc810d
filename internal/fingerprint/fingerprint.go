// Package fingerprint computes the deterministic, order-independent
// Request Fingerprint described in spec.md §3, used by C7 for cache
// lookups and single-flight coordination.
package fingerprint

import (
	"sort"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/prakashgarg91/truckopti/internal/domain"
)

// keyedItem and keyedContainer are the hash-stable projections of the
// request: identity, count, and the mutable attributes that affect
// packing. Value is included because the cost strategy sorts items by it.
type keyedItem struct {
	TypeID         string
	Count          int
	L, W, H        float64
	MassKG         float64
	CanRotate      bool
	Fragile        bool
	Stackable      bool
	MaxStackHeight int
	Priority       int
	Value          float64
}

type keyedContainer struct {
	TypeID       string
	Availability int
	L, W, H      float64
	PayloadKG    float64
}

type keyedRequest struct {
	Items      []keyedItem `hash:"set"`
	Containers []keyedContainer `hash:"set"`
	Strategy   string
	DistanceKM float64
	RouteType  string
	Region     string
}

// Of computes a Request Fingerprint as a uint64 digest. Item and
// container slices are sorted before hashing in addition to being
// tagged `hash:"set"`, so the fingerprint is order-independent even
// across hashstructure versions that interpret the tag differently.
func Of(req domain.PackRequest) (uint64, error) {
	items := make([]keyedItem, 0, len(req.Items))
	for _, ic := range req.Items {
		items = append(items, keyedItem{
			TypeID:         ic.Item.TypeID,
			Count:          ic.Count,
			L:              ic.Item.Dimensions.L,
			W:              ic.Item.Dimensions.W,
			H:              ic.Item.Dimensions.H,
			MassKG:         ic.Item.MassKG,
			CanRotate:      ic.Item.CanRotate,
			Fragile:        ic.Item.Fragile,
			Stackable:      ic.Item.Stackable,
			MaxStackHeight: ic.Item.MaxStackHeight,
			Priority:       ic.Item.Priority,
			Value:          ic.Item.Value,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TypeID != items[j].TypeID {
			return items[i].TypeID < items[j].TypeID
		}
		return items[i].Count < items[j].Count
	})

	containers := make([]keyedContainer, 0, len(req.Containers))
	for _, slot := range req.Containers {
		containers = append(containers, keyedContainer{
			TypeID:       slot.Container.TypeID,
			Availability: slot.Availability,
			L:            slot.Container.Dimensions.L,
			W:            slot.Container.Dimensions.W,
			H:            slot.Container.Dimensions.H,
			PayloadKG:    slot.Container.PayloadKG,
		})
	}
	sort.Slice(containers, func(i, j int) bool {
		return containers[i].TypeID < containers[j].TypeID
	})

	key := keyedRequest{
		Items:      items,
		Containers: containers,
		Strategy:   req.Strategy.String(),
		DistanceKM: req.Route.DistanceKM,
		RouteType:  req.Route.RouteType.String(),
		Region:     req.Route.Region,
	}

	return hashstructure.Hash(key, hashstructure.FormatV2, &hashstructure.HashOptions{SlicesAsSets: true})
}
