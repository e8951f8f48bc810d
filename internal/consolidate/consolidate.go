// Package consolidate implements C6: grouping shipment orders by a
// consolidation key and merging a group into one packing plan only when
// doing so strictly beats packing its orders separately.
package consolidate

import (
	"context"
	"strings"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/recommend"
)

const provenanceSep = "::"

// ConsolidationKeyFunc derives the grouping key two orders must share
// to be considered for consolidation.
type ConsolidationKeyFunc func(domain.ShipmentOrder) string

// DefaultKey groups by delivery region and date, per spec.md §4.6.
func DefaultKey(o domain.ShipmentOrder) string {
	return o.DeliveryRegion + "|" + o.DeliveryDate.Format("2006-01-02")
}

// Result pairs one group's chosen plan with whether the group was
// actually merged and which source orders it carries.
type Result struct {
	OrderIDs []string
	Merged   bool
	Plan     domain.PackingPlan
}

// Consolidate groups orders by keyFunc (DefaultKey if nil). A group of
// exactly one order always keeps its own plan. A group of two or more
// is merged into a single plan only if the merged plan's objective is
// strictly greater than the sum of each order's own separately-packed
// objective (spec.md §9 Open Question 3: strict "<", not "<="); an
// equal-or-worse merge leaves every order in the group with its own
// plan instead. Placement item-type IDs inside a merged plan are
// provenance-tagged "<orderID>::<itemTypeID>" — recover the source
// order of a placement with SplitProvenance.
func Consolidate(ctx context.Context, orders []domain.ShipmentOrder, containers []domain.ContainerSlot, strategy domain.Strategy, route domain.RouteDescriptor, costModel cost.Model, opts domain.PackOptions, keyFunc ConsolidationKeyFunc) ([]Result, *coreerr.Error) {
	if len(orders) == 0 {
		return nil, coreerr.New(coreerr.InvalidInput, "orders must not be empty", nil)
	}
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	if keyFunc == nil {
		keyFunc = DefaultKey
	}

	groups := map[string][]domain.ShipmentOrder{}
	var groupOrder []string
	for _, o := range orders {
		key := keyFunc(o)
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], o)
	}

	var results []Result
	for _, key := range groupOrder {
		group := groups[key]
		if len(group) == 1 {
			plan, err := planFor(ctx, group, containers, strategy, route, costModel, opts)
			if err != nil {
				return nil, err
			}
			results = append(results, Result{OrderIDs: orderIDs(group), Plan: plan})
			continue
		}

		separateSum := 0.0
		for _, o := range group {
			p, err := planFor(ctx, []domain.ShipmentOrder{o}, containers, strategy, route, costModel, opts)
			if err != nil {
				return nil, err
			}
			separateSum += recommend.Objective(strategy, p, opts)
		}

		mergedPlan, err := planFor(ctx, group, containers, strategy, route, costModel, opts)
		if err != nil {
			return nil, err
		}
		mergedObjective := recommend.Objective(strategy, mergedPlan, opts)

		if mergedObjective > separateSum {
			results = append(results, Result{OrderIDs: orderIDs(group), Merged: true, Plan: mergedPlan})
			continue
		}

		for _, o := range group {
			p, err := planFor(ctx, []domain.ShipmentOrder{o}, containers, strategy, route, costModel, opts)
			if err != nil {
				return nil, err
			}
			results = append(results, Result{OrderIDs: []string{o.ID}, Plan: p})
		}
	}

	return results, nil
}

// SplitProvenance recovers the source order ID and original item type
// ID from a provenance-tagged placement's ItemTypeID.
func SplitProvenance(taggedTypeID string) (orderID, itemTypeID string, ok bool) {
	parts := strings.SplitN(taggedTypeID, provenanceSep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func planFor(ctx context.Context, group []domain.ShipmentOrder, containers []domain.ContainerSlot, strategy domain.Strategy, route domain.RouteDescriptor, costModel cost.Model, opts domain.PackOptions) (domain.PackingPlan, *coreerr.Error) {
	items := mergeItems(group)
	req := domain.PackRequest{Items: items, Containers: containers, Strategy: strategy, Route: route, Options: opts}

	resp, err := recommend.Recommend(ctx, req, costModel)
	if err != nil {
		if err.Kind == coreerr.NoFeasibleCandidate {
			return domain.PackingPlan{Partial: true, GlobalUnfitted: unfittedFromItems(items)}, nil
		}
		return domain.PackingPlan{}, err
	}
	return *resp.Recommendation, nil
}

// mergeItems concatenates every order's item multiset into one,
// provenance-tagging each item type so placements can always be traced
// back to the order that requested them even after merging.
func mergeItems(group []domain.ShipmentOrder) []domain.ItemCount {
	merged := make([]domain.ItemCount, 0)
	for _, o := range group {
		for _, ic := range o.Items {
			tagged := ic
			tagged.Item.TypeID = o.ID + provenanceSep + ic.Item.TypeID
			merged = append(merged, tagged)
		}
	}
	return merged
}

func unfittedFromItems(items []domain.ItemCount) []domain.UnfittedItem {
	out := make([]domain.UnfittedItem, len(items))
	for i, ic := range items {
		out[i] = domain.UnfittedItem{ItemTypeID: ic.Item.TypeID, Count: ic.Count}
	}
	return out
}

func orderIDs(group []domain.ShipmentOrder) []string {
	ids := make([]string, len(group))
	for i, o := range group {
		ids[i] = o.ID
	}
	return ids
}
