// Package allocator implements C4: sequential multi-container fill of a
// residual item pool across a fleet of container instances.
package allocator

import (
	"context"
	"sort"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/packer"
)

// unboundedTrialCap bounds how many instances of an unbounded
// (requirements-calculator) container slot are tried before allocation
// gives up on that slot, so a catalog entry that can never fit anything
// cannot spin forever.
const unboundedTrialCap = 10000

// Allocate fills containers from slots, in slot order, against the
// residual item pool, stopping once the pool is empty, every slot is
// exhausted, or ctx's deadline is hit. Allocate itself does not score
// the plan against a strategy objective (that is internal/recommend's
// job, per spec.md §4.5); PackingPlan.Objective is left zero here.
func Allocate(ctx context.Context, slots []domain.ContainerSlot, items []domain.ItemCount, strategy domain.Strategy, route domain.RouteDescriptor, costModel cost.Model, opts domain.PackOptions) (domain.PackingPlan, *coreerr.Error) {
	if len(slots) == 0 {
		return domain.PackingPlan{}, coreerr.New(coreerr.InvalidInput, "containers catalog slice must not be empty", nil)
	}
	if len(items) == 0 {
		return domain.PackingPlan{}, coreerr.New(coreerr.InvalidInput, "items multiset must not be empty", nil)
	}
	for _, slot := range slots {
		if err := slot.Container.Validate(); err != nil {
			return domain.PackingPlan{}, err
		}
	}

	orderedSlots := append([]domain.ContainerSlot(nil), slots...)
	if strategy == domain.StrategyMinTrucks {
		sort.SliceStable(orderedSlots, func(i, j int) bool {
			return lessCapacity(orderedSlots[i].Container, orderedSlots[j].Container)
		})
	}

	residual := toResidual(items)
	var plan domain.PackingPlan
	partial := false

	for _, slot := range orderedSlots {
		if !hasResidual(residual) {
			break
		}

		trials := slot.Availability
		unbounded := slot.Unbounded()
		if unbounded {
			trials = unboundedTrialCap
		}

		for n := 0; n < trials; n++ {
			select {
			case <-ctx.Done():
				partial = true
			default:
			}
			if partial || !hasResidual(residual) {
				break
			}

			result := packer.Pack(ctx, slot.Container, residualItemCounts(residual), strategy, opts)
			if result.FittedCount() == 0 {
				break // this container type cannot take any more of the residual pool
			}

			breakdown, cerr := costModel.Compute(slot.Container, route)
			if cerr != nil {
				return domain.PackingPlan{}, cerr
			}
			result.Cost = breakdown.Total()

			plan.Containers = append(plan.Containers, domain.ContainerPlacementEntry{
				Container: slot.Container,
				Result:    result,
			})
			subtractFitted(residual, result.Placements)
		}
	}

	if ctx.Err() != nil {
		partial = true
	}

	plan.GlobalUnfitted = residualAsUnfitted(residual)
	plan.ContainerCount = len(plan.Containers)
	plan.Partial = partial || plan.UnfittedCount() > 0
	if plan.Partial && len(plan.Reasons) == 0 {
		if ctx.Err() != nil {
			plan.Reasons = append(plan.Reasons, "deadline exceeded before all items were placed")
		} else {
			plan.Reasons = append(plan.Reasons, "fleet capacity exhausted before all items were placed")
		}
	}

	var totalUtil float64
	for _, entry := range plan.Containers {
		plan.TotalCost += entry.Result.Cost
		totalUtil += entry.Result.VolumeUtilization
	}
	if plan.ContainerCount > 0 {
		plan.AverageVolumeUtil = totalUtil / float64(plan.ContainerCount)
	}

	return plan, nil
}

// lessCapacity implements spec.md §4.4's container ordering: descending
// volume, then descending payload only on a volume tie, rather than a
// weighted sum of the two (which would let a much heavier but smaller
// container outrank a larger one).
func lessCapacity(a, b domain.ContainerSnapshot) bool {
	av, bv := a.Dimensions.Volume(), b.Dimensions.Volume()
	if av != bv {
		return av > bv
	}
	return a.PayloadKG > b.PayloadKG
}

func toResidual(items []domain.ItemCount) map[string]*domain.ItemCount {
	residual := make(map[string]*domain.ItemCount, len(items))
	for _, ic := range items {
		cp := ic
		residual[ic.Item.TypeID] = &cp
	}
	return residual
}

func hasResidual(residual map[string]*domain.ItemCount) bool {
	for _, ic := range residual {
		if ic.Count > 0 {
			return true
		}
	}
	return false
}

func residualItemCounts(residual map[string]*domain.ItemCount) []domain.ItemCount {
	out := make([]domain.ItemCount, 0, len(residual))
	for _, ic := range residual {
		if ic.Count > 0 {
			out = append(out, *ic)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.TypeID < out[j].Item.TypeID })
	return out
}

func subtractFitted(residual map[string]*domain.ItemCount, placements []domain.Placement) {
	for _, p := range placements {
		if ic, ok := residual[p.ItemTypeID]; ok {
			ic.Count--
		}
	}
}

func residualAsUnfitted(residual map[string]*domain.ItemCount) []domain.UnfittedItem {
	out := make([]domain.UnfittedItem, 0)
	for typeID, ic := range residual {
		if ic.Count > 0 {
			out = append(out, domain.UnfittedItem{ItemTypeID: typeID, Count: ic.Count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemTypeID < out[j].ItemTypeID })
	return out
}
