// Package recommend implements C5: candidate container-fleet
// enumeration, strategy-branched scoring, and ranking across the
// resulting packing plans.
package recommend

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/prakashgarg91/truckopti/internal/allocator"
	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/domain"
)

// unfittedPenalty is spec.md §4.5's dominant scoring term: it must
// outweigh any plausible utilization/cost delta so a candidate that
// leaves items unfitted never outranks one that fits everything.
const unfittedPenalty = 1e6

// perfectFitBonus rewards the smallest-volume single-container plan
// that fits every item in one instance (spec.md §4.5 step 1), so it is
// preferred over other feasible candidates with an equal or close
// strategy score, without being able to outweigh unfittedPenalty.
const perfectFitBonus = 1e3

type candidate struct {
	slots []domain.ContainerSlot
	// singleInstance marks a candidate built from exactly one instance
	// of one container type, as opposed to the "full availability of
	// this type" candidate, which may resolve to several instances.
	// Only a singleInstance candidate can be the spec's "perfect fit".
	singleInstance bool
}

type scored struct {
	plan           domain.PackingPlan
	objective      float64
	singleInstance bool
}

// Recommend enumerates candidate container-fleet subsets (the full
// catalog, each single type at full availability, each single type at
// exactly one instance, bounded pairs, and a greedy residual-reducing
// extension up to MaxContainers distinct types), allocates each through
// C4, scores the resulting plan under req.Strategy, and returns the
// best plan as the Recommendation with the remaining feasible plans as
// Alternatives (spec.md §4.5). Candidate evaluation runs with bounded
// fan-out via errgroup, capped by req.Options.FanOut.
func Recommend(ctx context.Context, req domain.PackRequest, costModel cost.Model) (domain.PackResponse, *coreerr.Error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return domain.PackResponse{}, err
	}

	candidates := buildCandidates(ctx, req.Containers, req.Items, req.Strategy, req.Route, costModel, req.Options)

	results := make([]*scored, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(1, req.Options.FanOut))
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			plan, aerr := allocator.Allocate(gctx, c.slots, req.Items, req.Strategy, req.Route, costModel, req.Options)
			if aerr != nil || plan.ContainerCount == 0 {
				return nil // an infeasible or malformed candidate just drops out of the race
			}
			results[i] = &scored{
				plan:           plan,
				objective:      Objective(req.Strategy, plan, req.Options),
				singleInstance: c.singleInstance,
			}
			return nil
		})
	}
	_ = g.Wait() // no goroutine above returns a non-nil error; nothing to propagate

	feasible := make([]scored, 0, len(results))
	for _, r := range results {
		if r != nil {
			feasible = append(feasible, *r)
		}
	}

	if len(feasible) == 0 {
		return domain.PackResponse{Diagnostics: []string{"no candidate container combination could place any item"}},
			coreerr.New(coreerr.NoFeasibleCandidate, "no feasible candidate found", nil)
	}

	applyPerfectFitBonus(feasible)

	sort.SliceStable(feasible, func(i, j int) bool {
		if feasible[i].objective != feasible[j].objective {
			return feasible[i].objective > feasible[j].objective
		}
		if feasible[i].plan.ContainerCount != feasible[j].plan.ContainerCount {
			return feasible[i].plan.ContainerCount < feasible[j].plan.ContainerCount
		}
		return feasible[i].plan.TotalCost < feasible[j].plan.TotalCost
	})

	best := feasible[0].plan
	best.Objective = feasible[0].objective

	alternatives := make([]domain.PackingPlan, 0, len(feasible)-1)
	for _, s := range feasible[1:] {
		p := s.plan
		p.Objective = s.objective
		alternatives = append(alternatives, p)
	}

	return domain.PackResponse{
		Recommendation: &best,
		Alternatives:   alternatives,
		Partial:        best.Partial,
	}, nil
}

// applyPerfectFitBonus finds the smallest-volume singleInstance
// candidate that fitted every item in its one container and adds
// perfectFitBonus to its objective, per spec.md §4.5 step 1.
func applyPerfectFitBonus(feasible []scored) {
	best := -1
	bestVolume := math.MaxFloat64
	for i, r := range feasible {
		if !r.singleInstance || r.plan.ContainerCount != 1 || r.plan.UnfittedCount() != 0 {
			continue
		}
		volume := r.plan.Containers[0].Container.Dimensions.Volume()
		if volume < bestVolume {
			bestVolume = volume
			best = i
		}
	}
	if best != -1 {
		feasible[best].objective += perfectFitBonus
	}
}

// planVolumeUtil computes spec.md §4.5's
// `utilization = Σ fitted_volume / Σ container_volume_used`: a single
// plan-wide ratio over the summed volumes, not a mean of each
// container's own utilization fraction. The two differ whenever
// containers in the same plan have unequal volumes.
func planVolumeUtil(plan domain.PackingPlan) float64 {
	var fitted, used float64
	for _, entry := range plan.Containers {
		for _, p := range entry.Result.Placements {
			fitted += p.Volume()
		}
		used += entry.Container.Dimensions.Volume()
	}
	if used == 0 {
		return 0
	}
	return fitted / used
}

// Objective scores a plan under strategy, following spec.md §4.5's
// formulas literally: every strategy minimizes or maximizes a
// quantity that includes unfittedPenalty as the dominant term, so a
// candidate leaving items unfitted can never outrank one that fits
// everything. Scores here are expressed so higher is always better
// (minimizing strategies return the negated quantity). Weights for the
// balanced strategy come from PackOptions (default W_u=1000, W_c=1,
// spec.md §4.5 / §9 Open Question 2). Exported so internal/consolidate
// can compare a merged plan's objective against the sum of its source
// orders' separate objectives using the exact same scoring rule.
func Objective(strategy domain.Strategy, plan domain.PackingPlan, opts domain.PackOptions) float64 {
	utilization := planVolumeUtil(plan)
	penalty := unfittedPenalty * float64(plan.UnfittedCount())

	switch strategy {
	case domain.StrategyCost:
		// minimize(cost + penalty)
		return -(plan.TotalCost + penalty)
	case domain.StrategyMinTrucks:
		// minimize(truck_count*1000 + cost + penalty)
		return -(float64(plan.ContainerCount)*1000 + plan.TotalCost + penalty)
	case domain.StrategyBalanced:
		// minimize(-utilization*W_u + cost*W_c + penalty)
		return opts.BalancedWeightUtl*utilization - opts.BalancedWeightCst*plan.TotalCost - penalty
	default: // space: maximize(utilization - penalty)
		return utilization - penalty
	}
}

// buildCandidates enumerates the container-fleet subsets C5 evaluates
// per spec.md §4.5: the full catalog as a baseline, every single
// container type (both at full slot availability and, separately, at
// exactly one instance so a genuine perfect fit can be recognised), up
// to MaxCombos distinct pairs, and a residual-reducing greedy extension
// up to MaxContainers distinct types.
func buildCandidates(ctx context.Context, slots []domain.ContainerSlot, items []domain.ItemCount, strategy domain.Strategy, route domain.RouteDescriptor, costModel cost.Model, opts domain.PackOptions) []candidate {
	seen := map[string]bool{}
	var out []candidate

	add := func(set []domain.ContainerSlot) {
		key := candidateKey(set)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, candidate{slots: append([]domain.ContainerSlot(nil), set...)})
	}

	add(slots)
	for _, s := range slots {
		add([]domain.ContainerSlot{s})

		single := s
		single.Availability = 1
		out = append(out, candidate{slots: []domain.ContainerSlot{single}, singleInstance: true})
	}

	pairBudget := opts.MaxCombos
	if pairBudget <= 0 {
		pairBudget = 5
	}
	pairsTried := 0
	for i := 0; i < len(slots) && pairsTried < pairBudget; i++ {
		for j := i + 1; j < len(slots) && pairsTried < pairBudget; j++ {
			add([]domain.ContainerSlot{slots[i], slots[j]})
			pairsTried++
		}
	}

	maxTypes := opts.MaxContainers
	if maxTypes <= 0 {
		maxTypes = 4
	}
	out = append(out, greedyResidualExtension(ctx, slots, items, strategy, route, costModel, opts, maxTypes)...)

	return out
}

// greedyResidualExtension implements spec.md §4.5 step 3 literally: at
// each step, try adding each remaining container type to the set
// chosen so far, actually allocate against the full item multiset, and
// keep whichever addition leaves the least unfitted volume. One
// candidate is emitted per size reached from 3 up to maxTypes ("triple
// and higher combinations"), so later recommend-layer scoring sees the
// progressively extended fleets as distinct alternatives.
func greedyResidualExtension(ctx context.Context, slots []domain.ContainerSlot, items []domain.ItemCount, strategy domain.Strategy, route domain.RouteDescriptor, costModel cost.Model, opts domain.PackOptions, maxTypes int) []candidate {
	if maxTypes <= 2 || len(slots) <= 2 {
		return nil
	}

	itemVolumes := make(map[string]float64, len(items))
	for _, ic := range items {
		itemVolumes[ic.Item.TypeID] = ic.Item.Dimensions.Volume()
	}

	chosen := make([]domain.ContainerSlot, 0, maxTypes)
	remaining := append([]domain.ContainerSlot(nil), slots...)
	var out []candidate

	for len(chosen) < maxTypes && len(remaining) > 0 {
		bestIdx := -1
		bestResidual := math.MaxFloat64

		for i, s := range remaining {
			trial := append(append([]domain.ContainerSlot(nil), chosen...), s)
			plan, aerr := allocator.Allocate(ctx, trial, items, strategy, route, costModel, opts)
			if aerr != nil {
				continue
			}
			residual := unfittedVolume(plan, itemVolumes)
			if residual < bestResidual || (residual == bestResidual && bestIdx >= 0 && lessCapacity(s.Container, remaining[bestIdx].Container)) {
				bestResidual = residual
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}

		chosen = append(chosen, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		if len(chosen) >= 3 {
			out = append(out, candidate{slots: append([]domain.ContainerSlot(nil), chosen...)})
		}
		if bestResidual <= 0 {
			break
		}
	}

	return out
}

func unfittedVolume(plan domain.PackingPlan, itemVolumes map[string]float64) float64 {
	var v float64
	for _, u := range plan.GlobalUnfitted {
		v += itemVolumes[u.ItemTypeID] * float64(u.Count)
	}
	return v
}

func candidateKey(slots []domain.ContainerSlot) string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.Container.TypeID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// lessCapacity implements spec.md §4.4's container ordering: descending
// volume, then descending payload only on a volume tie. It is not a
// weighted sum of the two — summing cm³ of volume and kg of payload
// lets a much heavier but smaller container outrank a larger one,
// which the spec's lexicographic rule never allows.
func lessCapacity(a, b domain.ContainerSnapshot) bool {
	av, bv := a.Dimensions.Volume(), b.Dimensions.Volume()
	if av != bv {
		return av > bv
	}
	return a.PayloadKG > b.PayloadKG
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
