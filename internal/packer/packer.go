// Package packer implements C3: placement of a multiset of items into a
// single container under a selected strategy. Pack never raises for
// infeasible inputs; unfitted items are reported in the result.
package packer

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/prakashgarg91/truckopti/internal/geometry"
)

// instance is one concrete item to place, carrying its original
// multiset index for stable tie-breaking.
type instance struct {
	item  domain.ItemSnapshot
	index int
}

// placed tracks bookkeeping alongside each accepted domain.Placement
// that the geometry kernel needs but the wire-level Placement does not
// carry: its existing-box view, its depth in the vertical chain it
// participates in, and the tightest nonzero max-stack-height cap in
// that chain.
type placed struct {
	placement domain.Placement
	existing  geometry.Existing
	chainCap  int // 0 means unconstrained
}

// Pack places items into container under strategy, honouring ctx's
// deadline cooperatively between items (spec.md §4.3, §5).
func Pack(ctx context.Context, container domain.ContainerSnapshot, items []domain.ItemCount, strategy domain.Strategy, opts domain.PackOptions) domain.PackingResult {
	result := domain.PackingResult{ContainerTypeID: container.TypeID}

	if err := container.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		for _, ic := range items {
			result.Unfitted = append(result.Unfitted, domain.UnfittedItem{ItemTypeID: ic.Item.TypeID, Count: ic.Count})
		}
		return result
	}

	eps := opts.Epsilon
	if eps <= 0 {
		eps = 1e-6
	}
	sigmaMin := opts.SigmaMin
	if sigmaMin <= 0 {
		sigmaMin = 0.80
	}

	instances := expand(items)
	sortInstances(instances, strategy)

	var accepted []placed
	anchors := []domain.Vec3{{X: 0, Y: 0, Z: 0}}
	var totalMass float64
	unfittedCounts := map[string]int{}

	deadlineHit := false
	for _, inst := range instances {
		select {
		case <-ctx.Done():
			deadlineHit = true
		default:
		}
		if deadlineHit {
			unfittedCounts[inst.item.TypeID]++
			continue
		}

		if err := inst.item.Validate(); err != nil {
			unfittedCounts[inst.item.TypeID]++
			continue
		}

		p, ok := tryPlace(container, inst.item, accepted, anchors, totalMass, eps, sigmaMin)
		if !ok {
			unfittedCounts[inst.item.TypeID]++
			continue
		}

		accepted = append(accepted, p)
		totalMass += inst.item.MassKG
		anchors = nextAnchors(anchors, container.Dimensions, p.placement, accepted, eps)
	}

	if opts.Compaction && (strategy == domain.StrategySpace || strategy == domain.StrategyBalanced) {
		accepted = compact(container, accepted, eps, sigmaMin)
	}

	result.Placements = make([]domain.Placement, 0, len(accepted))
	volumeFitted := 0.0
	minSupport := 1.0
	for _, p := range accepted {
		result.Placements = append(result.Placements, p.placement)
		volumeFitted += p.placement.Volume()
		if p.placement.Position.Y > eps && p.placement.SupportRatio < minSupport {
			minSupport = p.placement.SupportRatio
		}
	}
	for typeID, count := range unfittedCounts {
		result.Unfitted = append(result.Unfitted, domain.UnfittedItem{ItemTypeID: typeID, Count: count})
	}
	sort.Slice(result.Unfitted, func(i, j int) bool { return result.Unfitted[i].ItemTypeID < result.Unfitted[j].ItemTypeID })

	containerVolume := container.Dimensions.Volume()
	if containerVolume > 0 {
		result.VolumeUtilization = volumeFitted / containerVolume
	}
	if container.PayloadKG > 0 {
		result.WeightUtilization = totalMass / container.PayloadKG
	}
	result.Stability = minSupport
	result.Objective = result.VolumeUtilization

	return result
}

// compact runs one gravity pass: each placement, processed lowest-first,
// slides down to the highest surface its footprint can rest on without
// creating a new overlap or dropping its support ratio below sigmaMin.
// It never raises a placement, so a pass can only improve stability/
// density, never break an already-accepted placement.
func compact(container domain.ContainerSnapshot, accepted []placed, eps, sigmaMin float64) []placed {
	order := append([]placed(nil), accepted...)
	sort.SliceStable(order, func(i, j int) bool { return order[i].placement.Position.Y < order[j].placement.Position.Y })

	settled := make([]placed, 0, len(order))
	for _, p := range order {
		others := make([]geometry.Existing, len(settled))
		for i, s := range settled {
			others[i] = s.existing
		}

		bestY := 0.0
		for _, o := range others {
			top := o.Position.Y + o.Dims.H
			if top >= p.placement.Position.Y-eps {
				continue
			}
			if !footprintsOverlap(p.placement.Position, p.placement.Dims, o.Position, o.Dims) {
				continue
			}
			if top > bestY {
				bestY = top
			}
		}

		candidate := p.placement.Position
		candidate.Y = bestY
		if bestY > eps && geometry.SupportRatio(candidate, p.placement.Dims, others, eps) < sigmaMin {
			candidate.Y = p.placement.Position.Y // cannot settle safely, keep original height
		} else if overlapsSettled(candidate, p.placement.Dims, settled, eps) {
			candidate.Y = p.placement.Position.Y
		}

		p.placement.Position = candidate
		if candidate.Y > eps {
			p.placement.SupportRatio = geometry.SupportRatio(candidate, p.placement.Dims, others, eps)
		} else {
			p.placement.SupportRatio = 1.0
		}
		p.existing.Position = candidate
		depth := geometry.SupportingStackDepth(candidate, p.placement.Dims, others, eps)
		if depth == 0 {
			depth = 1
		}
		p.existing.StackDepth = depth
		settled = append(settled, p)
	}
	return settled
}

func overlapsSettled(pos domain.Vec3, dims domain.Dimensions, settled []placed, eps float64) bool {
	for _, s := range settled {
		if geometry.AABBOverlap(pos, dims, s.placement.Position, s.placement.Dims, eps) {
			return true
		}
	}
	return false
}

func expand(items []domain.ItemCount) []instance {
	out := make([]instance, 0, len(items))
	idx := 0
	for _, ic := range items {
		for i := 0; i < ic.Count; i++ {
			out = append(out, instance{item: ic.Item, index: idx})
			idx++
		}
	}
	return out
}

func sortInstances(instances []instance, strategy domain.Strategy) {
	n := len(instances)
	volRank := make(map[int]float64, n) // keyed by index
	priRank := make(map[int]float64, n)

	if strategy == domain.StrategyBalanced {
		byVol := append([]instance(nil), instances...)
		sort.SliceStable(byVol, func(i, j int) bool { return byVol[i].item.Dimensions.Volume() < byVol[j].item.Dimensions.Volume() })
		for rank, inst := range byVol {
			if n > 1 {
				volRank[inst.index] = float64(rank) / float64(n-1)
			} else {
				volRank[inst.index] = 1
			}
		}
		byPri := append([]instance(nil), instances...)
		sort.SliceStable(byPri, func(i, j int) bool { return byPri[i].item.Priority < byPri[j].item.Priority })
		for rank, inst := range byPri {
			if n > 1 {
				priRank[inst.index] = float64(rank) / float64(n-1)
			} else {
				priRank[inst.index] = 1
			}
		}
	}

	key := func(inst instance) float64 {
		switch strategy {
		case domain.StrategyCost:
			return inst.item.Value
		case domain.StrategyMinTrucks:
			return inst.item.Dimensions.Volume()
		case domain.StrategyBalanced:
			return 0.6*volRank[inst.index] + 0.4*priRank[inst.index]
		default: // space
			return inst.item.Dimensions.Volume()
		}
	}

	maxDim := func(inst instance) float64 {
		d := inst.item.Dimensions
		m := d.L
		if d.W > m {
			m = d.W
		}
		if d.H > m {
			m = d.H
		}
		return m
	}

	sort.SliceStable(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		ka, kb := key(a), key(b)
		if ka != kb {
			return ka > kb
		}
		if strategy == domain.StrategySpace {
			if da, db := maxDim(a), maxDim(b); da != db {
				return da > db
			}
		}
		if a.item.Priority != b.item.Priority {
			return a.item.Priority > b.item.Priority
		}
		if a.item.Fragile != b.item.Fragile {
			return !a.item.Fragile // non-fragile first
		}
		if a.item.MassKG != b.item.MassKG {
			return a.item.MassKG > b.item.MassKG
		}
		return a.index < b.index
	})
}

func tryPlace(container domain.ContainerSnapshot, item domain.ItemSnapshot, accepted []placed, anchors []domain.Vec3, totalMass, eps, sigmaMin float64) (placed, bool) {
	sortedAnchors := append([]domain.Vec3(nil), anchors...)
	sort.SliceStable(sortedAnchors, func(i, j int) bool {
		a, b := sortedAnchors[i], sortedAnchors[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})

	existingBoxes := make([]geometry.Existing, len(accepted))
	for i, p := range accepted {
		existingBoxes[i] = p.existing
	}

	for _, o := range geometry.Orientations(item.Dimensions, item.CanRotate) {
		for _, anchor := range sortedAnchors {
			if !geometry.FitsInside(container.Dimensions, anchor, o.Dims, eps) {
				continue
			}
			if overlapsAny(anchor, o.Dims, accepted, eps) {
				continue
			}
			if totalMass+item.MassKG > container.PayloadKG+eps {
				continue
			}
			var supportRatio float64 = 1.0
			if anchor.Y > eps {
				supportRatio = geometry.SupportRatio(anchor, o.Dims, existingBoxes, eps)
				if supportRatio < sigmaMin {
					continue
				}
			}
			if geometry.IsFragileViolation(anchor, o.Dims, existingBoxes, eps) {
				continue
			}
			depth := geometry.SupportingStackDepth(anchor, o.Dims, existingBoxes, eps)
			if depth == 0 {
				depth = 1 // resting on the container floor, first in its chain
			}
			chainCap := tightestCap(anchor, o.Dims, accepted, eps, item.MaxStackHeight)
			if chainCap > 0 && depth > chainCap {
				continue
			}

			pl := domain.Placement{
				ID:             uuid.NewString(),
				ItemTypeID:     item.TypeID,
				Position:       anchor,
				Dims:           o.Dims,
				Orientation:    o.Orientation,
				MassKG:         item.MassKG,
				Fragile:        item.Fragile,
				Stackable:      item.Stackable,
				MaxStackHeight: item.MaxStackHeight,
				Priority:       item.Priority,
				Value:          item.Value,
				SupportRatio:   supportRatio,
			}
			return placed{
				placement: pl,
				existing: geometry.Existing{
					Position: anchor, Dims: o.Dims,
					Fragile: item.Fragile, Stackable: item.Stackable,
					MaxStackHeight: item.MaxStackHeight, StackDepth: depth,
				},
				chainCap: chainCap,
			}, true
		}
	}
	return placed{}, false
}

func overlapsAny(pos domain.Vec3, dims domain.Dimensions, accepted []placed, eps float64) bool {
	for _, p := range accepted {
		if geometry.AABBOverlap(pos, dims, p.placement.Position, p.placement.Dims, eps) {
			return true
		}
	}
	return false
}

// tightestCap returns the smallest nonzero max-stack-height constraint
// among the candidate item and whatever it directly rests on, so a
// longer chain can never exceed a cap any participant declared.
func tightestCap(pos domain.Vec3, dims domain.Dimensions, accepted []placed, eps float64, candidateCap int) int {
	tightest := candidateCap
	for _, p := range accepted {
		top := p.placement.Position.Y + p.placement.Dims.H
		if absF(top-pos.Y) > eps {
			continue
		}
		if !footprintsOverlap(pos, dims, p.placement.Position, p.placement.Dims) {
			continue
		}
		if p.chainCap > 0 && (tightest == 0 || p.chainCap < tightest) {
			tightest = p.chainCap
		}
	}
	return tightest
}

func footprintsOverlap(aPos domain.Vec3, aDims domain.Dimensions, bPos domain.Vec3, bDims domain.Dimensions) bool {
	ox := minF(aPos.X+aDims.L, bPos.X+bDims.L) - maxF(aPos.X, bPos.X)
	oz := minF(aPos.Z+aDims.W, bPos.Z+bDims.W) - maxF(aPos.Z, bPos.Z)
	return ox > 0 && oz > 0
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// nextAnchors extends the candidate set with the top/right/front
// corners of the just-placed box, discarding any anchor outside the
// container or strictly interior to an existing placement.
func nextAnchors(anchors []domain.Vec3, container domain.Dimensions, p domain.Placement, accepted []placed, eps float64) []domain.Vec3 {
	candidates := []domain.Vec3{
		{X: p.Position.X + p.Dims.L, Y: p.Position.Y, Z: p.Position.Z},
		{X: p.Position.X, Y: p.Position.Y + p.Dims.H, Z: p.Position.Z},
		{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z + p.Dims.W},
	}
	out := append([]domain.Vec3(nil), anchors...)
	for _, c := range candidates {
		if c.X > container.L+eps || c.Y > container.H+eps || c.Z > container.W+eps {
			continue
		}
		if strictlyInsideAny(c, accepted, eps) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func strictlyInsideAny(pos domain.Vec3, accepted []placed, eps float64) bool {
	for _, p := range accepted {
		b := p.placement
		if pos.X > b.Position.X+eps && pos.X < b.Position.X+b.Dims.L-eps &&
			pos.Y > b.Position.Y+eps && pos.Y < b.Position.Y+b.Dims.H-eps &&
			pos.Z > b.Position.Z+eps && pos.Z < b.Position.Z+b.Dims.W-eps {
			return true
		}
	}
	return false
}
