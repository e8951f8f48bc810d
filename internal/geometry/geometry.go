// Package geometry implements C1: pure, side-effect-free cuboid tests
// used by the single-container packer. None of these operations fail;
// they return booleans or numeric results clamped to their valid range.
package geometry

import "github.com/prakashgarg91/truckopti/internal/domain"

// Orientations returns the candidate oriented dimensions for an item.
// When canRotate is false only the original orientation is legal.
func Orientations(dims domain.Dimensions, canRotate bool) []OrientedDims {
	if !canRotate {
		return []OrientedDims{{Orientation: domain.OrientationLWH, Dims: dims}}
	}
	l, w, h := dims.L, dims.W, dims.H
	return []OrientedDims{
		{domain.OrientationLWH, domain.Dimensions{L: l, W: w, H: h}},
		{domain.OrientationLHW, domain.Dimensions{L: l, W: h, H: w}},
		{domain.OrientationWLH, domain.Dimensions{L: w, W: l, H: h}},
		{domain.OrientationWHL, domain.Dimensions{L: w, W: h, H: l}},
		{domain.OrientationHLW, domain.Dimensions{L: h, W: l, H: w}},
		{domain.OrientationHWL, domain.Dimensions{L: h, W: w, H: l}},
	}
}

// OrientedDims pairs an orientation tag with its resulting L',W',H'.
type OrientedDims struct {
	Orientation domain.Orientation
	Dims        domain.Dimensions
}

// FitsInside reports whether a box of the given dims at pos lies within
// a container of dimensions container, within tolerance eps.
func FitsInside(container domain.Dimensions, pos domain.Vec3, dims domain.Dimensions, eps float64) bool {
	if pos.X < -eps || pos.Y < -eps || pos.Z < -eps {
		return false
	}
	if pos.X+dims.L > container.L+eps {
		return false
	}
	if pos.Y+dims.H > container.H+eps {
		return false
	}
	if pos.Z+dims.W > container.W+eps {
		return false
	}
	return true
}

// box is the axis-aligned extent of a placement, used internally for
// overlap and support arithmetic. Y is the vertical (gravity) axis; X
// and Z form the horizontal footprint.
type box struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func boxOf(pos domain.Vec3, dims domain.Dimensions) box {
	return box{
		MinX: pos.X, MinY: pos.Y, MinZ: pos.Z,
		MaxX: pos.X + dims.L, MaxY: pos.Y + dims.H, MaxZ: pos.Z + dims.W,
	}
}

// AABBOverlap reports strict interior overlap between two boxes; shared
// faces do not count as overlap.
func AABBOverlap(aPos domain.Vec3, aDims domain.Dimensions, bPos domain.Vec3, bDims domain.Dimensions, eps float64) bool {
	a, b := boxOf(aPos, aDims), boxOf(bPos, bDims)
	if a.MaxX <= b.MinX+eps || b.MaxX <= a.MinX+eps {
		return false
	}
	if a.MaxY <= b.MinY+eps || b.MaxY <= a.MinY+eps {
		return false
	}
	if a.MaxZ <= b.MinZ+eps || b.MaxZ <= a.MinZ+eps {
		return false
	}
	return true
}

// Existing is the minimal view of an already-accepted placement that
// the support/fragility checks need.
type Existing struct {
	Position       domain.Vec3
	Dims           domain.Dimensions
	Fragile        bool
	Stackable      bool
	MaxStackHeight int
	StackDepth     int // items in the vertical chain from the floor up to and including this placement
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func footprintOverlapArea(x1, z1, l1, w1, x2, z2, l2, w2 float64) float64 {
	ox := min(x1+l1, x2+l2) - max(x1, x2)
	oz := min(z1+w1, z2+w2) - max(z1, z2)
	if ox <= 0 || oz <= 0 {
		return 0
	}
	return ox * oz
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// SupportRatio returns the fraction, in [0,1], of candidate's bottom
// face area that is covered by the top faces of existing placements
// whose top sits at exactly candidate.y (within eps).
func SupportRatio(candPos domain.Vec3, candDims domain.Dimensions, existing []Existing, eps float64) float64 {
	footprint := candDims.L * candDims.W
	if footprint <= 0 {
		return 0
	}
	covered := 0.0
	for _, e := range existing {
		top := e.Position.Y + e.Dims.H
		if abs(top-candPos.Y) > eps {
			continue
		}
		covered += footprintOverlapArea(candPos.X, candPos.Z, candDims.L, candDims.W, e.Position.X, e.Position.Z, e.Dims.L, e.Dims.W)
	}
	return clamp01(covered / footprint)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// IsFragileViolation reports whether placing a box at candPos/candDims
// would put it anywhere above (overlapping even partially by XZ
// footprint) an existing placement that is fragile or non-stackable.
func IsFragileViolation(candPos domain.Vec3, candDims domain.Dimensions, existing []Existing, eps float64) bool {
	for _, e := range existing {
		top := e.Position.Y + e.Dims.H
		if candPos.Y+eps < top {
			continue
		}
		overlap := footprintOverlapArea(candPos.X, candPos.Z, candDims.L, candDims.W, e.Position.X, e.Position.Z, e.Dims.L, e.Dims.W)
		if overlap <= 0 {
			continue
		}
		if e.Fragile || !e.Stackable {
			return true
		}
	}
	return false
}

// SupportingStackDepth returns one plus the maximum stack depth of any
// existing placement directly supporting the candidate at candPos.y,
// used to enforce each participating item's max_stack_height cap.
func SupportingStackDepth(candPos domain.Vec3, candDims domain.Dimensions, existing []Existing, eps float64) int {
	depth := 0
	for _, e := range existing {
		top := e.Position.Y + e.Dims.H
		if abs(top-candPos.Y) > eps {
			continue
		}
		overlap := footprintOverlapArea(candPos.X, candPos.Z, candDims.L, candDims.W, e.Position.X, e.Position.Z, e.Dims.L, e.Dims.W)
		if overlap <= 0 {
			continue
		}
		if e.StackDepth+1 > depth {
			depth = e.StackDepth + 1
		}
	}
	return depth
}
