package geometry

import (
	"testing"

	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-6

func TestOrientations(t *testing.T) {
	dims := domain.Dimensions{L: 1, W: 2, H: 3}

	t.Run("rotation disabled returns one orientation", func(t *testing.T) {
		got := Orientations(dims, false)
		assert.Len(t, got, 1)
		assert.Equal(t, domain.OrientationLWH, got[0].Orientation)
	})

	t.Run("rotation enabled returns six orientations", func(t *testing.T) {
		got := Orientations(dims, true)
		assert.Len(t, got, 6)
		for _, o := range got {
			assert.InDelta(t, dims.Volume(), o.Dims.Volume(), 1e-9)
		}
	})
}

func TestFitsInside(t *testing.T) {
	container := domain.Dimensions{L: 100, W: 100, H: 100}

	assert.True(t, FitsInside(container, domain.Vec3{}, domain.Dimensions{L: 100, W: 100, H: 100}, eps))
	assert.False(t, FitsInside(container, domain.Vec3{X: 1}, domain.Dimensions{L: 100, W: 100, H: 100}, eps))
	assert.True(t, FitsInside(container, domain.Vec3{X: 50}, domain.Dimensions{L: 50, W: 100, H: 100}, eps))
}

func TestAABBOverlap(t *testing.T) {
	dims := domain.Dimensions{L: 10, W: 10, H: 10}

	t.Run("sharing a face is not overlap", func(t *testing.T) {
		assert.False(t, AABBOverlap(domain.Vec3{}, dims, domain.Vec3{X: 10}, dims, eps))
	})

	t.Run("interior overlap is detected", func(t *testing.T) {
		assert.True(t, AABBOverlap(domain.Vec3{}, dims, domain.Vec3{X: 5}, dims, eps))
	})
}

func TestSupportRatio_S3Scenario(t *testing.T) {
	// spec.md §8.S3: A = (200,200,100) at origin; B = (100,200,100).
	existing := []Existing{{
		Position: domain.Vec3{X: 0, Y: 0, Z: 0},
		Dims:     domain.Dimensions{L: 200, W: 200, H: 100},
	}}

	t.Run("fully supported", func(t *testing.T) {
		ratio := SupportRatio(domain.Vec3{X: 0, Y: 100, Z: 0}, domain.Dimensions{L: 100, W: 200, H: 100}, existing, eps)
		assert.InDelta(t, 1.0, ratio, 1e-9)
	})

	t.Run("partial overhang falls below sigma_min", func(t *testing.T) {
		ratio := SupportRatio(domain.Vec3{X: 150, Y: 100, Z: 0}, domain.Dimensions{L: 100, W: 200, H: 100}, existing, eps)
		assert.Less(t, ratio, 0.80)
	})
}

func TestIsFragileViolation(t *testing.T) {
	fragileBelow := []Existing{{
		Position: domain.Vec3{X: 0, Y: 0, Z: 0},
		Dims:     domain.Dimensions{L: 100, W: 100, H: 100},
		Fragile:  true, Stackable: true,
	}}
	assert.True(t, IsFragileViolation(domain.Vec3{X: 0, Y: 100, Z: 0}, domain.Dimensions{L: 50, W: 50, H: 50}, fragileBelow, eps))

	nonFragileBelow := []Existing{{
		Position: domain.Vec3{X: 0, Y: 0, Z: 0},
		Dims:     domain.Dimensions{L: 100, W: 100, H: 100},
		Fragile:  false, Stackable: true,
	}}
	assert.False(t, IsFragileViolation(domain.Vec3{X: 0, Y: 100, Z: 0}, domain.Dimensions{L: 50, W: 50, H: 50}, nonFragileBelow, eps))
}
