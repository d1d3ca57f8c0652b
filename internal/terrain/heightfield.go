package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const DefaultLayer uint32 = 1 << 0

// HeightField is a square grid of surface heights centred on the world origin.
// It serves as height query, ground overlap and character mover for the car.
type HeightField struct {
	size       float64
	resolution int
	cell       float64
	layer      uint32
	heights    []float64 // (resolution+1)^2 samples, row-major by z
}

// NewHeightField wraps precomputed samples. heights must hold
// (resolution+1)*(resolution+1) values, row-major with z as the row.
func NewHeightField(size float64, resolution int, heights []float64, layer uint32) (*HeightField, error) {
	if size <= 0 {
		return nil, fmt.Errorf("terrain size must be > 0, got %v", size)
	}
	if resolution < 1 {
		return nil, fmt.Errorf("terrain resolution must be >= 1, got %d", resolution)
	}
	points := resolution + 1
	if len(heights) != points*points {
		return nil, fmt.Errorf("terrain expects %d samples, got %d", points*points, len(heights))
	}
	return &HeightField{
		size:       size,
		resolution: resolution,
		cell:       size / float64(resolution),
		layer:      layer,
		heights:    heights,
	}, nil
}

func (h *HeightField) Size() float64 { return h.size }
func (h *HeightField) Layer() uint32 { return h.layer }

func (h *HeightField) sample(ix, iz int) float64 {
	ix = max(0, min(ix, h.resolution))
	iz = max(0, min(iz, h.resolution))
	return h.heights[iz*(h.resolution+1)+ix]
}

// HeightAt interpolates bilinearly between grid samples. Positions outside the
// field read the nearest edge.
func (h *HeightField) HeightAt(x, z float64) float64 {
	half := h.size / 2
	gx := mgl64.Clamp((x+half)/h.cell, 0, float64(h.resolution))
	gz := mgl64.Clamp((z+half)/h.cell, 0, float64(h.resolution))

	x0, z0 := math.Floor(gx), math.Floor(gz)
	tx, tz := gx-x0, gz-z0
	ix, iz := int(x0), int(z0)

	h00 := h.sample(ix, iz)
	h10 := h.sample(ix+1, iz)
	h01 := h.sample(ix, iz+1)
	h11 := h.sample(ix+1, iz+1)

	near := h00 + (h10-h00)*tx
	far := h01 + (h11-h01)*tx
	return near + (far-near)*tz
}

// OverlapSphere reports whether the sphere reaches the surface under its
// centre. The field has no trigger volumes.
func (h *HeightField) OverlapSphere(center mgl64.Vec3, radius float64, layers uint32) bool {
	if layers&h.layer == 0 {
		return false
	}
	return center.Y()-radius <= h.HeightAt(center.X(), center.Z())
}

// Move applies displacement and pushes the body back onto the surface if it
// ends up below it.
func (h *HeightField) Move(from, displacement mgl64.Vec3) mgl64.Vec3 {
	to := from.Add(displacement)
	if ground := h.HeightAt(to.X(), to.Z()); to.Y() < ground {
		to[1] = ground
	}
	return to
}
