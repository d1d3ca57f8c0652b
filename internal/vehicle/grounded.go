package vehicle

import "github.com/go-gl/mathgl/mgl64"

// GroundOverlap answers whether a sphere touches any collider on the given
// layers. Trigger volumes must be ignored.
type GroundOverlap interface {
	OverlapSphere(center mgl64.Vec3, radius float64, layers uint32) bool
}

type GroundedDetector struct {
	query  GroundOverlap
	offset float64
	radius float64
	layers uint32
}

func NewGroundedDetector(query GroundOverlap, t Tuning) GroundedDetector {
	return GroundedDetector{
		query:  query,
		offset: t.GroundedOffset,
		radius: t.GroundedRadius,
		layers: t.GroundLayers,
	}
}

// ProbeCenter is the centre of the grounded sphere for a chassis origin.
func (d GroundedDetector) ProbeCenter(position mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{position.X(), position.Y() - d.offset, position.Z()}
}

func (d GroundedDetector) IsGrounded(position mgl64.Vec3) bool {
	if d.query == nil {
		return false
	}
	return d.query.OverlapSphere(d.ProbeCenter(position), d.radius, d.layers)
}
