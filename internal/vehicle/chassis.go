package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HeightQuery returns the terrain surface height under a world X/Z position.
type HeightQuery interface {
	HeightAt(x, z float64) float64
}

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

type Wheel int

const (
	WheelBL Wheel = iota
	WheelBR
	WheelFL
	WheelFR
)

// WheelAnchors are the wheel hub positions in chassis space, indexed by Wheel.
var WheelAnchors = [4]mgl64.Vec3{
	WheelBL: {-WheelTrackWidth / 2, 0, -WheelbaseLength / 2},
	WheelBR: {WheelTrackWidth / 2, 0, -WheelbaseLength / 2},
	WheelFL: {-WheelTrackWidth / 2, 0, WheelbaseLength / 2},
	WheelFR: {WheelTrackWidth / 2, 0, WheelbaseLength / 2},
}

// WheelContacts holds the terrain height under each wheel.
type WheelContacts struct {
	BL float64
	BR float64
	FL float64
	FR float64
}

// EulerDegrees builds a rotation from angles in degrees, applied Z first, then
// X, then Y.
func EulerDegrees(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(x), Right)
	qy := mgl64.QuatRotate(mgl64.DegToRad(y), Up)
	qz := mgl64.QuatRotate(mgl64.DegToRad(z), Forward)
	return qy.Mul(qx).Mul(qz)
}

// RotateSelf composes an euler rotation in the object's own frame.
func RotateSelf(orientation mgl64.Quat, x, y, z float64) mgl64.Quat {
	return orientation.Mul(EulerDegrees(x, y, z)).Normalize()
}

// ForwardAxis is the chassis forward direction in world space.
func ForwardAxis(orientation mgl64.Quat) mgl64.Vec3 {
	return orientation.Rotate(Forward).Normalize()
}

func LocalToWorld(position mgl64.Vec3, orientation mgl64.Quat, local mgl64.Vec3) mgl64.Vec3 {
	return position.Add(orientation.Rotate(local))
}

func WheelPositions(position mgl64.Vec3, orientation mgl64.Quat) [4]mgl64.Vec3 {
	var out [4]mgl64.Vec3
	for i, anchor := range WheelAnchors {
		out[i] = LocalToWorld(position, orientation, anchor)
	}
	return out
}

func SampleWheelContacts(terrain HeightQuery, position mgl64.Vec3, orientation mgl64.Quat) WheelContacts {
	if terrain == nil {
		return WheelContacts{}
	}
	wheels := WheelPositions(position, orientation)
	sample := func(w Wheel) float64 {
		return terrain.HeightAt(wheels[w].X(), wheels[w].Z())
	}
	return WheelContacts{
		BL: sample(WheelBL),
		BR: sample(WheelBR),
		FL: sample(WheelFL),
		FR: sample(WheelFR),
	}
}

// Steer yaws the chassis about its own up axis.
func Steer(orientation mgl64.Quat, moveX, speed float64, t Tuning, dt float64) mgl64.Quat {
	return RotateSelf(orientation, 0, t.SteeringPower*speed*moveX*dt, 0)
}

// TerrainTilt returns the pitch and roll, in degrees, that the wheel contacts
// ask for. Each side rests on its highest wheel.
func TerrainTilt(c WheelContacts) (pitch, roll float64) {
	leftRightDiff := math.Max(c.BR, c.FR) - math.Max(c.BL, c.FL)
	leftRightAngle := math.Atan2(leftRightDiff, WheelTrackWidth)

	frontBackDiff := math.Max(c.BL, c.BR) - math.Max(c.FL, c.FR)
	frontBackAngle := math.Atan2(frontBackDiff, WheelbaseLength)

	return mgl64.RadToDeg(frontBackAngle), mgl64.RadToDeg(leftRightAngle)
}

// AlignToTerrain composes the terrain tilt onto orientation. It is an
// increment, not an absolute pitch/roll.
func AlignToTerrain(orientation mgl64.Quat, c WheelContacts) mgl64.Quat {
	pitch, roll := TerrainTilt(c)
	return RotateSelf(orientation, pitch, 0, roll)
}
