package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	BlendRate         = 0.5   // blend ratio change per second
	OrbitAngularRate  = 0.005 // radians per second per unit of look input
	OrbitHeightOffset = 1.1
)

type HeightQuery interface {
	HeightAt(x, z float64) float64
}

// Config holds the camera tunables. Offsets are in chassis space.
type Config struct {
	Distance      float64    `yaml:"distance"`
	TopClamp      float64    `yaml:"top_clamp"`
	BottomClamp   float64    `yaml:"bottom_clamp"`
	AngleOverride float64    `yaml:"angle_override"`
	LockPosition  bool       `yaml:"lock_position"`
	RootOffset    [3]float64 `yaml:"root_offset"`
	LookAtOffset  [3]float64 `yaml:"look_at_offset"`
}

func DefaultConfig() Config {
	return Config{
		Distance:     10,
		TopClamp:     70,
		BottomClamp:  -30,
		RootOffset:   [3]float64{0, 3, -8},
		LookAtOffset: [3]float64{0, 1, 0},
	}
}

// Offsets returns the chassis-space follow root and look-at points.
func (c Config) Offsets() (root, lookAt mgl64.Vec3) {
	return mgl64.Vec3(c.RootOffset), mgl64.Vec3(c.LookAtOffset)
}

func (c Config) Validate() error {
	if c.Distance <= 0 {
		return fmt.Errorf("camera distance must be > 0, got %v", c.Distance)
	}
	if c.BottomClamp > c.TopClamp {
		return fmt.Errorf("camera bottom_clamp %v above top_clamp %v", c.BottomClamp, c.TopClamp)
	}
	return nil
}

// Pose is where the camera ended up this frame. Aim is a unit vector from
// Position towards the look-at point. TargetPitch is the clamped pitch, in
// degrees, handed to the renderer's follow target.
type Pose struct {
	Position    mgl64.Vec3
	Aim         mgl64.Vec3
	TargetPitch float64
	BlendRatio  float64
}

// Rig blends between a rigid chase position and a free-look orbit around the
// look-at point. It owns its own state and only reads points derived from the
// vehicle.
type Rig struct {
	cfg     Config
	terrain HeightQuery

	rotationAngleX float64
	blendRatio     float64
	aim            mgl64.Vec3
}

func NewRig(cfg Config, terrain HeightQuery) (*Rig, error) {
	if terrain == nil {
		return nil, errors.New("camera: terrain height query is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Rig{
		cfg:     cfg,
		terrain: terrain,
		aim:     mgl64.Vec3{0, 0, 1},
	}, nil
}

func (r *Rig) Config() Config          { return r.cfg }
func (r *Rig) BlendRatio() float64     { return r.blendRatio }
func (r *Rig) RotationAngleX() float64 { return r.rotationAngleX }

// Update runs the late camera phase. root is the rigid follow position and
// lookAt the point the camera aims at, both in world space.
func (r *Rig) Update(lookX, throttleY float64, root, lookAt mgl64.Vec3, dt float64) Pose {
	r.updateBlend(lookX, throttleY, dt)
	orbit := r.orbitPosition(lookX, lookAt, dt)

	position := lerp(root, orbit, r.blendRatio)
	if dir := lookAt.Sub(position); dir.Len() > 1e-9 {
		r.aim = dir.Normalize()
	}

	return Pose{
		Position:    position,
		Aim:         r.aim,
		TargetPitch: ClampAngle(pitchOf(r.aim)+r.cfg.AngleOverride, r.cfg.BottomClamp, r.cfg.TopClamp),
		BlendRatio:  r.blendRatio,
	}
}

func (r *Rig) updateBlend(lookX, throttleY, dt float64) {
	if r.cfg.LockPosition {
		r.blendRatio = 0
		return
	}
	if lookX != 0 {
		r.blendRatio += BlendRate * dt
	} else if throttleY > 0 {
		r.blendRatio -= BlendRate * dt
	}
	r.blendRatio = mgl64.Clamp(r.blendRatio, 0, 1)
}

func (r *Rig) orbitPosition(lookX float64, lookAt mgl64.Vec3, dt float64) mgl64.Vec3 {
	r.rotationAngleX += OrbitAngularRate * lookX * dt
	x := lookAt.X() + r.cfg.Distance*math.Sin(r.rotationAngleX)
	z := lookAt.Z() + r.cfg.Distance*math.Cos(r.rotationAngleX)
	return mgl64.Vec3{x, r.terrain.HeightAt(x, z) + OrbitHeightOffset, z}
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// pitchOf returns degrees below the horizon, positive when looking down.
func pitchOf(dir mgl64.Vec3) float64 {
	horizontal := math.Hypot(dir.X(), dir.Z())
	return mgl64.RadToDeg(math.Atan2(-dir.Y(), horizontal))
}

// ClampAngle wraps one turn off angles beyond ±360 and clamps to [lo, hi].
func ClampAngle(angle, lo, hi float64) float64 {
	if angle < -360 {
		angle += 360
	}
	if angle > 360 {
		angle -= 360
	}
	return mgl64.Clamp(angle, lo, hi)
}
