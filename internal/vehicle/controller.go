package vehicle

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// CharacterMover translates a body with collision response and returns where
// it ended up.
type CharacterMover interface {
	Move(from, displacement mgl64.Vec3) mgl64.Vec3
}

// Collaborators are the engine services the controller depends on.
type Collaborators struct {
	Terrain HeightQuery
	Ground  GroundOverlap
	Mover   CharacterMover
}

type State struct {
	Position             mgl64.Vec3
	Orientation          mgl64.Quat
	Heading              mgl64.Quat
	Speed                float64
	VerticalVelocity     float64
	Grounded             bool
	BrakeLights          bool
	JumpTimeoutRemaining float64
	FallTimeoutRemaining float64
	Contacts             WheelContacts
}

// Controller owns the vehicle state and advances it. It is not safe for
// concurrent use; the game loop is its only caller.
type Controller struct {
	tuning   Tuning
	terrain  HeightQuery
	mover    CharacterMover
	detector GroundedDetector

	position    mgl64.Vec3
	orientation mgl64.Quat
	heading     mgl64.Quat
	speed       float64
	vertical    VerticalMotion
	grounded    bool
	brakeLights bool
	contacts    WheelContacts
}

func NewController(t Tuning, deps Collaborators, spawn mgl64.Vec3) (*Controller, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if deps.Terrain == nil {
		return nil, errors.New("vehicle: terrain height query is nil")
	}
	if deps.Ground == nil {
		return nil, errors.New("vehicle: ground overlap query is nil")
	}
	if deps.Mover == nil {
		return nil, errors.New("vehicle: character mover is nil")
	}

	return &Controller{
		tuning:      t,
		terrain:     deps.Terrain,
		mover:       deps.Mover,
		detector:    NewGroundedDetector(deps.Ground, t),
		position:    spawn,
		orientation: mgl64.QuatIdent(),
		heading:     mgl64.QuatIdent(),
		vertical:    NewVerticalMotion(t),
		grounded:    true,
	}, nil
}

func (c *Controller) Tuning() Tuning {
	return c.tuning
}

func (c *Controller) State() State {
	return State{
		Position:             c.position,
		Orientation:          c.orientation,
		Heading:              c.heading,
		Speed:                c.speed,
		VerticalVelocity:     c.vertical.Velocity,
		Grounded:             c.grounded,
		BrakeLights:          c.brakeLights,
		JumpTimeoutRemaining: c.vertical.JumpTimeoutRemaining,
		FallTimeoutRemaining: c.vertical.FallTimeoutRemaining,
		Contacts:             c.contacts,
	}
}

func (c *Controller) Position() mgl64.Vec3 {
	return c.position
}

func (c *Controller) Speed() float64 {
	return c.speed
}

// Teleport moves the chassis without touching speed or orientation.
func (c *Controller) Teleport(position mgl64.Vec3) {
	c.position = position
}

// LocalToWorld maps a point in chassis space to world space.
func (c *Controller) LocalToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return LocalToWorld(c.position, c.orientation, local)
}

// FixedUpdate advances the speed model by one fixed physics step.
func (c *Controller) FixedUpdate(in Input) DriveResult {
	result := AdvanceDrive(c.speed, in, c.tuning)
	c.speed = result.Speed
	c.brakeLights = result.BrakeLights
	return result
}

// Update runs one frame: jump and gravity, grounded check, steer and
// translate, then terrain alignment. in.Jump is cleared when the car is
// airborne.
func (c *Controller) Update(in *Input, dt float64) error {
	if in == nil {
		return fmt.Errorf("vehicle: nil input")
	}
	c.jumpAndGravity(in, dt)
	c.groundedCheck()
	c.move(in, dt)
	return nil
}

func (c *Controller) jumpAndGravity(in *Input, dt float64) {
	in.Jump = c.vertical.Advance(c.grounded, in.Jump, c.tuning, dt)
}

func (c *Controller) groundedCheck() {
	c.grounded = c.detector.IsGrounded(c.position)
}

func (c *Controller) move(in *Input, dt float64) {
	if c.tuning.TiltMode == TiltHeading {
		c.orientation = c.heading
	}
	c.orientation = Steer(c.orientation, in.MoveX, c.speed, c.tuning, dt)
	c.heading = c.orientation

	displacement := ForwardAxis(c.orientation).Mul(c.speed * dt).
		Add(mgl64.Vec3{0, c.vertical.Velocity, 0}.Mul(dt))
	c.position = c.mover.Move(c.position, displacement)

	c.rotateWithTerrain()
}

func (c *Controller) rotateWithTerrain() {
	c.contacts = SampleWheelContacts(c.terrain, c.position, c.orientation)
	c.orientation = AlignToTerrain(c.orientation, c.contacts)
}
