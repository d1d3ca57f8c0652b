package car

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/coinrun/internal/event"
	"github.com/Versifine/coinrun/internal/vehicle"
)

const (
	// WheelSpinRate converts speed into wheel rotation, degrees per unit.
	WheelSpinRate        = 100.0
	DefaultRespawnBounds = 500.0
)

type Publisher interface {
	Publish(eventName string, evt any)
}

// Car wraps the locomotion controller with the parts of the vehicle that
// are not simulation: wheel spin, brake lights and the out-of-bounds respawn.
type Car struct {
	ctrl    *vehicle.Controller
	terrain vehicle.HeightQuery
	bus     Publisher
	rng     *rand.Rand
	bounds  float64

	wheelSpin   [4]float64
	brakeLights bool
	respawns    int
}

func New(ctrl *vehicle.Controller, terrain vehicle.HeightQuery, bus Publisher, rng *rand.Rand, bounds float64) (*Car, error) {
	if ctrl == nil {
		return nil, errors.New("car: controller is nil")
	}
	if terrain == nil {
		return nil, errors.New("car: terrain height query is nil")
	}
	if rng == nil {
		return nil, errors.New("car: random source is nil")
	}
	if bounds <= 0 {
		return nil, fmt.Errorf("car: respawn bounds must be > 0, got %v", bounds)
	}
	return &Car{
		ctrl:    ctrl,
		terrain: terrain,
		bus:     bus,
		rng:     rng,
		bounds:  bounds,
	}, nil
}

func (c *Car) Controller() *vehicle.Controller {
	return c.ctrl
}

func (c *Car) WheelSpin() [4]float64 {
	return c.wheelSpin
}

func (c *Car) BrakeLights() bool {
	return c.brakeLights
}

func (c *Car) Respawns() int {
	return c.respawns
}

// FixedUpdate runs the drive model and mirrors its brake output onto the
// brake lights.
func (c *Car) FixedUpdate(in vehicle.Input) {
	result := c.ctrl.FixedUpdate(in)
	if result.BrakeLights != c.brakeLights {
		c.brakeLights = result.BrakeLights
		c.publish(event.EventBrakeLights, event.BrakeLightsEvent{On: c.brakeLights})
	}
}

func (c *Car) Update(in *vehicle.Input, dt float64) error {
	if err := c.ctrl.Update(in, dt); err != nil {
		return err
	}
	c.spinWheels(dt)
	c.respawnIfOutOfBounds()
	return nil
}

func (c *Car) spinWheels(dt float64) {
	step := c.ctrl.Speed() * dt * WheelSpinRate
	for i := range c.wheelSpin {
		c.wheelSpin[i] = math.Mod(c.wheelSpin[i]+step, 360)
	}
}

func (c *Car) outOfBounds(p mgl64.Vec3) bool {
	return p.X() < -c.bounds || p.X() > c.bounds || p.Z() < -c.bounds || p.Z() > c.bounds
}

func (c *Car) respawnIfOutOfBounds() bool {
	from := c.ctrl.Position()
	if !c.outOfBounds(from) {
		return false
	}

	x := c.rng.Float64()*2*c.bounds - c.bounds
	z := c.rng.Float64()*2*c.bounds - c.bounds
	to := c.PlaceAt(x, z)
	c.respawns++

	slog.Info("Car respawned", "from", from, "to", to)
	c.publish(event.EventRespawn, event.RespawnEvent{From: from, To: to})
	return true
}

// PlaceAt teleports the car onto the terrain surface at (x, z).
func (c *Car) PlaceAt(x, z float64) mgl64.Vec3 {
	to := mgl64.Vec3{x, c.terrain.HeightAt(x, z), z}
	c.ctrl.Teleport(to)
	return to
}

func (c *Car) publish(name string, evt any) {
	if c.bus != nil {
		c.bus.Publish(name, evt)
	}
}
