package pickup

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/coinrun/internal/event"
)

const (
	SpinRate       = 300.0 // degrees per second about the coin's own Z axis
	HoverHeight    = 1.2
	DefaultCount   = 500
	DefaultBounds  = 500.0
	DefaultTrigger = 1.0
	spawnPitch     = 270.0
	spawnRoll      = 90.0
)

type HeightQuery interface {
	HeightAt(x, z float64) float64
}

type Publisher interface {
	Publish(eventName string, evt any)
}

type Config struct {
	Count         int     `yaml:"count"`
	Bounds        float64 `yaml:"bounds"`
	TriggerRadius float64 `yaml:"trigger_radius"`
}

func DefaultConfig() Config {
	return Config{
		Count:         DefaultCount,
		Bounds:        DefaultBounds,
		TriggerRadius: DefaultTrigger,
	}
}

func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("coin count must be >= 0, got %d", c.Count)
	}
	if c.Bounds <= 0 {
		return fmt.Errorf("coin bounds must be > 0, got %v", c.Bounds)
	}
	if c.TriggerRadius <= 0 {
		return fmt.Errorf("coin trigger_radius must be > 0, got %v", c.TriggerRadius)
	}
	return nil
}

type Coin struct {
	ID       int
	Position mgl64.Vec3
	// Spin is the accumulated rotation about the coin's local Z, in degrees.
	Spin float64
}

// Orientation is the coin's world rotation: lying on its edge as spawned, then
// spun about its own Z.
func (c Coin) Orientation() mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(spawnPitch), mgl64.Vec3{1, 0, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(spawnRoll+c.Spin), mgl64.Vec3{0, 0, 1})
	return qx.Mul(qz)
}

// Field holds the live coins.
type Field struct {
	cfg    Config
	bus    Publisher
	coins  map[int]*Coin
	nextID int
}

func NewField(cfg Config, bus Publisher) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Field{
		cfg:   cfg,
		bus:   bus,
		coins: make(map[int]*Coin),
	}, nil
}

// Spawn scatters cfg.Count coins uniformly over the bounds, hovering above the
// terrain.
func (f *Field) Spawn(rng *rand.Rand, terrain HeightQuery) {
	for k := 0; k < f.cfg.Count; k++ {
		x := rng.Float64()*2*f.cfg.Bounds - f.cfg.Bounds
		z := rng.Float64()*2*f.cfg.Bounds - f.cfg.Bounds
		f.Add(mgl64.Vec3{x, terrain.HeightAt(x, z) + HoverHeight, z})
	}
	slog.Info("Coins spawned", "count", f.cfg.Count, "bounds", f.cfg.Bounds)
}

func (f *Field) Add(position mgl64.Vec3) *Coin {
	c := &Coin{ID: f.nextID, Position: position}
	f.coins[c.ID] = c
	f.nextID++
	return c
}

func (f *Field) Len() int {
	return len(f.coins)
}

// Coins returns a copy of the live coins ordered by ID.
func (f *Field) Coins() []Coin {
	out := make([]Coin, 0, len(f.coins))
	for _, c := range f.coins {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Near returns the coins within radius of position, ordered by ID.
func (f *Field) Near(position mgl64.Vec3, radius float64) []Coin {
	var out []Coin
	for _, c := range f.Coins() {
		if c.Position.Sub(position).Len() <= radius {
			out = append(out, c)
		}
	}
	return out
}

func (f *Field) Update(dt float64) {
	for _, c := range f.coins {
		c.Spin += SpinRate * dt
	}
}

// Collect removes every coin whose trigger overlaps a sphere of radius around
// position and reports them in ID order.
func (f *Field) Collect(position mgl64.Vec3, radius float64) []Coin {
	reach := radius + f.cfg.TriggerRadius
	var hits []Coin
	for id, c := range f.coins {
		if c.Position.Sub(position).Len() > reach {
			continue
		}
		hits = append(hits, *c)
		delete(f.coins, id)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })

	for _, c := range hits {
		slog.Debug("Coin collected", "id", c.ID, "remaining", len(f.coins))
		if f.bus != nil {
			f.bus.Publish(event.EventHitEffect, event.HitEffectEvent{Position: c.Position})
			f.bus.Publish(event.EventCoinCollected, event.CoinCollectedEvent{
				CoinID:    c.ID,
				Position:  c.Position,
				Remaining: len(f.coins),
			})
		}
	}
	return hits
}
