package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/coinrun/internal/camera"
	"github.com/Versifine/coinrun/internal/car"
	"github.com/Versifine/coinrun/internal/event"
	"github.com/Versifine/coinrun/internal/pickup"
	"github.com/Versifine/coinrun/internal/vehicle"
)

const (
	DefaultFixedStep    = 0.02
	DefaultFrameRate    = 60.0
	DefaultMaxFrameTime = 1.0 / 3.0
	// DefaultPickupRadius is the car's trigger sphere for coin pickups.
	DefaultPickupRadius = 1.5
	// DefaultNearbyCoinRadius bounds which coins a snapshot carries.
	DefaultNearbyCoinRadius = 50.0

	stepEpsilon = 1e-9
)

// InputSource supplies the input for the next frame.
type InputSource interface {
	Input() vehicle.Input
}

// JumpConsumer is implemented by input sources that hold a jump request
// across frames. ConsumeJump is called when the controller dropped the
// request because the car was airborne.
type JumpConsumer interface {
	ConsumeJump()
}

type SnapshotSink interface {
	Publish(snap Snapshot)
}

type Config struct {
	FixedStep        float64
	FrameRate        float64
	MaxFrameTime     float64
	PickupRadius     float64
	NearbyCoinRadius float64
}

func DefaultConfig() Config {
	return Config{
		FixedStep:        DefaultFixedStep,
		FrameRate:        DefaultFrameRate,
		MaxFrameTime:     DefaultMaxFrameTime,
		PickupRadius:     DefaultPickupRadius,
		NearbyCoinRadius: DefaultNearbyCoinRadius,
	}
}

func (c Config) Validate() error {
	if c.FixedStep <= 0 {
		return fmt.Errorf("fixed step must be > 0, got %v", c.FixedStep)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be > 0, got %v", c.FrameRate)
	}
	if c.MaxFrameTime < c.FixedStep {
		return fmt.Errorf("max frame time %v below fixed step %v", c.MaxFrameTime, c.FixedStep)
	}
	if c.PickupRadius < 0 {
		return fmt.Errorf("pickup radius must be >= 0, got %v", c.PickupRadius)
	}
	if c.NearbyCoinRadius < 0 {
		return fmt.Errorf("nearby coin radius must be >= 0, got %v", c.NearbyCoinRadius)
	}
	return nil
}

// Game runs the frame loop. Step must only be called from one goroutine;
// Snapshot and TeleportTo are safe to call from others.
type Game struct {
	cfg   Config
	car   *car.Car
	coins *pickup.Field
	rig   *camera.Rig
	sinks []SnapshotSink

	accumulator float64
	elapsed     float64
	frame       uint64
	fixedSteps  uint64
	score       int
	hitEffects  []mgl64.Vec3

	mu       sync.RWMutex
	last     Snapshot
	teleport *[2]float64
}

func New(cfg Config, c *car.Car, coins *pickup.Field, rig *camera.Rig, bus *event.Bus, sinks ...SnapshotSink) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil || coins == nil || rig == nil {
		return nil, errors.New("game: car, coins and camera rig are required")
	}
	g := &Game{
		cfg:   cfg,
		car:   c,
		coins: coins,
		rig:   rig,
		sinks: sinks,
	}
	if bus != nil {
		bus.Subscribe(event.EventCoinCollected, g.onCoinCollected)
		bus.Subscribe(event.EventRespawn, g.onRespawn)
		bus.Subscribe(event.EventHitEffect, g.onHitEffect)
	}
	g.last = g.snapshot(vehicle.Input{}, camera.Pose{})
	return g, nil
}

func (g *Game) onCoinCollected(raw any) {
	evt, ok := raw.(event.CoinCollectedEvent)
	if !ok {
		return
	}
	g.score++
	slog.Info("Coin collected", "id", evt.CoinID, "score", g.score, "remaining", evt.Remaining)
}

func (g *Game) onHitEffect(raw any) {
	if evt, ok := raw.(event.HitEffectEvent); ok {
		g.hitEffects = append(g.hitEffects, evt.Position)
	}
}

func (g *Game) onRespawn(raw any) {
	if _, ok := raw.(event.RespawnEvent); ok {
		slog.Debug("Respawn observed", "frame", g.frame)
	}
}

func (g *Game) Score() int {
	return g.score
}

// FixedSteps is the number of drive steps run so far.
func (g *Game) FixedSteps() uint64 {
	return g.fixedSteps
}

// Snapshot returns the state published at the end of the last frame.
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// TeleportTo places the car on the terrain at (x, z) at the start of the next
// frame.
func (g *Game) TeleportTo(x, z float64) {
	g.mu.Lock()
	g.teleport = &[2]float64{x, z}
	g.mu.Unlock()
}

// Step runs one frame: as many fixed drive steps as the accumulated time
// allows, then the update phase, then the camera. in.Jump is cleared when the
// request was dropped.
func (g *Game) Step(in *vehicle.Input, dt float64) (Snapshot, error) {
	if in == nil {
		return Snapshot{}, errors.New("game: nil input")
	}
	dt = min(max(dt, 0), g.cfg.MaxFrameTime)
	g.applyTeleport()

	g.accumulator += dt
	for g.accumulator+stepEpsilon >= g.cfg.FixedStep {
		g.car.FixedUpdate(*in)
		g.accumulator -= g.cfg.FixedStep
		g.fixedSteps++
	}
	g.accumulator = max(g.accumulator, 0)

	if err := g.car.Update(in, dt); err != nil {
		return Snapshot{}, fmt.Errorf("frame %d: %w", g.frame, err)
	}

	g.coins.Update(dt)
	g.coins.Collect(g.car.Controller().Position(), g.cfg.PickupRadius)

	pose := g.updateCamera(*in, dt)

	g.frame++
	g.elapsed += dt
	snap := g.snapshot(*in, pose)
	snap.HitEffects = g.hitEffects
	g.hitEffects = nil

	g.mu.Lock()
	g.last = snap
	g.mu.Unlock()

	for _, sink := range g.sinks {
		sink.Publish(snap)
	}
	return snap, nil
}

func (g *Game) applyTeleport() {
	g.mu.Lock()
	target := g.teleport
	g.teleport = nil
	g.mu.Unlock()
	if target == nil {
		return
	}
	to := g.car.PlaceAt(target[0], target[1])
	slog.Info("Car teleported", "to", to)
}

func (g *Game) updateCamera(in vehicle.Input, dt float64) camera.Pose {
	rootLocal, lookAtLocal := g.rig.Config().Offsets()
	ctrl := g.car.Controller()
	return g.rig.Update(in.LookX, in.MoveY, ctrl.LocalToWorld(rootLocal), ctrl.LocalToWorld(lookAtLocal), dt)
}

// Run ticks Step at the configured frame rate until ctx is cancelled.
func (g *Game) Run(ctx context.Context, src InputSource) error {
	if src == nil {
		return errors.New("game: input source is nil")
	}
	interval := time.Duration(float64(time.Second) / g.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Game loop started", "frame_rate", g.cfg.FrameRate, "fixed_step", g.cfg.FixedStep)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Game loop stopped", "frames", g.frame, "score", g.score, "respawns", g.car.Respawns())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := g.tick(src, dt); err != nil {
				return err
			}
		}
	}
}

func (g *Game) tick(src InputSource, dt float64) error {
	in := src.Input()
	requested := in.Jump
	if _, err := g.Step(&in, dt); err != nil {
		return err
	}
	if requested && !in.Jump {
		if consumer, ok := src.(JumpConsumer); ok {
			consumer.ConsumeJump()
		}
	}
	return nil
}

func (g *Game) snapshot(in vehicle.Input, pose camera.Pose) Snapshot {
	state := g.car.Controller().State()
	return Snapshot{
		Frame:            g.frame,
		Time:             g.elapsed,
		Input:            in,
		Position:         state.Position,
		Orientation:      quatArray(state.Orientation),
		Speed:            state.Speed,
		VerticalVelocity: state.VerticalVelocity,
		Grounded:         state.Grounded,
		BrakeLights:      g.car.BrakeLights(),
		WheelSpin:        g.car.WheelSpin(),
		Camera: CameraSnapshot{
			Position:    pose.Position,
			Aim:         pose.Aim,
			TargetPitch: pose.TargetPitch,
			BlendRatio:  pose.BlendRatio,
		},
		Score:     g.score,
		CoinsLeft: g.coins.Len(),
		Respawns:  g.car.Respawns(),
		Coins:     g.nearbyCoins(state.Position),
	}
}

func (g *Game) nearbyCoins(position mgl64.Vec3) []CoinSnapshot {
	near := g.coins.Near(position, g.cfg.NearbyCoinRadius)
	if len(near) == 0 {
		return nil
	}
	out := make([]CoinSnapshot, len(near))
	for i, c := range near {
		out[i] = CoinSnapshot{
			ID:          c.ID,
			Position:    c.Position,
			Orientation: quatArray(c.Orientation()),
			Spin:        c.Spin,
		}
	}
	return out
}

func quatArray(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}
