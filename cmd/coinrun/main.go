package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/Versifine/coinrun/internal/camera"
	"github.com/Versifine/coinrun/internal/car"
	"github.com/Versifine/coinrun/internal/config"
	"github.com/Versifine/coinrun/internal/debug"
	"github.com/Versifine/coinrun/internal/event"
	"github.com/Versifine/coinrun/internal/game"
	"github.com/Versifine/coinrun/internal/logger"
	"github.com/Versifine/coinrun/internal/pickup"
	"github.com/Versifine/coinrun/internal/telemetry"
	"github.com/Versifine/coinrun/internal/terrain"
	"github.com/Versifine/coinrun/internal/vehicle"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		slog.Error("Failed to init logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	_ = logger.Close()
	if err != nil {
		slog.Error("Game exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	field, err := terrain.Generate(cfg.Terrain)
	if err != nil {
		return fmt.Errorf("generate terrain: %w", err)
	}
	if cfg.Vehicle.GroundLayers&field.Layer() == 0 {
		slog.Warn("Vehicle ground layers exclude the terrain layer, the car will never be grounded",
			"ground_layers", cfg.Vehicle.GroundLayers, "terrain_layer", field.Layer())
	}

	rng := rand.New(rand.NewPCG(cfg.Sim.Seed, cfg.Sim.Seed^0x9e3779b97f4a7c15))
	bus := event.NewBus()

	spawnX, spawnZ := cfg.Sim.Spawn[0], cfg.Sim.Spawn[1]
	ctrl, err := vehicle.NewController(cfg.Vehicle, vehicle.Collaborators{
		Terrain: field,
		Ground:  field,
		Mover:   field,
	}, mgl64.Vec3{spawnX, field.HeightAt(spawnX, spawnZ), spawnZ})
	if err != nil {
		return fmt.Errorf("build vehicle: %w", err)
	}

	vehicleCar, err := car.New(ctrl, field, bus, rng, cfg.Sim.RespawnBounds)
	if err != nil {
		return fmt.Errorf("build car: %w", err)
	}

	coins, err := pickup.NewField(cfg.Coins, bus)
	if err != nil {
		return fmt.Errorf("build coins: %w", err)
	}
	coins.Spawn(rng, field)

	rig, err := camera.NewRig(cfg.Camera, field)
	if err != nil {
		return fmt.Errorf("build camera: %w", err)
	}

	var sinks []game.SnapshotSink
	var hub *telemetry.Hub
	if cfg.Telemetry.Enabled {
		hub = telemetry.NewHub(cfg.Telemetry.Listen, cfg.Telemetry.Interval)
		sinks = append(sinks, hub)
	}

	g, err := game.New(game.Config{
		FixedStep:        cfg.Sim.FixedStep,
		FrameRate:        cfg.Sim.FrameRate,
		MaxFrameTime:     cfg.Sim.MaxFrameTime,
		PickupRadius:     game.DefaultPickupRadius,
		NearbyCoinRadius: game.DefaultNearbyCoinRadius,
	}, vehicleCar, coins, rig, bus, sinks...)
	if err != nil {
		return fmt.Errorf("build game: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	if hub != nil {
		group.Go(func() error { return hub.Start(ctx) })
	}

	src, console := chooseInput(cfg.Console.Enabled, debug.StdinIsTerminal(), g)
	if console != nil {
		group.Go(func() error { return console.Start(ctx) })
	}
	group.Go(func() error { return g.Run(ctx, src) })

	slog.Info("Coinrun started", "coins", coins.Len(), "terrain_size", field.Size(), "console", console != nil, "telemetry", cfg.Telemetry.Enabled)
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, debug.ErrQuit) {
		return err
	}
	return nil
}

// chooseInput returns the keyboard console when it is enabled and stdin is a
// terminal, and a scripted full-throttle input otherwise.
func chooseInput(enabled, interactive bool, sim debug.Simulation) (game.InputSource, *debug.Console) {
	if !enabled {
		return game.NewScriptedInput(vehicle.Input{MoveY: 1}), nil
	}
	if !interactive {
		slog.Warn("Console enabled but stdin is not a terminal, using scripted input")
		return game.NewScriptedInput(vehicle.Input{MoveY: 1}), nil
	}
	console := debug.NewConsole(sim, os.Stdout)
	return console, console
}
