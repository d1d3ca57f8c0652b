package vehicle

import (
	"errors"
	"fmt"
)

// TiltMode selects what the terrain tilt is composed onto each frame.
type TiltMode string

const (
	// TiltCumulative composes the tilt onto the current chassis orientation,
	// so pitch and roll keep integrating across frames.
	TiltCumulative TiltMode = "cumulative"
	// TiltHeading resets the chassis to its yaw-only heading before every
	// move and composes the tilt onto that.
	TiltHeading TiltMode = "heading"
)

// Tuning is the per-session parameter set of the car. It is read-only once a
// Controller has been built from it.
type Tuning struct {
	MaximumForwardSpeed float64 `yaml:"maximum_forward_speed"`
	MaximumReverseSpeed float64 `yaml:"maximum_reverse_speed"`
	SteeringPower       float64 `yaml:"steering_power"`
	Acceleration        float64 `yaml:"acceleration"`
	SlowDownFactor      float64 `yaml:"slow_down_factor"` // lower is faster
	BrakeFactor         float64 `yaml:"brake_factor"`     // lower is faster

	// Walking speeds of the character rig the car replaced. Not used by the
	// drive model, kept so existing tuning files stay loadable.
	MoveSpeed   float64 `yaml:"move_speed"`
	SprintSpeed float64 `yaml:"sprint_speed"`

	JumpHeight       float64 `yaml:"jump_height"`
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	JumpTimeout      float64 `yaml:"jump_timeout"`
	FallTimeout      float64 `yaml:"fall_timeout"`

	GroundedOffset float64 `yaml:"grounded_offset"`
	GroundedRadius float64 `yaml:"grounded_radius"`
	GroundLayers   uint32  `yaml:"ground_layers"`

	TiltMode TiltMode `yaml:"tilt_mode"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MaximumForwardSpeed: DefaultMaximumForwardSpeed,
		MaximumReverseSpeed: DefaultMaximumReverseSpeed,
		SteeringPower:       DefaultSteeringPower,
		Acceleration:        DefaultAcceleration,
		SlowDownFactor:      DefaultSlowDownFactor,
		BrakeFactor:         DefaultBrakeFactor,
		MoveSpeed:           DefaultMoveSpeed,
		SprintSpeed:         DefaultSprintSpeed,
		JumpHeight:          DefaultJumpHeight,
		Gravity:             DefaultGravity,
		TerminalVelocity:    DefaultTerminalVelocity,
		JumpTimeout:         DefaultJumpTimeout,
		FallTimeout:         DefaultFallTimeout,
		GroundedOffset:      DefaultGroundedOffset,
		GroundedRadius:      DefaultGroundedRadius,
		GroundLayers:        DefaultGroundLayers,
		TiltMode:            TiltCumulative,
	}
}

var ErrInvalidTuning = errors.New("invalid vehicle tuning")

// Validate reports configuration defects. They are programmer errors and are
// checked once, before the simulation starts.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.MaximumForwardSpeed > 0, "maximum_forward_speed must be > 0, got %v", t.MaximumForwardSpeed)
	check(t.MaximumReverseSpeed >= 0, "maximum_reverse_speed must be >= 0, got %v", t.MaximumReverseSpeed)
	check(t.Acceleration >= 0, "acceleration must be >= 0, got %v", t.Acceleration)
	check(t.SlowDownFactor >= 0 && t.SlowDownFactor <= 1, "slow_down_factor must be in [0,1], got %v", t.SlowDownFactor)
	check(t.BrakeFactor >= 0 && t.BrakeFactor <= 1, "brake_factor must be in [0,1], got %v", t.BrakeFactor)
	check(t.MoveSpeed >= 0, "move_speed must be >= 0, got %v", t.MoveSpeed)
	check(t.SprintSpeed >= 0, "sprint_speed must be >= 0, got %v", t.SprintSpeed)
	check(t.JumpHeight >= 0, "jump_height must be >= 0, got %v", t.JumpHeight)
	check(t.Gravity < 0, "gravity must be < 0, got %v", t.Gravity)
	check(t.TerminalVelocity > 0, "terminal_velocity must be > 0, got %v", t.TerminalVelocity)
	if t.Gravity < 0 && t.JumpHeight >= 0 {
		launch := JumpVelocity(t.JumpHeight, t.Gravity)
		check(launch <= t.TerminalVelocity,
			"jump_height %v launches at %.4f, above terminal_velocity %v", t.JumpHeight, launch, t.TerminalVelocity)
	}
	check(t.JumpTimeout >= 0, "jump_timeout must be >= 0, got %v", t.JumpTimeout)
	check(t.FallTimeout >= 0, "fall_timeout must be >= 0, got %v", t.FallTimeout)
	check(t.GroundedRadius > 0, "grounded_radius must be > 0, got %v", t.GroundedRadius)
	check(t.TiltMode == TiltCumulative || t.TiltMode == TiltHeading, "unknown tilt_mode %q", t.TiltMode)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTuning, errors.Join(errs...))
}
