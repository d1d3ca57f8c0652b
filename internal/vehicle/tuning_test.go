package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tuning)
		wantErr string
	}{
		{"defaults", func(*Tuning) {}, ""},
		{"heading tilt", func(tu *Tuning) { tu.TiltMode = TiltHeading }, ""},
		{"positive gravity", func(tu *Tuning) { tu.Gravity = 9.81 }, "gravity"},
		{"negative radius", func(tu *Tuning) { tu.GroundedRadius = -0.28 }, "grounded_radius"},
		{"brake factor above one", func(tu *Tuning) { tu.BrakeFactor = 1.5 }, "brake_factor"},
		{"zero forward speed", func(tu *Tuning) { tu.MaximumForwardSpeed = 0 }, "maximum_forward_speed"},
		{"unknown tilt", func(tu *Tuning) { tu.TiltMode = "absolute" }, "tilt_mode"},
		{"jump launches above terminal velocity", func(tu *Tuning) { tu.JumpHeight = 100 }, "terminal_velocity"},
		{"jump launches just under terminal velocity", func(tu *Tuning) {
			tu.JumpHeight = tu.TerminalVelocity * tu.TerminalVelocity / (-2 * tu.Gravity) * 0.999
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.mutate(&tuning)
			err := tuning.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTuning)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTuningValidateReportsEveryDefect(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Gravity = 1
	tuning.JumpTimeout = -1

	err := tuning.Validate()
	assert.ErrorContains(t, err, "gravity")
	assert.ErrorContains(t, err, "jump_timeout")
}

func TestValidTuningKeepsJumpUnderTerminalVelocity(t *testing.T) {
	tuning := DefaultTuning()
	tuning.JumpTimeout = 0
	tuning.JumpHeight = 90 // 51.96 m/s launch under the default -15 gravity
	assert.NoError(t, tuning.Validate())

	m := NewVerticalMotion(tuning)
	m.Advance(true, true, tuning, 0.02)
	assert.LessOrEqual(t, m.Velocity, tuning.TerminalVelocity)
}
