package vehicle

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceDrive(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name       string
		speed      float64
		input      Input
		wantSpeed  float64
		wantLights bool
	}{
		{"accelerate", 0, Input{MoveY: 1}, 1, false},
		{"sprint doubles acceleration", 0, Input{MoveY: 1, Sprint: true}, 2, false},
		{"clamp to forward maximum", 49.5, Input{MoveY: 1}, 50, false},
		{"brake decays forward speed", 10, Input{MoveY: -1}, 5, true},
		{"below threshold reverses", 0.005, Input{MoveY: -1}, -0.995, true},
		{"at threshold reverses", 0.01, Input{MoveY: -1}, -0.99, true},
		{"reverse clamps", -19.5, Input{MoveY: -1}, -20, true},
		{"coast decays", 10, Input{}, 9.5, false},
		{"coast decays reverse", -10, Input{}, -9.5, false},
		{"steering alone coasts", 10, Input{MoveX: 1}, 9.5, false},
		{"partial throttle uses full acceleration", 0, Input{MoveY: 0.2}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceDrive(tt.speed, tt.input, tuning)
			assert.InDelta(t, tt.wantSpeed, got.Speed, 1e-9)
			assert.Equal(t, tt.wantLights, got.BrakeLights)
		})
	}
}

func TestAdvanceDriveStaysWithinLimits(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewPCG(1, 2))

	speed := 0.0
	for i := 0; i < 10000; i++ {
		in := Input{
			MoveY:  float64(rng.IntN(3) - 1),
			Sprint: rng.IntN(2) == 0,
		}
		speed = AdvanceDrive(speed, in, tuning).Speed
		if speed < -tuning.MaximumReverseSpeed || speed > tuning.MaximumForwardSpeed {
			t.Fatalf("step %d: speed %.6f outside [-%.1f, %.1f]", i, speed,
				tuning.MaximumReverseSpeed, tuning.MaximumForwardSpeed)
		}
	}
}

func TestAdvanceDriveCoastConvergesWithoutSignChange(t *testing.T) {
	tuning := DefaultTuning()

	for _, start := range []float64{50, -20, 0.3} {
		speed := start
		for i := 0; i < 500; i++ {
			next := AdvanceDrive(speed, Input{}, tuning).Speed
			assert.LessOrEqual(t, math.Abs(next), math.Abs(speed))
			assert.False(t, next*start < 0, "coasting flipped sign at step %d", i)
			speed = next
		}
		assert.InDelta(t, 0, speed, 1e-6)
	}
}
