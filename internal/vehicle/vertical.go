package vehicle

import "math"

// VerticalMotion integrates vertical velocity and the two jump timers.
// Timer values below zero mean "expired" and are otherwise ignored.
type VerticalMotion struct {
	Velocity             float64
	JumpTimeoutRemaining float64
	FallTimeoutRemaining float64
}

func NewVerticalMotion(t Tuning) VerticalMotion {
	return VerticalMotion{
		JumpTimeoutRemaining: t.JumpTimeout,
		FallTimeoutRemaining: t.FallTimeout,
	}
}

// JumpVelocity is the launch speed that reaches height under gravity.
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * -2 * gravity)
}

// Advance runs one frame of jump and gravity handling and returns the jump
// intent that survives the frame. An airborne car always gets false back.
func (m *VerticalMotion) Advance(grounded, jump bool, t Tuning, dt float64) bool {
	if grounded {
		m.FallTimeoutRemaining = t.FallTimeout

		if m.Velocity < 0 {
			m.Velocity = GroundedStickVelocity
		}

		if jump && m.JumpTimeoutRemaining <= 0 {
			m.Velocity = JumpVelocity(t.JumpHeight, t.Gravity)
		}

		if m.JumpTimeoutRemaining >= 0 {
			m.JumpTimeoutRemaining -= dt
		}
	} else {
		m.JumpTimeoutRemaining = t.JumpTimeout

		if m.FallTimeoutRemaining >= 0 {
			m.FallTimeoutRemaining -= dt
		}

		jump = false
	}

	// Gravity is negative, so this only ever accelerates the car downwards.
	if m.Velocity < t.TerminalVelocity {
		m.Velocity += t.Gravity * dt
	}

	return jump
}
