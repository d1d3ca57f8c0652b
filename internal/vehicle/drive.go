package vehicle

type DriveResult struct {
	Speed       float64
	BrakeLights bool
}

// AdvanceDrive runs one fixed physics step of the speed model. The step length
// is implicit: every rate here is "per fixed step".
//
// The coast decay is checked separately from the accelerate/brake decision and
// must stay that way.
func AdvanceDrive(speed float64, in Input, t Tuning) DriveResult {
	accelerationFactor := 1.0
	if in.Sprint {
		accelerationFactor = SprintAccelerationFactor
	}

	if in.MoveY > 0 {
		speed += t.Acceleration * accelerationFactor
		if speed > t.MaximumForwardSpeed {
			speed = t.MaximumForwardSpeed
		}
	}

	brakeLights := false
	if in.MoveY < 0 {
		brakeLights = true
		if speed > BrakeSpeedThreshold {
			speed *= t.BrakeFactor
		} else {
			speed -= t.Acceleration
			if speed < -t.MaximumReverseSpeed {
				speed = -t.MaximumReverseSpeed
			}
		}
	}

	if in.MoveY == 0 {
		speed *= t.SlowDownFactor
	}

	return DriveResult{Speed: speed, BrakeLights: brakeLights}
}
