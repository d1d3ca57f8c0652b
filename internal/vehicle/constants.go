package vehicle

const (
	// Lateral and longitudinal wheel separation of the car model, in metres.
	WheelTrackWidth = 1.2452069
	WheelbaseLength = 2.175764

	BrakeSpeedThreshold      = 0.01
	SprintAccelerationFactor = 2.0
	GroundedStickVelocity    = -2.0

	DefaultMaximumForwardSpeed = 50.0
	DefaultMaximumReverseSpeed = 20.0
	DefaultSteeringPower       = 5.0
	DefaultAcceleration        = 1.0
	DefaultSlowDownFactor      = 0.95
	DefaultBrakeFactor         = 0.5
	DefaultMoveSpeed           = 2.0
	DefaultSprintSpeed         = 5.335
	DefaultJumpHeight          = 1.2
	DefaultGravity             = -15.0
	DefaultTerminalVelocity    = 53.0
	DefaultJumpTimeout         = 0.50
	DefaultFallTimeout         = 0.15
	DefaultGroundedOffset      = -0.14
	DefaultGroundedRadius      = 0.28
	DefaultGroundLayers        = 1
)
