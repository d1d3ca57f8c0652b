package vehicle

// Input is one frame of player intent.
//
// MoveX steers (negative left), MoveY is throttle (positive) or brake/reverse
// (negative). LookX drives the free-look camera. Jump is cleared by
// Controller.Update while the car is airborne, so a press does not carry over
// into the next grounded frame.
type Input struct {
	MoveX  float64 `json:"move_x"`
	MoveY  float64 `json:"move_y"`
	Sprint bool    `json:"sprint"`
	Jump   bool    `json:"jump"`
	LookX  float64 `json:"look_x"`
}
