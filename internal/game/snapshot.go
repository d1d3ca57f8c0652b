package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Versifine/coinrun/internal/vehicle"
)

// Snapshot is the immutable end-of-frame view handed to sinks and readers.
// Orientation is stored as (w, x, y, z).
type Snapshot struct {
	Frame            uint64         `json:"frame"`
	Time             float64        `json:"time"`
	Input            vehicle.Input  `json:"input"`
	Position         mgl64.Vec3     `json:"position"`
	Orientation      [4]float64     `json:"orientation"`
	Speed            float64        `json:"speed"`
	VerticalVelocity float64        `json:"vertical_velocity"`
	Grounded         bool           `json:"grounded"`
	BrakeLights      bool           `json:"brake_lights"`
	WheelSpin        [4]float64     `json:"wheel_spin"`
	Camera           CameraSnapshot `json:"camera"`
	Score            int            `json:"score"`
	CoinsLeft        int            `json:"coins_left"`
	Respawns         int            `json:"respawns"`

	// Coins near the car, with their current spin pose.
	Coins []CoinSnapshot `json:"coins,omitempty"`

	// HitEffects are the pickup effects spawned during this frame.
	HitEffects []mgl64.Vec3 `json:"hit_effects,omitempty"`
}

type CoinSnapshot struct {
	ID          int        `json:"id"`
	Position    mgl64.Vec3 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
	Spin        float64    `json:"spin"`
}

type CameraSnapshot struct {
	Position    mgl64.Vec3 `json:"position"`
	Aim         mgl64.Vec3 `json:"aim"`
	TargetPitch float64    `json:"target_pitch"`
	BlendRatio  float64    `json:"blend_ratio"`
}
