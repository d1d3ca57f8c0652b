package event

import "github.com/go-gl/mathgl/mgl64"

const (
	EventBrakeLights   = "brake.lights"
	EventRespawn       = "vehicle.respawn"
	EventCoinCollected = "coin.collected"
	EventHitEffect     = "vfx.hit"
)

type BrakeLightsEvent struct {
	On bool
}

type RespawnEvent struct {
	From mgl64.Vec3
	To   mgl64.Vec3
}

type CoinCollectedEvent struct {
	CoinID    int
	Position  mgl64.Vec3
	Remaining int
}

// HitEffectEvent asks the renderer to play the pickup effect once.
type HitEffectEvent struct {
	Position mgl64.Vec3
}
