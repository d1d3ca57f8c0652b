package vehicle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planeTerrain struct {
	base   float64
	slopeZ float64
}

func (p planeTerrain) HeightAt(_, z float64) float64 {
	return p.base + p.slopeZ*z
}

type terrainGround struct {
	terrain HeightQuery
}

func (g terrainGround) OverlapSphere(center mgl64.Vec3, radius float64, layers uint32) bool {
	if layers == 0 {
		return false
	}
	return center.Y()-radius <= g.terrain.HeightAt(center.X(), center.Z())
}

type terrainMover struct {
	terrain HeightQuery
	moves   []mgl64.Vec3
}

func (m *terrainMover) Move(from, displacement mgl64.Vec3) mgl64.Vec3 {
	m.moves = append(m.moves, displacement)
	to := from.Add(displacement)
	if h := m.terrain.HeightAt(to.X(), to.Z()); to.Y() < h {
		to[1] = h
	}
	return to
}

func newTestController(t *testing.T, tuning Tuning, terrain HeightQuery, spawn mgl64.Vec3) (*Controller, *terrainMover) {
	t.Helper()
	mover := &terrainMover{terrain: terrain}
	c, err := NewController(tuning, Collaborators{
		Terrain: terrain,
		Ground:  terrainGround{terrain: terrain},
		Mover:   mover,
	}, spawn)
	require.NoError(t, err)
	return c, mover
}

func TestNewControllerRejectsMissingCollaborators(t *testing.T) {
	terrain := planeTerrain{}
	_, err := NewController(DefaultTuning(), Collaborators{Terrain: terrain, Ground: terrainGround{terrain}}, mgl64.Vec3{})
	assert.Error(t, err)

	bad := DefaultTuning()
	bad.GroundedRadius = -1
	_, err = NewController(bad, Collaborators{Terrain: terrain, Ground: terrainGround{terrain}, Mover: &terrainMover{terrain: terrain}}, mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidTuning)
}

func TestControllerDrivesForwardOnFlatGround(t *testing.T) {
	c, mover := newTestController(t, DefaultTuning(), planeTerrain{}, mgl64.Vec3{})

	for i := 0; i < 3; i++ {
		c.FixedUpdate(Input{MoveY: 1})
	}
	require.InDelta(t, 3.0, c.Speed(), 1e-9)

	in := Input{MoveY: 1}
	require.NoError(t, c.Update(&in, 0.1))

	require.Len(t, mover.moves, 1)
	assertVecInDelta(t, mgl64.Vec3{0, -0.15, 0.3}, mover.moves[0], 1e-9)

	state := c.State()
	assertVecInDelta(t, mgl64.Vec3{0, 0, 0.3}, state.Position, 1e-9)
	assert.True(t, state.Grounded)
	assert.True(t, mgl64.QuatIdent().ApproxEqualThreshold(state.Orientation, 1e-9))
}

func TestControllerSteersWhileMoving(t *testing.T) {
	c, _ := newTestController(t, DefaultTuning(), planeTerrain{}, mgl64.Vec3{})
	for i := 0; i < 10; i++ {
		c.FixedUpdate(Input{MoveY: 1})
	}

	for i := 0; i < 20; i++ {
		in := Input{MoveX: 1}
		require.NoError(t, c.Update(&in, 0.02))
	}

	forward := ForwardAxis(c.State().Orientation)
	assert.Greater(t, forward.X(), 0.0)
	assert.Greater(t, c.Position().X(), 0.0)
}

func TestControllerJumpAndLand(t *testing.T) {
	tuning := DefaultTuning()
	tuning.JumpTimeout = 0
	c, _ := newTestController(t, tuning, planeTerrain{}, mgl64.Vec3{})

	in := Input{Jump: true}
	require.NoError(t, c.Update(&in, 0.02))
	assert.True(t, in.Jump, "grounded frames keep the jump intent")
	assert.InDelta(t, JumpVelocity(1.2, -15)-0.3, c.State().VerticalVelocity, 1e-9)
	assert.Greater(t, c.Position().Y(), 0.0)

	var airborne bool
	for i := 0; i < 200; i++ {
		in := Input{}
		require.NoError(t, c.Update(&in, 0.02))
		if !c.State().Grounded {
			airborne = true
		}
	}
	assert.True(t, airborne)
	assert.True(t, c.State().Grounded)
	assert.InDelta(t, 0, c.Position().Y(), 1e-9)
}

func TestControllerClearsJumpWhileAirborne(t *testing.T) {
	c, _ := newTestController(t, DefaultTuning(), planeTerrain{}, mgl64.Vec3{0, 10, 0})

	first := Input{}
	require.NoError(t, c.Update(&first, 0.02))
	require.False(t, c.State().Grounded)

	in := Input{Jump: true}
	before := c.State().VerticalVelocity
	require.NoError(t, c.Update(&in, 0.02))

	assert.False(t, in.Jump)
	assert.InDelta(t, before-15*0.02, c.State().VerticalVelocity, 1e-9)
	assert.Equal(t, DefaultJumpTimeout, c.State().JumpTimeoutRemaining)
}

func TestControllerTiltModes(t *testing.T) {
	slope := planeTerrain{slopeZ: 0.5}

	cumulativeTuning := DefaultTuning()
	headingTuning := DefaultTuning()
	headingTuning.TiltMode = TiltHeading

	cumulative, _ := newTestController(t, cumulativeTuning, slope, mgl64.Vec3{})
	heading, _ := newTestController(t, headingTuning, slope, mgl64.Vec3{})

	step := func(c *Controller) {
		in := Input{}
		require.NoError(t, c.Update(&in, 0.02))
	}

	step(cumulative)
	step(heading)
	assert.True(t, cumulative.State().Orientation.ApproxEqualThreshold(heading.State().Orientation, 1e-9))
	firstNoseUp := ForwardAxis(heading.State().Orientation).Y()
	assert.Greater(t, firstNoseUp, 0.0)

	step(cumulative)
	step(heading)
	assert.InDelta(t, firstNoseUp, ForwardAxis(heading.State().Orientation).Y(), 1e-9)
	assert.Greater(t, ForwardAxis(cumulative.State().Orientation).Y(), firstNoseUp)
	assert.True(t, heading.State().Heading.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-9))
}

func TestControllerLocalToWorld(t *testing.T) {
	c, _ := newTestController(t, DefaultTuning(), planeTerrain{}, mgl64.Vec3{5, 0, 5})
	assertVecInDelta(t, mgl64.Vec3{5, 2, 1}, c.LocalToWorld(mgl64.Vec3{0, 2, -4}), 1e-9)

	c.Teleport(mgl64.Vec3{-3, 1, 2})
	assertVecInDelta(t, mgl64.Vec3{-3, 1, 2}, c.Position(), 1e-9)
}
