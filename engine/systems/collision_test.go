package systems

import (
	"testing"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *metadata.MeshSection {
	return &metadata.MeshSection{
		Positions: []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Y: 2, Z: 1}, {X: -1, Z: 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestCollisionCookSync(t *testing.T) {
	cs, err := NewCollisionSystem(nil)
	require.NoError(t, err)

	pm := &metadata.ProcMesh{UseAsyncCooking: true}
	pm.CreateSection(0, quad())
	require.NoError(t, cs.Cook(7, pm))

	data, ok := pm.Collision()
	require.True(t, ok, "no job system means inline cooking")
	assert.Equal(t, uint32(2), data.TriangleCount)
	assert.Equal(t, math.Vec3{X: -1, Y: 0, Z: -1}, data.Extents.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 1}, data.Extents.Max)
	assert.Equal(t, math.Vec3{Y: 1}, data.Center)

	assert.ErrorIs(t, cs.Cook(7, nil), core.ErrInvalidArgument)
}

func TestCollisionCookAsync(t *testing.T) {
	sm, err := NewSystemManager(core.DefaultConfig())
	require.NoError(t, err)
	defer sm.Shutdown()

	cooked := make(chan uint32, 1)
	listener := t.Name()
	require.True(t, core.EventRegister(core.EVENT_CODE_COLLISION_COOKED, listener,
		func(code core.SystemEventCode, sender interface{}, l interface{}, data core.EventContext) bool {
			if data.Data.U32[0] == 42 {
				cooked <- data.Data.U32[1]
			}
			return false
		}))
	defer core.EventUnregister(core.EVENT_CODE_COLLISION_COOKED, listener)

	pm := &metadata.ProcMesh{UseAsyncCooking: true}
	pm.CreateSection(0, quad())
	require.NoError(t, sm.CollisionSystem.Cook(42, pm))
	sm.CollisionSystem.Wait()

	data, ok := pm.Collision()
	require.True(t, ok)
	assert.Equal(t, uint32(2), data.TriangleCount)
	assert.Equal(t, uint32(2), <-cooked)
}

func TestCollisionCookStaleResultDiscarded(t *testing.T) {
	cs, _ := NewCollisionSystem(nil)
	pm := &metadata.ProcMesh{}
	pm.CreateSection(0, quad())

	positions, triangles, gen := pm.CookInput()
	stale := cookCollision(&cookParams{mesh: pm, positions: positions, triangles: triangles, generation: gen})
	pm.CreateSection(0, quad())

	cs.publish(&cookParams{mesh: pm, generation: gen}, stale)
	_, ok := pm.Collision()
	assert.False(t, ok)
}
