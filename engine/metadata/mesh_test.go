package metadata

import (
	"testing"

	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(offset float32) *MeshSection {
	return &MeshSection{
		Positions: []math.Vec3{{X: offset}, {X: offset + 1}, {X: offset, Y: 1}},
		Indices:   []uint32{0, 1, 2},
		Normals:   []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		UV0:       []math.Vec2{{}, {X: 1}, {Y: 1}},
		Material:  NewMaterial("m"),
	}
}

func TestMeshSectionIsEmpty(t *testing.T) {
	var nilSection *MeshSection
	assert.True(t, nilSection.IsEmpty())
	assert.True(t, (&MeshSection{Positions: []math.Vec3{{}}}).IsEmpty())
	assert.False(t, triangle(0).IsEmpty())
}

func TestProcMeshSectionsAreCopies(t *testing.T) {
	pm := &ProcMesh{}
	src := triangle(0)
	idx := pm.CreateSection(1, src)
	assert.Equal(t, 0, idx)

	src.Positions[0] = math.Vec3{X: 99}
	assert.Equal(t, math.Vec3{}, pm.Sections()[0].Positions[0])
	assert.Same(t, src.Material, pm.Sections()[0].Material)

	pm.CreateSection(1, triangle(2))
	pm.CreateSection(0, triangle(4))
	assert.Equal(t, 3, pm.SectionCount())
	assert.Equal(t, 2, pm.LODCount())
	assert.Len(t, pm.SectionsForLOD(1), 2)

	pm.ClearAllSections()
	assert.Equal(t, 0, pm.SectionCount())
	assert.Equal(t, 0, pm.LODCount())
}

func TestProcMeshCollisionGeneration(t *testing.T) {
	pm := &ProcMesh{}
	pm.CreateSection(0, triangle(0))

	positions, triangles, gen := pm.CookInput()
	assert.Len(t, positions, 3)
	assert.Equal(t, uint32(1), triangles)

	_, ok := pm.Collision()
	assert.False(t, ok)

	require.True(t, pm.PublishCollision(&CollisionData{TriangleCount: triangles, Generation: gen}))
	data, ok := pm.Collision()
	require.True(t, ok)
	assert.Equal(t, uint32(1), data.TriangleCount)

	// A newer section makes the old data stale.
	pm.CreateSection(0, triangle(1))
	_, ok = pm.Collision()
	assert.False(t, ok)
	assert.False(t, pm.PublishCollision(&CollisionData{Generation: gen}))
}

func TestStaticMeshLODCount(t *testing.T) {
	var sm *StaticMesh
	assert.Equal(t, 0, sm.LODCount())
	sm = NewStaticMesh("rock", &MeshLOD{Sections: []*MeshSection{triangle(0)}}, &MeshLOD{})
	assert.Equal(t, 2, sm.LODCount())
	assert.NotEqual(t, sm.ID, NewStaticMesh("rock").ID)
}
