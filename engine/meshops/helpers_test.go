package meshops

import (
	"fmt"
	"testing"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/spaghettifunk/meshops/engine/scene"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const tol = math.K_TRANSFORM_TOLERANCE

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New(core.SceneConfig{DeferredQueueSize: 8}, nil)
	require.NoError(t, err)
	return s
}

func newRoot(t *testing.T, s *scene.Scene, name string, tr math.Transform) scene.NodeID {
	t.Helper()
	id, err := s.Create(scene.NodeSpec{Name: name, Mobility: scene.MobilityMovable, Transform: tr})
	require.NoError(t, err)
	return id
}

// add attaches a node of kind under parent with a relative transform.
func add(t *testing.T, s *scene.Scene, kind scene.Kind, name string, parent scene.NodeID, tr math.Transform) scene.NodeID {
	t.Helper()
	opts := NewComponentOptions(name, parent)
	opts.RelativeTransform = tr
	var id scene.NodeID
	var err error
	switch kind {
	case scene.KindStaticMesh:
		opts.Mesh = quadMesh(1)
		id, _, err = AddStaticMeshComponent(s, opts)
	case scene.KindProcMesh:
		id, _, err = AddProcMeshComponent(s, opts, false)
	default:
		id, _, err = AddSceneComponent(s, opts)
	}
	require.NoError(t, err)
	return id
}

func quad() *metadata.MeshSection {
	return &metadata.MeshSection{
		Positions: []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1}},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
		Normals:   []math.Vec3{{Y: 1}, {Y: 1}, {Y: 1}, {Y: 1}},
		UV0:       []math.Vec2{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Tangents:  []math.Vec4{{X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: 1}},
		Material:  metadata.NewMaterial("quad"),
	}
}

// quadMesh returns a static mesh with one quad section per LOD.
func quadMesh(lods int) *metadata.StaticMesh {
	out := make([]*metadata.MeshLOD, lods)
	for i := range out {
		out[i] = &metadata.MeshLOD{Sections: []*metadata.MeshSection{quad()}}
	}
	return metadata.NewStaticMesh("quad", out...)
}

func at(x, y, z float32) math.Transform {
	return math.TransformFromPosition(math.Vec3{X: x, Y: y, Z: z})
}

// randomTransform has a uniform scale so that composition stays exact.
func randomTransform(r *rand.Rand) math.Transform {
	axis := math.Vec3{X: r.Float32()*2 - 1, Y: r.Float32()*2 - 1, Z: r.Float32()*2 - 1}.Normalized()
	if axis.Length() == 0 {
		axis = math.NewVec3Up()
	}
	s := 0.8 + r.Float32()*0.4
	return math.TransformFromPositionRotationScale(
		math.Vec3{X: r.Float32()*10 - 5, Y: r.Float32()*10 - 5, Z: r.Float32()*10 - 5},
		math.NewQuatFromAxisAngle(axis, r.Float32()*math.K_PI, true),
		math.Vec3{X: s, Y: s, Z: s})
}

// randomHierarchy builds a tree of n nodes below a new root. Half of the
// nodes are structural.
func randomHierarchy(t *testing.T, s *scene.Scene, r *rand.Rand, n int) (scene.NodeID, []scene.NodeID) {
	t.Helper()
	root := newRoot(t, s, "root", randomTransform(r))
	nodes := []scene.NodeID{root}
	for i := 0; i < n; i++ {
		parent := nodes[r.Intn(len(nodes))]
		kind := scene.KindScene
		switch r.Intn(4) {
		case 0:
			kind = scene.KindStaticMesh
		case 1:
			kind = scene.KindProcMesh
		}
		nodes = append(nodes, add(t, s, kind, fmt.Sprintf("n%d", i), parent, randomTransform(r)))
	}
	return root, nodes
}

func geometryWorlds(s *scene.Scene, root scene.NodeID) map[scene.NodeID]math.Transform {
	out := make(map[scene.NodeID]math.Transform)
	s.Walk(root, func(id scene.NodeID) bool {
		if s.Node(id).HasGeometry() {
			out[id] = s.WorldTransform(id)
		}
		return true
	})
	return out
}
