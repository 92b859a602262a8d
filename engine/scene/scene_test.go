package scene

import (
	"testing"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = math.K_TRANSFORM_TOLERANCE

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := New(core.SceneConfig{DeferredQueueSize: 4}, nil)
	require.NoError(t, err)
	return s
}

func mustCreate(t *testing.T, s *Scene, name string, kind Kind, parent NodeID, tr math.Transform) NodeID {
	t.Helper()
	id, err := s.Create(NodeSpec{Name: name, Kind: kind, Mobility: MobilityMovable, Owner: parent, Transform: tr})
	require.NoError(t, err)
	if parent != Nil {
		require.NoError(t, s.Attach(id, parent, KeepRelative))
	}
	return id
}

func TestNewRejectsEmptyQueue(t *testing.T) {
	_, err := New(core.SceneConfig{}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestCreateValidation(t *testing.T) {
	s := newTestScene(t)

	_, err := s.Create(NodeSpec{Kind: KindScene})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = s.Create(NodeSpec{Name: "x", Kind: Kind(9)})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = s.Create(NodeSpec{Name: "x", Mobility: Mobility(9)})
	assert.ErrorIs(t, err, core.ErrRejected)
	_, err = s.Create(NodeSpec{Name: "x", Owner: 42})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = s.Create(NodeSpec{Name: "x", Kind: KindScene, StaticMesh: metadata.NewStaticMesh("m")})
	assert.ErrorIs(t, err, core.ErrRejected)

	id, err := s.Create(NodeSpec{Name: "pm", Kind: KindProcMesh, AsyncCooking: true})
	require.NoError(t, err)
	n := s.Node(id)
	require.NotNil(t, n.ProcMesh)
	assert.True(t, n.ProcMesh.UseAsyncCooking)
	assert.True(t, n.HasGeometry())
	assert.Equal(t, "ProceduralMeshComponent", n.ClassName())
	assert.Equal(t, 1, s.NodeCount())
}

func TestAttachRules(t *testing.T) {
	s := newTestScene(t)
	parentT := math.TransformFromPositionRotationScale(math.Vec3{X: 10}, math.NewQuatFromAxisAngle(math.NewVec3Up(), 1, true), math.Vec3{X: 2, Y: 2, Z: 2})
	root := mustCreate(t, s, "root", KindScene, Nil, parentT)
	given := math.TransformFromPosition(math.Vec3{X: 1, Y: 2, Z: 3})

	rel, _ := s.Create(NodeSpec{Name: "rel", Mobility: MobilityMovable, Owner: root, Transform: given})
	require.NoError(t, s.Attach(rel, root, KeepRelative))
	assert.True(t, s.Node(rel).Local().Compare(given, tol))

	world, _ := s.Create(NodeSpec{Name: "world", Mobility: MobilityMovable, Owner: root, Transform: given})
	require.NoError(t, s.Attach(world, root, KeepWorld))
	assert.True(t, s.WorldTransform(world).Compare(given, tol))

	snap, _ := s.Create(NodeSpec{Name: "snap", Mobility: MobilityMovable, Owner: root, Transform: given})
	require.NoError(t, s.Attach(snap, root, SnapToTarget))
	assert.True(t, s.WorldTransform(snap).Compare(parentT, tol))

	assert.Equal(t, []NodeID{rel, world, snap}, s.Node(root).Children())
	assert.ErrorIs(t, s.Attach(rel, root, AttachmentRule(7)), core.ErrInvalidArgument)
}

func TestAttachRejections(t *testing.T) {
	s := newTestScene(t)
	root := mustCreate(t, s, "root", KindScene, Nil, math.TransformCreate())
	child := mustCreate(t, s, "child", KindScene, root, math.TransformCreate())

	assert.ErrorIs(t, s.Attach(root, child, KeepRelative), core.ErrRejected, "cycle")
	assert.ErrorIs(t, s.Attach(root, root, KeepRelative), core.ErrRejected, "self")
	assert.ErrorIs(t, s.Attach(child, 99, KeepRelative), core.ErrInvalidArgument)

	static, err := s.Create(NodeSpec{Name: "static", Mobility: MobilityStatic, Owner: root})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Attach(static, root, KeepRelative), core.ErrRejected)
	assert.False(t, s.Node(static).IsAttached())

	// A movable child under a static parent is fine.
	require.NoError(t, s.Attach(child, static, KeepWorld))
	assert.Equal(t, static, s.Node(child).Parent())
}

func TestAttachDisambiguatesName(t *testing.T) {
	s := newTestScene(t)
	a := mustCreate(t, s, "a", KindScene, Nil, math.TransformCreate())
	b := mustCreate(t, s, "b", KindScene, Nil, math.TransformCreate())
	x1 := mustCreate(t, s, "x", KindScene, a, math.TransformCreate())
	x2 := mustCreate(t, s, "x", KindScene, b, math.TransformCreate())

	require.NoError(t, s.Attach(x2, a, KeepWorld))
	assert.Equal(t, "x", s.Node(x1).Name())
	assert.Equal(t, "x_1", s.Node(x2).Name())
}

func TestUniqueNameAndRename(t *testing.T) {
	s := newTestScene(t)
	root := mustCreate(t, s, "root", KindScene, Nil, math.TransformCreate())
	a := mustCreate(t, s, "mesh", KindStaticMesh, root, math.TransformCreate())
	b := mustCreate(t, s, "mesh", KindStaticMesh, root, math.TransformCreate())
	c := mustCreate(t, s, "mesh", KindStaticMesh, root, math.TransformCreate())
	assert.Equal(t, "mesh", s.Node(a).Name())
	assert.Equal(t, "mesh_1", s.Node(b).Name())
	assert.Equal(t, "mesh_2", s.Node(c).Name())

	assert.ErrorIs(t, s.Rename(b, "mesh"), core.ErrRejected)
	assert.ErrorIs(t, s.Rename(b, "  "), core.ErrInvalidArgument)
	assert.ErrorIs(t, s.Rename(77, "x"), core.ErrInvalidArgument)
	require.NoError(t, s.Rename(b, "mesh_1"))
	require.NoError(t, s.Rename(b, "wheel"))
	assert.Equal(t, "wheel", s.Node(b).Name())

	// Same name is fine under a different parent.
	other := mustCreate(t, s, "other", KindScene, Nil, math.TransformCreate())
	d := mustCreate(t, s, "wheel", KindScene, other, math.TransformCreate())
	assert.Equal(t, "wheel", s.Node(d).Name())

	// A pending node reserves its name in the owner's scope.
	pending, err := s.Create(NodeSpec{Name: "door", Owner: root, Mobility: MobilityMovable})
	require.NoError(t, err)
	assert.Equal(t, "door_1", s.UniqueName(root, "door"))
	assert.ErrorIs(t, s.Rename(c, "door"), core.ErrRejected)
	assert.False(t, s.Node(pending).IsAttached())
}

func TestDestroy(t *testing.T) {
	s := newTestScene(t)
	root := mustCreate(t, s, "root", KindScene, Nil, math.TransformCreate())
	child := mustCreate(t, s, "child", KindScene, root, math.TransformCreate())
	leaf := mustCreate(t, s, "leaf", KindScene, child, math.TransformCreate())

	assert.ErrorIs(t, s.Destroy(child), core.ErrRejected, "has children")
	require.NoError(t, s.Destroy(leaf))
	assert.False(t, s.Valid(leaf))
	assert.Nil(t, s.Node(leaf))
	assert.Equal(t, 0, s.Node(child).ChildCount())
	assert.ErrorIs(t, s.Destroy(leaf), core.ErrInvalidArgument)

	guard, err := s.Create(NodeSpec{Name: "guard", Owner: root, Protected: true, Mobility: MobilityMovable})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Destroy(guard), core.ErrRejected)
	assert.Equal(t, 3, s.NodeCount())
}

func TestWorldTransforms(t *testing.T) {
	s := newTestScene(t)
	root := mustCreate(t, s, "root", KindScene, Nil, math.TransformFromPosition(math.Vec3{Y: 5}))
	mid := mustCreate(t, s, "mid", KindScene, root, math.TransformFromRotation(math.NewQuatFromAxisAngle(math.NewVec3Up(), math.K_HALF_PI, true)))
	leaf := mustCreate(t, s, "leaf", KindScene, mid, math.TransformFromPosition(math.Vec3{X: 1}))

	w := s.WorldTransform(leaf)
	assert.True(t, w.Position.Compare(math.Vec3{Y: 5, Z: -1}, tol), "have %v", w.Position)

	target := math.TransformFromPosition(math.Vec3{X: 3, Y: 3, Z: 3})
	require.NoError(t, s.SetWorldTransform(leaf, target))
	assert.True(t, s.WorldTransform(leaf).Compare(target, tol))

	require.NoError(t, s.Detach(leaf))
	assert.True(t, s.WorldTransform(leaf).Compare(target, tol))
	assert.Equal(t, Nil, s.Node(leaf).Owner())
	assert.ElementsMatch(t, []NodeID{root, leaf}, s.Roots())
	assert.True(t, s.WorldTransform(99).Compare(math.TransformCreate(), tol))
}

func TestWalkOrderAndPath(t *testing.T) {
	s := newTestScene(t)
	root := mustCreate(t, s, "root", KindScene, Nil, math.TransformCreate())
	a := mustCreate(t, s, "a", KindScene, root, math.TransformCreate())
	a1 := mustCreate(t, s, "a1", KindScene, a, math.TransformCreate())
	b := mustCreate(t, s, "b", KindScene, root, math.TransformCreate())

	var order []NodeID
	s.Walk(root, func(id NodeID) bool {
		order = append(order, id)
		return true
	})
	assert.Equal(t, []NodeID{root, a, a1, b}, order)

	order = nil
	s.Walk(root, func(id NodeID) bool {
		order = append(order, id)
		return id != a
	})
	assert.Equal(t, []NodeID{root, a, b}, order)

	path, err := s.Path(a1)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "a1"}, path)
	assert.Equal(t, root, s.TopLevel(a1))
	assert.True(t, s.IsAncestor(root, a1))
	assert.False(t, s.IsAncestor(b, a1))

	// Pending nodes resolve through their owner; a destroyed owner breaks it.
	pending, _ := s.Create(NodeSpec{Name: "p", Owner: b, Mobility: MobilityMovable})
	path, err = s.Path(pending)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "b", "p"}, path)
	require.NoError(t, s.Destroy(b))
	_, err = s.Path(pending)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestDeferredUpdate(t *testing.T) {
	s := newTestScene(t)
	var ran []int
	for i := 0; i < 4; i++ {
		i := i
		require.NoError(t, s.Defer(func() {
			ran = append(ran, i)
			if i == 0 {
				// Queued during Update: runs on the next one.
				_ = s.Defer(func() { ran = append(ran, 10) })
			}
		}))
	}
	assert.ErrorIs(t, s.Defer(func() {}), core.ErrRejected)
	assert.ErrorIs(t, s.Defer(nil), core.ErrInvalidArgument)

	assert.Equal(t, 4, s.Update())
	assert.Equal(t, []int{0, 1, 2, 3}, ran)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Update())
	assert.Equal(t, []int{0, 1, 2, 3, 10}, ran)
}

type recordingCooker struct {
	nodes []uint32
}

func (c *recordingCooker) Cook(node uint32, pm *metadata.ProcMesh) error {
	c.nodes = append(c.nodes, node)
	return nil
}

func TestCookDelegates(t *testing.T) {
	cooker := &recordingCooker{}
	s, err := New(core.SceneConfig{DeferredQueueSize: 1}, cooker)
	require.NoError(t, err)

	pm, _ := s.Create(NodeSpec{Name: "pm", Kind: KindProcMesh, Mobility: MobilityMovable})
	plain, _ := s.Create(NodeSpec{Name: "plain", Mobility: MobilityMovable})
	require.NoError(t, s.Cook(pm))
	assert.ErrorIs(t, s.Cook(plain), core.ErrInvalidArgument)
	assert.Equal(t, []uint32{uint32(pm)}, cooker.nodes)
}
