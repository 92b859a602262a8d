package meshops

import (
	"testing"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComponents(t *testing.T) {
	s := newScene(t)
	root := newRoot(t, s, "root", at(0, 10, 0))

	opts := NewComponentOptions("body", root)
	opts.Mesh = quadMesh(2)
	opts.RelativeTransform = at(1, 0, 0)
	mesh, name, err := AddStaticMeshComponent(s, opts)
	require.NoError(t, err)
	assert.Equal(t, "body", name)
	assert.Equal(t, root, s.Node(mesh).Parent())
	assert.Equal(t, "StaticMeshComponent", ClassName(s, mesh))
	assert.True(t, s.WorldTransform(mesh).Position.Compare(math.Vec3{X: 1, Y: 10}, tol))

	// Same name again is disambiguated.
	_, name, err = AddSceneComponent(s, NewComponentOptions("body", root))
	require.NoError(t, err)
	assert.Equal(t, "body_1", name)

	pm, name, err := AddProcMeshComponent(s, NewComponentOptions("  dyn ", root), true)
	require.NoError(t, err)
	assert.Equal(t, "dyn", name)
	assert.True(t, s.Node(pm).ProcMesh.UseAsyncCooking)
	assert.Equal(t, []scene.NodeID{mesh, mesh + 1, pm}, s.Node(root).Children())
}

func TestAddComponentRules(t *testing.T) {
	s := newScene(t)
	root := newRoot(t, s, "root", at(0, 10, 0))

	opts := NewComponentOptions("world", root)
	opts.AttachmentRule = scene.KeepWorld
	opts.RelativeTransform = at(0, 10, 5)
	id, _, err := AddSceneComponent(s, opts)
	require.NoError(t, err)
	assert.True(t, s.Node(id).Local().Position.Compare(math.Vec3{Z: 5}, tol))

	opts = NewComponentOptions("snap", root)
	opts.AttachmentRule = scene.SnapToTarget
	opts.RelativeTransform = at(3, 3, 3)
	id, _, err = AddSceneComponent(s, opts)
	require.NoError(t, err)
	assert.True(t, s.Node(id).Local().Compare(math.TransformCreate(), tol))

	// The zero transform reads as identity.
	id, _, err = AddSceneComponent(s, ComponentOptions{Name: "zero", Parent: root, Mobility: scene.MobilityMovable})
	require.NoError(t, err)
	assert.True(t, s.Node(id).Local().Compare(math.TransformCreate(), tol))
}

func TestAddComponentManualAttachment(t *testing.T) {
	s := newScene(t)
	root := newRoot(t, s, "root", math.TransformCreate())

	opts := NewComponentOptions("later", root)
	opts.ManualAttachment = true
	opts.RelativeTransform = at(0, 0, 2)
	id, name, err := AddSceneComponent(s, opts)
	require.NoError(t, err)
	assert.Equal(t, "later", name)
	assert.False(t, s.Node(id).IsAttached())
	assert.Equal(t, 0, s.Node(root).ChildCount())
	assert.True(t, s.Node(id).Local().Compare(at(0, 0, 2), tol))

	// The pending node still holds its name in the parent's scope.
	_, name, err = AddSceneComponent(s, NewComponentOptions("later", root))
	require.NoError(t, err)
	assert.Equal(t, "later_1", name)

	require.NoError(t, s.Attach(id, root, scene.KeepRelative))
	assert.Equal(t, root, s.Node(id).Parent())
}

func TestAddComponentFailures(t *testing.T) {
	s := newScene(t)
	root := newRoot(t, s, "root", math.TransformCreate())
	count := s.NodeCount()

	_, _, err := AddSceneComponent(s, NewComponentOptions("x", 99))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, _, err = AddSceneComponent(s, NewComponentOptions(" ", root))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	opts := NewComponentOptions("static", root)
	opts.Mobility = scene.MobilityStatic
	_, _, err = AddSceneComponent(s, opts)
	assert.ErrorIs(t, err, core.ErrRejected)

	opts = NewComponentOptions("mesh", root)
	opts.Mesh = quadMesh(1)
	_, _, err = AddProcMeshComponent(s, opts, false)
	assert.ErrorIs(t, err, core.ErrRejected)

	opts = NewComponentOptions("rule", root)
	opts.AttachmentRule = scene.AttachmentRule(9)
	_, _, err = AddSceneComponent(s, opts)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	assert.Equal(t, count, s.NodeCount(), "failed creations leave nothing behind")
}
