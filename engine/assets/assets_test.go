package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTriangle saves a one triangle model at path, writing it elsewhere
// first so watchers never see a partial file.
func writeTriangle(t *testing.T, path string, meshName string) {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       meshName,
		Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{"POSITION": positions}}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "tri", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = []uint32{0}

	tmp := filepath.Join(t.TempDir(), filepath.Base(path))
	require.NoError(t, gltf.SaveBinary(doc, tmp))
	require.NoError(t, os.Rename(tmp, path))
}

func newManager(t *testing.T, dir string, watch bool) *AssetManager {
	t.Helper()
	am, err := NewAssetManager(core.AssetsConfig{BasePath: dir, Watch: watch})
	require.NoError(t, err)
	require.NoError(t, am.Initialize())
	t.Cleanup(func() { am.Shutdown() })
	return am
}

func TestAssetManagerLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "props"), 0o755))
	writeTriangle(t, filepath.Join(dir, "props", "tri.glb"), "tri")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "red.amt"), []byte("name = red\ndiffuse_colour = 1 0 0 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	am := newManager(t, dir, false)

	models := am.Assets(metadata.ResourceTypeModel)
	require.Len(t, models, 1)
	assert.Equal(t, filepath.Join(dir, "props", "tri.glb"), models[0].Path)
	assert.Len(t, am.Assets(metadata.ResourceTypeMaterial), 1)

	m1, err := am.LoadModel("props/tri.glb")
	require.NoError(t, err)
	m2, err := am.LoadModel(filepath.Join(dir, "props", "tri.glb"))
	require.NoError(t, err)
	assert.Same(t, m1, m2)
	require.Len(t, m1.Meshes, 1)
	assert.Equal(t, []uint32{0, 1, 2}, m1.Meshes[0].LODs[0].Sections[0].Indices, "indices generated")

	red, err := am.LoadMaterial("red.amt")
	require.NoError(t, err)
	assert.Equal(t, "red", red.Name)

	_, err = am.LoadModel("red.amt")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = am.LoadAsset("notes.txt", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = am.LoadModel("missing.glb")
	assert.Error(t, err)

	res, err := am.LoadAsset("props/tri.glb", nil)
	require.NoError(t, err)
	require.NoError(t, am.UnloadAsset(res))
	m3, err := am.LoadModel("props/tri.glb")
	require.NoError(t, err)
	assert.NotSame(t, m1, m3)
}

func TestAssetManagerMissingBasePath(t *testing.T) {
	am := newManager(t, filepath.Join(t.TempDir(), "nope"), true)
	assert.Empty(t, am.Assets(metadata.ResourceTypeModel))
}

func TestAssetManagerEvictsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.glb")
	writeTriangle(t, path, "first")

	changed := make(chan string, 16)
	listener := t.Name()
	require.True(t, core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, listener,
		func(code core.SystemEventCode, sender interface{}, l interface{}, data core.EventContext) bool {
			select {
			case changed <- data.Data.C[0]:
			default:
			}
			return false
		}))
	defer core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, listener)

	am := newManager(t, dir, true)
	first, err := am.LoadModel("tri.glb")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Meshes[0].Name)

	writeTriangle(t, path, "second")
	select {
	case p := <-changed:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}

	second, err := am.LoadModel("tri.glb")
	require.NoError(t, err)
	assert.Equal(t, "second", second.Meshes[0].Name)
}
