package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

// ModelLoader reads glTF models (.gltf and .glb). Every glTF mesh becomes a
// static mesh with a single LOD, one section per triangle primitive.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to stat model %q", path)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open model %q", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if p, ok := params.(map[string]string); ok && p["name"] != "" {
		name = p["name"]
	}

	model, err := ml.parseDocument(doc, name)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse model %q", path)
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeModel,
		DataSize: uint64(fi.Size()),
		Data:     model,
	}, nil
}

func (ml *ModelLoader) Unload(*metadata.Resource) error {
	return nil
}

func (ml *ModelLoader) parseDocument(doc *gltf.Document, name string) (*metadata.Model, error) {
	materials := make([]*metadata.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mname := m.Name
		if mname == "" {
			mname = fmt.Sprintf("%s_material_%d", name, i)
		}
		materials[i] = metadata.NewMaterial(mname)
	}
	fallback := metadata.NewMaterial(metadata.DefaultMaterialName)

	model := &metadata.Model{}
	for iMesh, mesh := range doc.Meshes {
		mname := mesh.Name
		if mname == "" {
			mname = fmt.Sprintf("%s_mesh_%d", name, iMesh)
		}
		lod := &metadata.MeshLOD{}
		for iPrim, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				core.LogWarn("Skipping primitive %d of mesh '%s': only triangles are supported.", iPrim, mname)
				continue
			}
			section, err := readSection(doc, primitive)
			if err != nil {
				return nil, errors.Wrapf(err, "Failed to read primitive %d of mesh %q", iPrim, mname)
			}
			section.Material = fallback
			if primitive.Material != nil && int(*primitive.Material) < len(materials) {
				section.Material = materials[*primitive.Material]
			}
			lod.Sections = append(lod.Sections, section)
		}
		model.Meshes = append(model.Meshes, metadata.NewStaticMesh(mname, lod))
	}

	referenced := make([]bool, len(doc.Nodes))
	for iNode, node := range doc.Nodes {
		mn := metadata.ModelNode{
			Name:      node.Name,
			Transform: nodeTransform(node),
			Mesh:      -1,
		}
		if mn.Name == "" {
			mn.Name = fmt.Sprintf("node_%d", iNode)
		}
		if node.Mesh != nil {
			if int(*node.Mesh) >= len(model.Meshes) {
				return nil, errors.Errorf("node %q references missing mesh %d", mn.Name, *node.Mesh)
			}
			mn.Mesh = int(*node.Mesh)
		}
		for _, c := range node.Children {
			if int(c) >= len(doc.Nodes) || referenced[c] {
				return nil, errors.Errorf("node %q has invalid child %d", mn.Name, c)
			}
			referenced[c] = true
			mn.Children = append(mn.Children, int(c))
		}
		model.Nodes = append(model.Nodes, mn)
	}

	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		model.Roots = sceneRoots(doc.Scenes[*doc.Scene])
	case len(doc.Scenes) > 0:
		model.Roots = sceneRoots(doc.Scenes[0])
	}
	if len(model.Roots) == 0 {
		for i := range doc.Nodes {
			if !referenced[i] {
				model.Roots = append(model.Roots, i)
			}
		}
	}
	for _, r := range model.Roots {
		if r >= len(model.Nodes) || referenced[r] {
			return nil, errors.Errorf("invalid scene root %d", r)
		}
	}
	return model, nil
}

func sceneRoots(scene *gltf.Scene) []int {
	roots := make([]int, len(scene.Nodes))
	for i, n := range scene.Nodes {
		roots[i] = int(n)
	}
	return roots
}

// accessor returns the accessor at idx, or an error naming what refers to it.
func accessor(doc *gltf.Document, idx uint32, what string) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, errors.Errorf("%s refers to missing accessor %d of %d", what, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func readSection(doc *gltf.Document, primitive *gltf.Primitive) (*metadata.MeshSection, error) {
	posIdx, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no positions")
	}
	acc, err := accessor(doc, posIdx, "POSITION")
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read positions")
	}
	section := &metadata.MeshSection{Positions: make([]math.Vec3, len(positions))}
	for i, p := range positions {
		section.Positions[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	if primitive.Indices != nil {
		acc, err := accessor(doc, *primitive.Indices, "indices")
		if err != nil {
			return nil, err
		}
		section.Indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read indices")
		}
	} else {
		section.Indices = make([]uint32, len(positions))
		for i := range section.Indices {
			section.Indices[i] = uint32(i)
		}
	}

	if idx, ok := primitive.Attributes["NORMAL"]; ok {
		acc, err := accessor(doc, idx, "NORMAL")
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read normals")
		}
		section.Normals = make([]math.Vec3, len(normals))
		for i, n := range normals {
			section.Normals[i] = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
	}
	if idx, ok := primitive.Attributes["TEXCOORD_0"]; ok {
		acc, err := accessor(doc, idx, "TEXCOORD_0")
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read texture coordinates")
		}
		section.UV0 = make([]math.Vec2, len(uvs))
		for i, uv := range uvs {
			section.UV0[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
	}
	if idx, ok := primitive.Attributes["TANGENT"]; ok {
		acc, err := accessor(doc, idx, "TANGENT")
		if err != nil {
			return nil, err
		}
		tangents, err := modeler.ReadTangent(doc, acc, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read tangents")
		}
		section.Tangents = make([]math.Vec4, len(tangents))
		for i, t := range tangents {
			section.Tangents[i] = math.Vec4{X: t[0], Y: t[1], Z: t[2], W: t[3]}
		}
	}

	for _, i := range section.Indices {
		if int(i) >= len(section.Positions) {
			return nil, errors.Errorf("index %d out of %d vertices", i, len(section.Positions))
		}
	}
	return section, nil
}

// nodeTransform reads the local transform of a glTF node. A column major
// glTF matrix has the same layout as math.Mat4. Zero rotation or scale
// stand for the glTF defaults.
func nodeTransform(node *gltf.Node) math.Transform {
	m := math.Mat4{Data: node.Matrix}
	if m != (math.Mat4{}) && m != math.NewMat4Identity() {
		return math.TransformFromMat4(m)
	}

	t := math.TransformCreate()
	t.Position = math.Vec3{X: node.Translation[0], Y: node.Translation[1], Z: node.Translation[2]}
	if node.Rotation != [4]float32{} {
		t.Rotation = math.Quaternion{X: node.Rotation[0], Y: node.Rotation[1], Z: node.Rotation[2], W: node.Rotation[3]}.Normalize()
	}
	if node.Scale != [3]float32{} {
		t.Scale = math.Vec3{X: node.Scale[0], Y: node.Scale[1], Z: node.Scale[2]}
	}
	return t
}
