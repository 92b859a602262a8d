package metadata

import "github.com/spaghettifunk/meshops/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the asset manager knows. */
	ResourceTypeNone ResourceType = iota
	/** @brief A model: static meshes plus the node tree using them. */
	ResourceTypeModel
	/** @brief A material definition. */
	ResourceTypeMaterial
)

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the source file in bytes. */
	DataSize uint64
	/** @brief The resource data: *Model or *Material. */
	Data interface{}
}

/**
 * @brief A node of an imported model. Mesh indexes Model.Meshes, or is -1
 * for a structural node.
 */
type ModelNode struct {
	Name      string
	Transform math.Transform
	Mesh      int
	Children  []int
}

/**
 * @brief An imported model: its meshes and the node tree placing them.
 */
type Model struct {
	Meshes []*StaticMesh
	Nodes  []ModelNode
	/** @brief Indices of the top-level nodes. */
	Roots []int
}
