package metadata

import "github.com/spaghettifunk/meshops/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material assigned to a mesh section. Only identity and the
 * base colour are tracked; shading is up to whoever renders the mesh.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:          name,
		DiffuseColour: math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
	}
}
