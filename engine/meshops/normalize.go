package meshops

import (
	"fmt"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// CenterPolicy selects the nodes whose centroid OptimizeCenter moves the
// root to.
type CenterPolicy int

const (
	// CenterAllGeometry averages every geometry descendant of the root.
	CenterAllGeometry CenterPolicy = iota
	// CenterDirectChildren averages the direct children bearing geometry.
	CenterDirectChildren
)

func (p CenterPolicy) String() string {
	switch p {
	case CenterAllGeometry:
		return core.CenterPolicyAllGeometry
	case CenterDirectChildren:
		return core.CenterPolicyDirectChildren
	}
	return "unknown"
}

// ParseCenterPolicy maps the scene.center_policy setting to a CenterPolicy.
func ParseCenterPolicy(name string) (CenterPolicy, error) {
	switch name {
	case "", core.CenterPolicyAllGeometry:
		return CenterAllGeometry, nil
	case core.CenterPolicyDirectChildren:
		return CenterDirectChildren, nil
	}
	return CenterAllGeometry, fmt.Errorf("center policy '%s': %w", name, core.ErrInvalidArgument)
}

// OptimizeCenter moves the origin of root to the centroid of the world
// positions selected by policy, keeping every descendant where it is in
// world space. Without geometry it does nothing.
func OptimizeCenter(s *scene.Scene, root scene.NodeID, policy CenterPolicy) error {
	r := s.Node(root)
	if r == nil {
		return fmt.Errorf("center root %d: %w", root, core.ErrInvalidArgument)
	}

	var points []math.Vec3
	switch policy {
	case CenterDirectChildren:
		for _, c := range r.Children() {
			if s.Node(c).HasGeometry() {
				points = append(points, s.WorldTransform(c).Position)
			}
		}
	case CenterAllGeometry:
		s.Walk(root, func(id scene.NodeID) bool {
			if id != root && s.Node(id).HasGeometry() {
				points = append(points, s.WorldTransform(id).Position)
			}
			return true
		})
	default:
		return fmt.Errorf("center policy %d: %w", policy, core.ErrInvalidArgument)
	}

	center, ok := math.Centroid(points)
	if !ok {
		core.LogDebug("No geometry below '%s', nothing to center.", r.Name())
		return nil
	}

	world := s.WorldTransform(root)
	world.Position = center
	return moveRoot(s, root, world)
}

// OptimizeHeight raises root by offset along the world up axis. Descendants
// follow it.
func OptimizeHeight(s *scene.Scene, root scene.NodeID, offset float32) error {
	if !s.Valid(root) {
		return fmt.Errorf("height root %d: %w", root, core.ErrInvalidArgument)
	}
	world := s.WorldTransform(root)
	world.Position = world.Position.Add(math.NewVec3Up().MulScalar(offset))
	return s.SetWorldTransform(root, world)
}

// moveRoot gives root the world transform to and rewrites its children so
// their world transforms stay the same.
func moveRoot(s *scene.Scene, root scene.NodeID, to math.Transform) error {
	children := s.Node(root).Children()
	worlds := make([]math.Transform, len(children))
	for i, c := range children {
		worlds[i] = s.WorldTransform(c)
	}
	if err := s.SetWorldTransform(root, to); err != nil {
		return err
	}
	for i, c := range children {
		if err := s.SetWorldTransform(c, worlds[i]); err != nil {
			return err
		}
	}
	return nil
}
