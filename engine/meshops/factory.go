// Package meshops is a stateless library of mesh and hierarchy operations
// over a scene.Scene: component creation, lookup, static to procedural mesh
// conversion, pruning, centering and renaming.
package meshops

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// ComponentOptions describes a component to create under Parent.
type ComponentOptions struct {
	Name   string
	Parent scene.NodeID
	// AttachmentRule decides how RelativeTransform is read: as the local
	// transform (KeepRelative), as the world transform (KeepWorld), or
	// ignored (SnapToTarget).
	AttachmentRule scene.AttachmentRule
	// ManualAttachment leaves the node detached; the caller attaches it
	// with scene.Attach.
	ManualAttachment bool
	// The zero value is read as the identity.
	RelativeTransform math.Transform
	Mobility          scene.Mobility
	// Mesh is only accepted by AddStaticMeshComponent.
	Mesh *metadata.StaticMesh
}

// NewComponentOptions returns options for a movable component attached to
// parent with an identity relative transform.
func NewComponentOptions(name string, parent scene.NodeID) ComponentOptions {
	return ComponentOptions{
		Name:              name,
		Parent:            parent,
		AttachmentRule:    scene.KeepRelative,
		RelativeTransform: math.TransformCreate(),
		Mobility:          scene.MobilityMovable,
	}
}

// AddStaticMeshComponent creates a static mesh node holding opts.Mesh. It
// returns the node and its final name.
func AddStaticMeshComponent(s *scene.Scene, opts ComponentOptions) (scene.NodeID, string, error) {
	return addComponent(s, scene.KindStaticMesh, opts, false)
}

// AddSceneComponent creates a structural node without geometry.
func AddSceneComponent(s *scene.Scene, opts ComponentOptions) (scene.NodeID, string, error) {
	return addComponent(s, scene.KindScene, opts, false)
}

// AddProcMeshComponent creates a procedural mesh node. asyncCooking moves
// collision cooking of its sections to the job system.
func AddProcMeshComponent(s *scene.Scene, opts ComponentOptions, asyncCooking bool) (scene.NodeID, string, error) {
	return addComponent(s, scene.KindProcMesh, opts, asyncCooking)
}

func addComponent(s *scene.Scene, kind scene.Kind, opts ComponentOptions, async bool) (scene.NodeID, string, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return scene.Nil, "", fmt.Errorf("empty component name: %w", core.ErrInvalidArgument)
	}
	parent := s.Node(opts.Parent)
	if parent == nil {
		return scene.Nil, "", fmt.Errorf("parent %d of '%s': %w", opts.Parent, name, core.ErrInvalidArgument)
	}
	if opts.Mobility < parent.Mobility() {
		core.LogWarn("Cannot add %s '%s' under %s parent '%s'.", opts.Mobility, name, parent.Mobility(), parent.Name())
		return scene.Nil, "", fmt.Errorf("%s component under %s parent '%s': %w", opts.Mobility, parent.Mobility(), parent.Name(), core.ErrRejected)
	}

	transform := opts.RelativeTransform
	if transform == (math.Transform{}) {
		transform = math.TransformCreate()
	}

	id, err := s.Create(scene.NodeSpec{
		Name:         name,
		Kind:         kind,
		Mobility:     opts.Mobility,
		Owner:        opts.Parent,
		Transform:    transform,
		StaticMesh:   opts.Mesh,
		AsyncCooking: async,
	})
	if err != nil {
		return scene.Nil, "", err
	}

	if !opts.ManualAttachment {
		if err := s.Attach(id, opts.Parent, opts.AttachmentRule); err != nil {
			if derr := s.Destroy(id); derr != nil {
				core.LogError("Failed to discard '%s' after a rejected attachment: %v", name, derr)
			}
			return scene.Nil, "", err
		}
	}

	final := s.Node(id).Name()
	core.LogDebug("Added %s '%s' under '%s'.", kind, final, parent.Name())
	return id, final, nil
}
