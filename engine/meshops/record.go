package meshops

import (
	"fmt"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// TransformRecord is a snapshot of a hierarchy taken before a destructive
// operation.
type TransformRecord struct {
	Root scene.NodeID
	// Transforms holds the local transform of every node.
	Transforms map[scene.NodeID]math.Transform
	World      map[scene.NodeID]math.Transform
	// All lists every node, root first, parents before children.
	All []scene.NodeID
	// Children is All without the root.
	Children []scene.NodeID
}

// RecordTransforms snapshots the subtree of root without changing it.
func RecordTransforms(s *scene.Scene, root scene.NodeID) (TransformRecord, error) {
	if !s.Valid(root) {
		return TransformRecord{}, fmt.Errorf("record root %d: %w", root, core.ErrInvalidArgument)
	}
	rec := TransformRecord{
		Root:       root,
		Transforms: make(map[scene.NodeID]math.Transform),
		World:      make(map[scene.NodeID]math.Transform),
	}
	s.Walk(root, func(id scene.NodeID) bool {
		rec.Transforms[id] = s.Node(id).Local()
		rec.World[id] = s.WorldTransform(id)
		rec.All = append(rec.All, id)
		if id != root {
			rec.Children = append(rec.Children, id)
		}
		return true
	})
	return rec, nil
}

// Restore puts every recorded node that still exists back at its recorded
// world transform, parents first. It returns the number of nodes restored.
func (r TransformRecord) Restore(s *scene.Scene) int {
	restored := 0
	for _, id := range r.All {
		if !s.Valid(id) {
			continue
		}
		if err := s.SetWorldTransform(id, r.World[id]); err != nil {
			core.LogWarn("Failed to restore node %d: %v", id, err)
			continue
		}
		restored++
	}
	return restored
}
