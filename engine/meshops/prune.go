package meshops

import (
	"fmt"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// DeleteEmptyRoots collapses the chain of single structural children below
// root: while root has exactly one child and that child bears no geometry,
// the grandchildren move to root keeping their world transforms and the
// child is destroyed. A grandchild whose name is taken at root gets a "_N"
// suffix.
func DeleteEmptyRoots(s *scene.Scene, root scene.NodeID) error {
	r := s.Node(root)
	if r == nil {
		return fmt.Errorf("prune root %d: %w", root, core.ErrInvalidArgument)
	}
	collapsed := 0
	for r.ChildCount() == 1 {
		child := r.Children()[0]
		if s.Node(child).HasGeometry() {
			break
		}
		if _, err := collapse(s, child, root); err != nil {
			core.LogWarn("Stopped collapsing '%s' after %d levels: %v", r.Name(), collapsed, err)
			return err
		}
		collapsed++
	}
	core.LogDebug("Collapsed %d empty levels below '%s'.", collapsed, r.Name())
	return nil
}

// DeleteEmptyParents schedules a pass over the whole subtree of root that
// removes every structural node with exactly one child, moving that child
// to its parent. Nodes with geometry, with no children or with two or more
// are kept. A moved child whose name is taken under its new parent gets a
// "_N" suffix, so it is no longer found under its old name; the number of
// such renames is carried by the EVENT_CODE_HIERARCHY_PRUNED event. The
// pass runs at the next Scene.Update and then calls done, when not nil,
// with false if some node could not be removed or root was gone by then.
func DeleteEmptyParents(s *scene.Scene, root scene.NodeID, done func(ok bool)) error {
	if !s.Valid(root) {
		return fmt.Errorf("prune root %d: %w", root, core.ErrInvalidArgument)
	}
	if done == nil {
		done = func(bool) {}
	}
	return s.Defer(func() {
		if !s.Valid(root) {
			core.LogWarn("Hierarchy root %d was destroyed before pruning.", root)
			done(false)
			return
		}
		removed, skipped, renamed := deleteEmptyParents(s, root)

		var ctx core.EventContext
		ctx.Data.U32[0] = uint32(root)
		ctx.Data.U32[1] = uint32(removed)
		ctx.Data.U32[2] = uint32(skipped)
		ctx.Data.U32[3] = uint32(renamed)
		core.EventFire(core.EVENT_CODE_HIERARCHY_PRUNED, s, ctx)

		done(skipped == 0)
	})
}

func deleteEmptyParents(s *scene.Scene, root scene.NodeID) (removed, skipped, renamed int) {
	for _, id := range postOrder(s, root) {
		if id == root {
			continue
		}
		n := s.Node(id)
		if n == nil || n.HasGeometry() || n.ChildCount() != 1 {
			continue
		}
		r, err := collapse(s, id, n.Parent())
		renamed += r
		if err != nil {
			core.LogWarn("Kept empty parent '%s': %v", n.Name(), err)
			skipped++
			continue
		}
		removed++
	}
	core.LogDebug("Pruned %d empty parents below '%s', %d kept, %d children renamed.", removed, s.Node(root).Name(), skipped, renamed)
	return removed, skipped, renamed
}

// collapse moves the children of id to parent, keeping their world
// transforms, and destroys id. It returns how many children had to take a
// new name under parent.
func collapse(s *scene.Scene, id, parent scene.NodeID) (int, error) {
	n := s.Node(id)
	if n.Protected() {
		return 0, fmt.Errorf("'%s' is protected: %w", n.Name(), core.ErrRejected)
	}
	children := n.Children()
	// Unlink first so the children can take over the name of id.
	if err := s.Detach(id); err != nil {
		return 0, err
	}
	renamed := 0
	for _, c := range children {
		name := s.Node(c).Name()
		if err := s.Attach(c, parent, scene.KeepWorld); err != nil {
			return renamed, err
		}
		if moved := s.Node(c).Name(); moved != name {
			core.LogWarn("'%s' was renamed to '%s' under '%s'.", name, moved, s.Node(parent).Name())
			renamed++
		}
	}
	return renamed, s.Destroy(id)
}

func postOrder(s *scene.Scene, root scene.NodeID) []scene.NodeID {
	var out []scene.NodeID
	var visit func(id scene.NodeID)
	visit = func(id scene.NodeID) {
		for _, c := range s.Node(id).Children() {
			visit(c)
		}
		out = append(out, id)
	}
	visit(root)
	return out
}
