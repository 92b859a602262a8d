package meshops

import (
	"fmt"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// RenameComponent renames target within owner. A Nil owner means the
// current owner of target; any other owner must be it.
func RenameComponent(s *scene.Scene, target, owner scene.NodeID, newName string) error {
	t := s.Node(target)
	if t == nil {
		return fmt.Errorf("rename target %d: %w", target, core.ErrInvalidArgument)
	}
	if owner != scene.Nil {
		if !s.Valid(owner) {
			return fmt.Errorf("rename owner %d: %w", owner, core.ErrInvalidArgument)
		}
		if t.Owner() != owner {
			return fmt.Errorf("'%s' is not owned by '%s': %w", t.Name(), s.Node(owner).Name(), core.ErrRejected)
		}
	}
	if err := s.Rename(target, newName); err != nil {
		core.LogWarn("Rename of '%s' rejected: %v", t.Name(), err)
		return err
	}
	return nil
}
