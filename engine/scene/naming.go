package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/meshops/engine/core"
)

// nameTaken reports whether a node other than except uses name in scope.
func (s *Scene) nameTaken(scope NodeID, name string, except NodeID) bool {
	if scope != Nil {
		p := s.Node(scope)
		if p == nil {
			return false
		}
		for _, c := range p.children {
			if c != except && s.nodes[c].name == name {
				return true
			}
		}
	}
	// Detached nodes still waiting for their owner, or top-level roots.
	for _, n := range s.nodes {
		if n != nil && n.id != except && n.parent == Nil && n.owner == scope && n.name == name {
			return true
		}
	}
	return false
}

// UniqueName returns base if it is free in scope, otherwise base_N with the
// smallest free N starting at 1.
func (s *Scene) UniqueName(scope NodeID, base string) string {
	if !s.nameTaken(scope, base, Nil) {
		return base
	}
	for i := 1; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if !s.nameTaken(scope, name, Nil) {
			return name
		}
	}
}

// Rename gives id a new name within its owner's scope. A name used by a
// sibling is rejected.
func (s *Scene) Rename(id NodeID, name string) error {
	n := s.Node(id)
	if n == nil {
		return fmt.Errorf("rename %d: %w", id, core.ErrInvalidArgument)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename '%s' to an empty name: %w", n.name, core.ErrInvalidArgument)
	}
	if name == n.name {
		return nil
	}
	if s.nameTaken(n.owner, name, id) {
		return fmt.Errorf("name '%s' already in use: %w", name, core.ErrRejected)
	}
	core.LogDebug("Renamed '%s' to '%s'.", n.name, name)
	n.name = name
	return nil
}

// Path returns the names from the top-level root down to id. A node waiting
// for manual attachment is placed under its owner.
func (s *Scene) Path(id NodeID) ([]string, error) {
	n := s.Node(id)
	if n == nil {
		return nil, fmt.Errorf("path of %d: %w", id, core.ErrInvalidArgument)
	}
	var path []string
	for {
		if len(path) > s.count {
			return nil, fmt.Errorf("owner chain of %d loops: %w", id, core.ErrInvalidArgument)
		}
		path = append(path, n.name)
		next := n.parent
		if next == Nil {
			next = n.owner
		}
		if next == Nil {
			break
		}
		if !s.Valid(next) {
			return nil, fmt.Errorf("owner of '%s' no longer exists: %w", n.name, core.ErrInvalidArgument)
		}
		n = s.nodes[next]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
