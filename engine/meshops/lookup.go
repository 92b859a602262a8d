package meshops

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// DefaultNameDelimiter joins the segments of a readable package name.
const DefaultNameDelimiter = "_"

// FindComponentByName returns the first node named name in the subtree of
// owner, owner included, visiting parents before children and children in
// order.
func FindComponentByName(s *scene.Scene, owner scene.NodeID, name string) (scene.NodeID, error) {
	if !s.Valid(owner) {
		return scene.Nil, fmt.Errorf("lookup owner %d: %w", owner, core.ErrInvalidArgument)
	}
	found := scene.Nil
	s.Walk(owner, func(id scene.NodeID) bool {
		if found != scene.Nil {
			return false
		}
		if s.Node(id).Name() == name {
			found = id
			return false
		}
		return true
	})
	if found == scene.Nil {
		return scene.Nil, fmt.Errorf("component '%s': %w", name, core.ErrNotFound)
	}
	return found, nil
}

// ObjectNameForPackage derives a package safe name for id. The raw form is
// the node name. The readable form joins the names from the top-level root
// down to id with delimiter, after stripping numeric disambiguation suffixes
// and replacing path separators.
func ObjectNameForPackage(s *scene.Scene, id scene.NodeID, readable bool, delimiter string) (string, error) {
	path, err := s.Path(id)
	if err != nil {
		return "", err
	}
	if !readable {
		return path[len(path)-1], nil
	}
	if delimiter == "" {
		delimiter = DefaultNameDelimiter
	}
	separators := strings.NewReplacer("/", delimiter, "\\", delimiter, ".", delimiter, ":", delimiter)
	for i, segment := range path {
		path[i] = separators.Replace(stripNumberSuffix(segment))
	}
	return strings.Join(path, delimiter), nil
}

// stripNumberSuffix removes a trailing "_<digits>". A name that is nothing
// but the suffix is kept.
func stripNumberSuffix(name string) string {
	i := strings.LastIndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return name
	}
	for _, r := range name[i+1:] {
		if !unicode.IsDigit(r) {
			return name
		}
	}
	return name[:i]
}

// ClassName returns the class of id, or "None" when id is not a node.
func ClassName(s *scene.Scene, id scene.NodeID) string {
	n := s.Node(id)
	if n == nil {
		return "None"
	}
	return n.ClassName()
}
