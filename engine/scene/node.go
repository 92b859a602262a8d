package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

// NodeID identifies a node in a Scene.
type NodeID uint32

// Nil represents an invalid NodeID.
const Nil NodeID = 0

// Kind is the class of a node. Static and procedural mesh nodes bear geometry.
type Kind int

const (
	KindScene Kind = iota
	KindStaticMesh
	KindProcMesh
)

func (k Kind) String() string {
	switch k {
	case KindScene:
		return "SceneComponent"
	case KindStaticMesh:
		return "StaticMeshComponent"
	case KindProcMesh:
		return "ProceduralMeshComponent"
	}
	return "None"
}

func (k Kind) valid() bool {
	return k >= KindScene && k <= KindProcMesh
}

// Mobility orders how freely a node may move at runtime. A node may not
// be attached under a parent that is more mobile than itself.
type Mobility int

const (
	MobilityStatic Mobility = iota
	MobilityStationary
	MobilityMovable
)

func (m Mobility) String() string {
	switch m {
	case MobilityStatic:
		return "Static"
	case MobilityStationary:
		return "Stationary"
	case MobilityMovable:
		return "Movable"
	}
	return "Invalid"
}

func (m Mobility) valid() bool {
	return m >= MobilityStatic && m <= MobilityMovable
}

// AttachmentRule decides how the local transform of a node is derived when
// it is attached.
type AttachmentRule int

const (
	// KeepRelative keeps the local transform as is.
	KeepRelative AttachmentRule = iota
	// KeepWorld keeps the world transform, recomputing the local one.
	KeepWorld
	// SnapToTarget resets the local transform to identity.
	SnapToTarget
)

func (r AttachmentRule) valid() bool {
	return r >= KeepRelative && r <= SnapToTarget
}

// Node is a positioned entity of a Scene. Structure is only changed
// through the Scene.
type Node struct {
	id       NodeID
	guid     uuid.UUID
	name     string
	kind     Kind
	mobility Mobility
	local    math.Transform

	// owner is the naming scope. It equals parent while attached; a node
	// waiting for manual attachment keeps the owner it was created for.
	owner    NodeID
	parent   NodeID
	children []NodeID

	protected bool

	StaticMesh *metadata.StaticMesh
	ProcMesh   *metadata.ProcMesh
}

func (n *Node) ID() NodeID            { return n.id }
func (n *Node) GUID() uuid.UUID       { return n.guid }
func (n *Node) Name() string          { return n.name }
func (n *Node) Kind() Kind            { return n.kind }
func (n *Node) Mobility() Mobility    { return n.mobility }
func (n *Node) Local() math.Transform { return n.local }
func (n *Node) Parent() NodeID        { return n.parent }
func (n *Node) Owner() NodeID         { return n.owner }
func (n *Node) Protected() bool       { return n.protected }
func (n *Node) ChildCount() int       { return len(n.children) }
func (n *Node) Children() []NodeID    { return append([]NodeID(nil), n.children...) }
func (n *Node) ClassName() string     { return n.kind.String() }
func (n *Node) IsAttached() bool      { return n.parent != Nil }

// HasGeometry reports whether the node is a geometry component. The check
// is on the class, not on whether a mesh is currently assigned.
func (n *Node) HasGeometry() bool {
	return n.kind == KindStaticMesh || n.kind == KindProcMesh
}
