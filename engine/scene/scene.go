// Package scene implements the hierarchy the mesh operations work on: an
// arena of nodes linked by parent and child ids, with attachment,
// destruction, naming and a queue of tasks deferred to the next Update.
package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshops/engine/containers"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

// Cooker builds collision data for procedural meshes. node is only used to
// identify the owner.
type Cooker interface {
	Cook(node uint32, pm *metadata.ProcMesh) error
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	Name     string
	Kind     Kind
	Mobility Mobility
	// Owner is the naming scope of the new node, usually its future parent.
	Owner     NodeID
	Transform math.Transform
	// Protected nodes refuse destruction.
	Protected  bool
	StaticMesh *metadata.StaticMesh
	// AsyncCooking applies to procedural mesh nodes.
	AsyncCooking bool
}

// Scene owns every node. It is not safe for concurrent use.
type Scene struct {
	ID uuid.UUID

	// nodes[0] is never used so that Nil stays invalid.
	nodes    []*Node
	count    int
	deferred *containers.RingQueue[func()]
	cooker   Cooker
}

func New(cfg core.SceneConfig, cooker Cooker) (*Scene, error) {
	if cfg.DeferredQueueSize <= 0 {
		return nil, fmt.Errorf("deferred queue size %d: %w", cfg.DeferredQueueSize, core.ErrInvalidArgument)
	}
	return &Scene{
		ID:       uuid.New(),
		nodes:    make([]*Node, 1, 64),
		deferred: containers.NewRingQueue[func()](cfg.DeferredQueueSize),
		cooker:   cooker,
	}, nil
}

// Valid reports whether id refers to a live node.
func (s *Scene) Valid(id NodeID) bool {
	return id != Nil && int(id) < len(s.nodes) && s.nodes[id] != nil
}

// Node returns the node for id, or nil.
func (s *Scene) Node(id NodeID) *Node {
	if !s.Valid(id) {
		return nil
	}
	return s.nodes[id]
}

func (s *Scene) NodeCount() int {
	return s.count
}

// Roots returns the nodes without a parent, in creation order.
func (s *Scene) Roots() []NodeID {
	var roots []NodeID
	for _, n := range s.nodes {
		if n != nil && n.parent == Nil {
			roots = append(roots, n.id)
		}
	}
	return roots
}

// Create adds a detached node. The name is made unique within the owner's
// scope and the final node can be read back through Node.
func (s *Scene) Create(spec NodeSpec) (NodeID, error) {
	if spec.Name == "" {
		return Nil, fmt.Errorf("empty node name: %w", core.ErrInvalidArgument)
	}
	if !spec.Kind.valid() {
		return Nil, fmt.Errorf("unknown node kind %d: %w", spec.Kind, core.ErrInvalidArgument)
	}
	if !spec.Mobility.valid() {
		return Nil, fmt.Errorf("unknown mobility %d: %w", spec.Mobility, core.ErrRejected)
	}
	if spec.Owner != Nil && !s.Valid(spec.Owner) {
		return Nil, fmt.Errorf("owner %d: %w", spec.Owner, core.ErrInvalidArgument)
	}
	if spec.StaticMesh != nil && spec.Kind != KindStaticMesh {
		return Nil, fmt.Errorf("%s cannot hold a static mesh: %w", spec.Kind, core.ErrRejected)
	}

	n := &Node{
		id:         NodeID(len(s.nodes)),
		guid:       uuid.New(),
		name:       s.UniqueName(spec.Owner, spec.Name),
		kind:       spec.Kind,
		mobility:   spec.Mobility,
		local:      spec.Transform,
		owner:      spec.Owner,
		protected:  spec.Protected,
		StaticMesh: spec.StaticMesh,
	}
	if spec.Kind == KindProcMesh {
		n.ProcMesh = &metadata.ProcMesh{UseAsyncCooking: spec.AsyncCooking}
	}
	s.nodes = append(s.nodes, n)
	s.count++
	core.LogDebug("Created %s '%s' (%d).", n.kind, n.name, n.id)
	return n.id, nil
}

// Attach makes child the last child of parent, deriving its local transform
// from rule. If the child's name is taken under parent it is disambiguated.
func (s *Scene) Attach(child, parent NodeID, rule AttachmentRule) error {
	c, p := s.Node(child), s.Node(parent)
	if c == nil || p == nil {
		return fmt.Errorf("attach %d to %d: %w", child, parent, core.ErrInvalidArgument)
	}
	if !rule.valid() {
		return fmt.Errorf("unknown attachment rule %d: %w", rule, core.ErrInvalidArgument)
	}
	if s.IsAncestor(child, parent) || child == parent {
		return fmt.Errorf("attaching '%s' under '%s' would create a cycle: %w", c.name, p.name, core.ErrRejected)
	}
	if c.mobility < p.mobility {
		return fmt.Errorf("%s '%s' cannot be attached to %s '%s': %w", c.mobility, c.name, p.mobility, p.name, core.ErrRejected)
	}

	world := s.WorldTransform(child)
	s.unlink(c)

	if s.nameTaken(parent, c.name, child) {
		name := s.UniqueName(parent, c.name)
		core.LogWarn("Name '%s' already used under '%s', renamed to '%s'.", c.name, p.name, name)
		c.name = name
	}
	c.parent = parent
	c.owner = parent
	p.children = append(p.children, child)

	switch rule {
	case KeepWorld:
		c.local = world.RelativeTo(s.WorldTransform(parent))
	case SnapToTarget:
		c.local = math.TransformCreate()
	}
	return nil
}

// Detach turns node into a top-level node, keeping its world transform.
func (s *Scene) Detach(id NodeID) error {
	n := s.Node(id)
	if n == nil {
		return fmt.Errorf("detach %d: %w", id, core.ErrInvalidArgument)
	}
	if n.parent == Nil {
		return nil
	}
	world := s.WorldTransform(id)
	s.unlink(n)
	if s.nameTaken(Nil, n.name, id) {
		n.name = s.UniqueName(Nil, n.name)
	}
	n.owner = Nil
	n.local = world
	return nil
}

// Destroy removes a childless node from the scene. Protected nodes and nodes
// that still have children are rejected.
func (s *Scene) Destroy(id NodeID) error {
	n := s.Node(id)
	if n == nil {
		return fmt.Errorf("destroy %d: %w", id, core.ErrInvalidArgument)
	}
	if n.protected {
		return fmt.Errorf("'%s' is protected: %w", n.name, core.ErrRejected)
	}
	if len(n.children) > 0 {
		return fmt.Errorf("'%s' still has %d children: %w", n.name, len(n.children), core.ErrRejected)
	}
	s.unlink(n)
	s.nodes[id] = nil
	s.count--
	core.LogDebug("Destroyed %s '%s' (%d).", n.kind, n.name, id)
	return nil
}

func (s *Scene) unlink(n *Node) {
	if n.parent == Nil {
		return
	}
	p := s.nodes[n.parent]
	for i, c := range p.children {
		if c == n.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = Nil
}

// IsAncestor reports whether ancestor is a strict ancestor of id.
func (s *Scene) IsAncestor(ancestor, id NodeID) bool {
	n := s.Node(id)
	for n != nil && n.parent != Nil {
		if n.parent == ancestor {
			return true
		}
		n = s.nodes[n.parent]
	}
	return false
}

// TopLevel returns the root of the hierarchy id belongs to.
func (s *Scene) TopLevel(id NodeID) NodeID {
	n := s.Node(id)
	if n == nil {
		return Nil
	}
	for n.parent != Nil {
		n = s.nodes[n.parent]
	}
	return n.id
}

// WorldTransform composes the local transforms from the top-level root down
// to id. Invalid ids yield the identity.
func (s *Scene) WorldTransform(id NodeID) math.Transform {
	n := s.Node(id)
	if n == nil {
		return math.TransformCreate()
	}
	world := n.local
	for n.parent != Nil {
		n = s.nodes[n.parent]
		world = world.Compose(n.local)
	}
	return world
}

func (s *Scene) SetLocalTransform(id NodeID, t math.Transform) error {
	n := s.Node(id)
	if n == nil {
		return fmt.Errorf("set transform of %d: %w", id, core.ErrInvalidArgument)
	}
	n.local = t
	return nil
}

// SetWorldTransform sets the local transform of id so that its world
// transform becomes t.
func (s *Scene) SetWorldTransform(id NodeID, t math.Transform) error {
	n := s.Node(id)
	if n == nil {
		return fmt.Errorf("set transform of %d: %w", id, core.ErrInvalidArgument)
	}
	if n.parent == Nil {
		n.local = t
		return nil
	}
	n.local = t.RelativeTo(s.WorldTransform(n.parent))
	return nil
}

// Walk visits the subtree of root depth-first, parents before children and
// children in order. Returning false from fn skips the children of the node.
func (s *Scene) Walk(root NodeID, fn func(id NodeID) bool) {
	n := s.Node(root)
	if n == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range n.Children() {
		s.Walk(c, fn)
	}
}

// Cook hands the procedural mesh of id to the cooker.
func (s *Scene) Cook(id NodeID) error {
	n := s.Node(id)
	if n == nil || n.ProcMesh == nil {
		return fmt.Errorf("cook %d: %w", id, core.ErrInvalidArgument)
	}
	if s.cooker == nil {
		return nil
	}
	return s.cooker.Cook(uint32(id), n.ProcMesh)
}

// Defer queues task for the next Update. It fails with ErrRejected when
// the queue is full.
func (s *Scene) Defer(task func()) error {
	if task == nil {
		return fmt.Errorf("nil task: %w", core.ErrInvalidArgument)
	}
	if err := s.deferred.Enqueue(task); err != nil {
		return fmt.Errorf("defer task: %v: %w", err, core.ErrRejected)
	}
	return nil
}

// Update runs the tasks queued before the call. Tasks queued while it runs
// wait for the next Update. It returns the number of tasks run.
func (s *Scene) Update() int {
	n := s.deferred.Len()
	for i := 0; i < n; i++ {
		task, err := s.deferred.Dequeue()
		if err != nil {
			break
		}
		task()
	}
	return n
}

// Pending returns the number of deferred tasks.
func (s *Scene) Pending() int {
	return s.deferred.Len()
}
