package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

// CollisionSystem cooks collision data for procedural meshes, either inline
// or on the job system when the mesh asks for async cooking.
type CollisionSystem struct {
	jobSystem *JobSystem
	pending   sync.WaitGroup
}

type cookParams struct {
	node       uint32
	mesh       *metadata.ProcMesh
	positions  []math.Vec3
	triangles  uint32
	generation uint32
}

func NewCollisionSystem(js *JobSystem) (*CollisionSystem, error) {
	return &CollisionSystem{
		jobSystem: js,
	}, nil
}

// Cook builds collision data for the current sections of pm. node only
// identifies the owner in logs and events.
func (cs *CollisionSystem) Cook(node uint32, pm *metadata.ProcMesh) error {
	if pm == nil {
		return fmt.Errorf("cook without a mesh: %w", core.ErrInvalidArgument)
	}
	positions, triangles, gen := pm.CookInput()
	params := &cookParams{
		node:       node,
		mesh:       pm,
		positions:  positions,
		triangles:  triangles,
		generation: gen,
	}

	if !pm.UseAsyncCooking || cs.jobSystem == nil {
		cs.publish(params, cookCollision(params))
		return nil
	}

	cs.pending.Add(1)
	err := cs.jobSystem.Submit(metadata.JobTask{
		JobType:     metadata.JOB_TYPE_COLLISION_COOK,
		InputParams: params,
		OnStart:     cs.cookJobStart,
		OnComplete: func(results <-chan interface{}) {
			cs.publish(params, (<-results).(*metadata.CollisionData))
		},
		OnFailure: func(results <-chan interface{}) {
			core.LogError("Failed to cook collision for node %d.", node)
		},
		OnCompletionCallback: cs.pending.Done,
	})
	if err != nil {
		cs.pending.Done()
		return err
	}
	return nil
}

// Wait blocks until every submitted cook job has finished.
func (cs *CollisionSystem) Wait() {
	cs.pending.Wait()
}

func (cs *CollisionSystem) Shutdown() error {
	cs.Wait()
	return nil
}

func (cs *CollisionSystem) cookJobStart(params interface{}, results chan<- interface{}) error {
	p, ok := params.(*cookParams)
	if !ok {
		return fmt.Errorf("failed to cast params to `*cookParams`")
	}
	results <- cookCollision(p)
	return nil
}

func (cs *CollisionSystem) publish(p *cookParams, data *metadata.CollisionData) {
	if !p.mesh.PublishCollision(data) {
		core.LogDebug("Discarded stale collision for node %d (generation %d).", p.node, p.generation)
		return
	}
	core.LogDebug("Cooked collision for node %d: %d triangles.", p.node, data.TriangleCount)

	var ctx core.EventContext
	ctx.Data.U32[0] = p.node
	ctx.Data.U32[1] = data.TriangleCount
	core.EventFire(core.EVENT_CODE_COLLISION_COOKED, cs, ctx)
}

func cookCollision(p *cookParams) *metadata.CollisionData {
	ext, center := math.ExtentsFromPositions(p.positions)
	return &metadata.CollisionData{
		Extents:       ext,
		Center:        center,
		TriangleCount: p.triangles,
		Generation:    p.generation,
	}
}
