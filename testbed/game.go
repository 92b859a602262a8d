package testbed

import (
	"fmt"
	"io"
	"strings"

	"github.com/spaghettifunk/meshops/engine"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/meshops"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// Options selects what the cleanup pass does to the imported model.
type Options struct {
	// Model is loaded through the asset manager.
	Model string
	// Height lifts the model root above the ground after centering.
	Height float32
	// Convert replaces every static mesh with a procedural copy.
	Convert bool
	// LODs copied per converted mesh.
	LODs int
	// Material, when set, overrides the material of converted sections.
	Material string
	// Readable strips numeric suffixes from printed package names.
	Readable bool
}

type TestGame struct {
	*engine.Game
}

type gameState struct {
	opts Options
	out  io.Writer

	root     scene.NodeID
	material *metadata.Material
	record   meshops.TransformRecord

	pruneQueued bool
	pruneDone   bool
	pruneOK     bool
	removed     uint32
}

func NewTestGame(app *engine.ApplicationConfig, opts Options, out io.Writer) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State: &gameState{
				opts: opts,
				out:  out,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	if state.opts.Model == "" {
		return fmt.Errorf("no model to clean up: %w", core.ErrInvalidArgument)
	}

	root, err := e.ImportModel(state.opts.Model)
	if err != nil {
		return err
	}
	state.root = root

	if state.opts.Material != "" {
		m, err := e.Assets().LoadMaterial(state.opts.Material)
		if err != nil {
			return err
		}
		state.material = m
	}

	record, err := meshops.RecordTransforms(e.Scene(), root)
	if err != nil {
		return err
	}
	state.record = record

	core.EventRegister(core.EVENT_CODE_HIERARCHY_PRUNED, g, g.onHierarchyPruned)
	return nil
}

// Update runs the cleanup over two frames. The first one removes empty roots
// and queues the parent collapse, which runs at the end of that frame. The
// second one normalizes placement and reports.
func (g *TestGame) Update(e *engine.Engine, frame uint64) (bool, error) {
	state := g.State.(*gameState)
	s := e.Scene()

	if !state.pruneQueued {
		if err := meshops.DeleteEmptyRoots(s, state.root); err != nil {
			return false, err
		}
		err := meshops.DeleteEmptyParents(s, state.root, func(ok bool) {
			state.pruneDone = true
			state.pruneOK = ok
		})
		if err != nil {
			return false, err
		}
		state.pruneQueued = true
		return false, nil
	}
	if !state.pruneDone {
		return false, nil
	}
	if !state.pruneOK {
		core.LogWarn("Some empty parents of '%s' could not be removed.", s.Node(state.root).Name())
	}

	if err := meshops.OptimizeCenter(s, state.root, e.CenterPolicy()); err != nil {
		return false, err
	}
	if state.opts.Height != 0 {
		if err := meshops.OptimizeHeight(s, state.root, state.opts.Height); err != nil {
			return false, err
		}
	}
	if state.opts.Convert {
		if err := g.convertMeshes(s, state); err != nil {
			return false, err
		}
		e.WaitForJobs()
	}

	if err := g.report(e, state); err != nil {
		return false, err
	}
	core.LogInfo("Cleanup of '%s' done at frame %d.", s.Node(state.root).Name(), frame)
	return true, nil
}

func (g *TestGame) Shutdown(e *engine.Engine) error {
	core.EventUnregister(core.EVENT_CODE_HIERARCHY_PRUNED, g)
	return nil
}

func (g *TestGame) onHierarchyPruned(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	state := g.State.(*gameState)
	if scene.NodeID(data.Data.U32[0]) != state.root {
		return false
	}
	state.removed = data.Data.U32[1]
	core.LogDebug("Pruned %d empty parents, %d skipped, %d renamed.", data.Data.U32[1], data.Data.U32[2], data.Data.U32[3])
	return false
}

// convertMeshes puts a procedural copy next to every static mesh, takes over
// its name and keeps the original under a "_static" suffix.
func (g *TestGame) convertMeshes(s *scene.Scene, state *gameState) error {
	var statics []scene.NodeID
	s.Walk(state.root, func(id scene.NodeID) bool {
		if s.Node(id).Kind() == scene.KindStaticMesh {
			statics = append(statics, id)
		}
		return true
	})

	for _, src := range statics {
		n := s.Node(src)
		name := n.Name()
		opts := meshops.NewComponentOptions(name+"_proc", n.Parent())
		opts.RelativeTransform = n.Local()
		opts.Mobility = n.Mobility()
		dst, _, err := meshops.AddProcMeshComponent(s, opts, true)
		if err != nil {
			return err
		}
		lods := state.opts.LODs
		if lods <= 0 {
			lods = n.StaticMesh.LODCount()
		}
		count, err := meshops.ConvertStaticToProc(s, src, dst, state.material, lods)
		if err != nil {
			return err
		}
		if err := meshops.RenameComponent(s, src, n.Parent(), name+"_static"); err != nil {
			return err
		}
		if err := meshops.RenameComponent(s, dst, n.Parent(), name); err != nil {
			return err
		}
		core.LogDebug("Converted '%s' (%d LODs).", name, count)
	}
	return nil
}

func (g *TestGame) report(e *engine.Engine, state *gameState) error {
	s := e.Scene()
	fmt.Fprintf(state.out, "%s: %d nodes, %d empty parents removed, %d moved\n",
		s.Node(state.root).Name(), s.NodeCount(), state.removed, g.moved(s, state))

	var err error
	depth := map[scene.NodeID]int{state.root: 0}
	s.Walk(state.root, func(id scene.NodeID) bool {
		n := s.Node(id)
		if p := n.Parent(); p != scene.Nil && id != state.root {
			depth[id] = depth[p] + 1
		}
		var pkg string
		pkg, err = e.PackageName(id, state.opts.Readable)
		if err != nil {
			return false
		}
		pos := s.WorldTransform(id).Position
		fmt.Fprintf(state.out, "%s%s [%s] (%.3f, %.3f, %.3f) %s%s\n",
			strings.Repeat("  ", depth[id]), n.Name(), meshops.ClassName(s, id),
			pos.X, pos.Y, pos.Z, pkg, meshSummary(n))
		return true
	})
	return err
}

// moved counts the recorded nodes whose world position changed.
func (g *TestGame) moved(s *scene.Scene, state *gameState) int {
	count := 0
	for id, w := range state.record.World {
		if !s.Valid(id) || id == state.root {
			continue
		}
		if !s.WorldTransform(id).Position.Compare(w.Position, 1e-4) {
			count++
		}
	}
	return count
}

func meshSummary(n *scene.Node) string {
	switch {
	case n.ProcMesh != nil:
		summary := fmt.Sprintf(" sections=%d", n.ProcMesh.SectionCount())
		if c, ok := n.ProcMesh.Collision(); ok {
			summary += fmt.Sprintf(" collision=%d", c.TriangleCount)
		}
		return summary
	case n.StaticMesh != nil:
		return fmt.Sprintf(" lods=%d", n.StaticMesh.LODCount())
	}
	return ""
}
