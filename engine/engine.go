package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/meshops/engine/assets"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/meshops"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/spaghettifunk/meshops/engine/scene"
	"github.com/spaghettifunk/meshops/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything it owns
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	config        *core.Config
	centerPolicy  meshops.CenterPolicy
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	scene         *scene.Scene
	frame         uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game without application config: %w", core.ErrInvalidArgument)
	}
	cfg, err := g.ApplicationConfig.load()
	if err != nil {
		return nil, err
	}
	if err := core.LogConfigure(cfg.Log); err != nil {
		return nil, err
	}
	policy, err := meshops.ParseCenterPolicy(cfg.Scene.CenterPolicy)
	if err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager(cfg.Assets)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(cfg)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	s, err := scene.New(cfg.Scene, sm.CollisionSystem)
	if err != nil {
		sm.Shutdown()
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        cfg,
		centerPolicy:  policy,
		assetManager:  am,
		systemManager: sm,
		scene:         s,
	}, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine initialized twice: %w", core.ErrRejected)
	}
	e.currentStage = EngineStageInitializing

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized, scene %s.", e.name(), e.scene.ID)
	return nil
}

// Run calls the game's update every frame, followed by the deferred scene
// tasks, until the game is done or Stop is called.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine is not initialized: %w", core.ErrRejected)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	for e.isRunning.Load() {
		done := false
		if e.gameInstance.FnUpdate != nil {
			var err error
			done, err = e.gameInstance.FnUpdate(e, e.frame)
			if err != nil {
				core.LogError("Game update failed, shutting down: %v", err)
				e.isRunning.Store(false)
				return err
			}
		}
		e.Update()
		if done {
			e.isRunning.Store(false)
		}
	}
	return nil
}

// Stop ends the run loop after the current frame.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

// Update runs the scene tasks deferred so far and advances the frame
// counter. It returns the number of tasks run.
func (e *Engine) Update() int {
	n := e.scene.Update()
	e.frame++
	return n
}

// WaitForJobs blocks until pending collision cooking is done.
func (e *Engine) WaitForJobs() {
	e.systemManager.CollisionSystem.Wait()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(e); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

func (e *Engine) Scene() *scene.Scene                { return e.scene }
func (e *Engine) Assets() *assets.AssetManager       { return e.assetManager }
func (e *Engine) Systems() *systems.SystemManager    { return e.systemManager }
func (e *Engine) Config() *core.Config               { return e.config }
func (e *Engine) CenterPolicy() meshops.CenterPolicy { return e.centerPolicy }
func (e *Engine) Stage() Stage                       { return e.currentStage }
func (e *Engine) Frame() uint64                      { return e.frame }

// PackageName returns the package safe name of id using the configured
// delimiter.
func (e *Engine) PackageName(id scene.NodeID, readable bool) (string, error) {
	return meshops.ObjectNameForPackage(e.scene, id, readable, e.config.Scene.NameDelimiter)
}

func (e *Engine) name() string {
	if e.gameInstance.ApplicationConfig.Name == "" {
		return "MeshOps"
	}
	return e.gameInstance.ApplicationConfig.Name
}

// ImportModel loads a model through the asset manager and instantiates its
// node tree under a new top-level node named after the model. Nodes with a
// mesh become static mesh components.
func (e *Engine) ImportModel(path string) (scene.NodeID, error) {
	res, err := e.assetManager.LoadAsset(path, nil)
	if err != nil {
		return scene.Nil, err
	}
	model, ok := res.Data.(*metadata.Model)
	if !ok {
		return scene.Nil, fmt.Errorf("'%s' is not a model: %w", path, core.ErrInvalidArgument)
	}

	root, err := e.scene.Create(scene.NodeSpec{
		Name:      res.Name,
		Kind:      scene.KindScene,
		Mobility:  scene.MobilityMovable,
		Transform: math.TransformCreate(),
	})
	if err != nil {
		return scene.Nil, err
	}
	for _, r := range model.Roots {
		if err := e.instantiate(model, r, root); err != nil {
			return scene.Nil, err
		}
	}
	core.LogInfo("Imported '%s': %d nodes.", res.Name, len(model.Nodes))
	return root, nil
}

func (e *Engine) instantiate(model *metadata.Model, index int, parent scene.NodeID) error {
	mn := model.Nodes[index]
	opts := meshops.NewComponentOptions(mn.Name, parent)
	opts.RelativeTransform = mn.Transform

	var id scene.NodeID
	var err error
	if mn.Mesh >= 0 {
		opts.Mesh = model.Meshes[mn.Mesh]
		id, _, err = meshops.AddStaticMeshComponent(e.scene, opts)
	} else {
		id, _, err = meshops.AddSceneComponent(e.scene, opts)
	}
	if err != nil {
		return err
	}
	for _, c := range mn.Children {
		if err := e.instantiate(model, c, id); err != nil {
			return err
		}
	}
	return nil
}
