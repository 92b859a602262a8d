package systems

import (
	"github.com/spaghettifunk/meshops/engine/core"
)

type SystemManager struct {
	JobSystem       *JobSystem
	CollisionSystem *CollisionSystem
}

func NewSystemManager(cfg *core.Config) (*SystemManager, error) {
	js, err := NewJobSystem(cfg.Jobs.Workers, cfg.Jobs.QueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCollisionSystem(js)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		JobSystem:       js,
		CollisionSystem: cs,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.CollisionSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
