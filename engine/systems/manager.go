package systems

import (
	"runtime"

	"github.com/spaghettifunk/poser/engine/assets"
	"github.com/spaghettifunk/poser/engine/scene"
)

type SystemManagerConfig struct {
	HistorySize   int
	ThumbnailSize int
}

type SystemManager struct {
	JobSystem       *JobSystem
	PoseSystem      *PoseSystem
	ThumbnailSystem *ThumbnailSystem
}

func NewSystemManager(config SystemManagerConfig, adapter scene.Adapter, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(runtime.NumCPU(), 16)
	if err != nil {
		return nil, err
	}

	ps, err := NewPoseSystem(adapter, config.HistorySize)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}

	ts, err := NewThumbnailSystem(ThumbnailSystemConfig{
		MaxSize: config.ThumbnailSize,
	}, am, js)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}

	return &SystemManager{
		JobSystem:       js,
		PoseSystem:      ps,
		ThumbnailSystem: ts,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	return sm.JobSystem.Shutdown()
}
