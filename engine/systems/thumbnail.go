package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/poser/engine/assets"
	"github.com/spaghettifunk/poser/engine/catalog"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/resources"
)

type ThumbnailSystemConfig struct {
	/** @brief Thumbnails are scaled down to fit a square of this size. */
	MaxSize int
}

/**
 * @brief Keeps the decoded thumbnails of the assets folder, keyed by pose name.
 */
type ThumbnailSystem struct {
	config       ThumbnailSystemConfig
	assetManager *assets.AssetManager
	jobSystem    *JobSystem

	mutex      sync.RWMutex
	thumbnails map[string]*resources.Resource
	failures   map[string]error
}

func NewThumbnailSystem(config ThumbnailSystemConfig, am *assets.AssetManager, js *JobSystem) (*ThumbnailSystem, error) {
	if am == nil || js == nil {
		return nil, fmt.Errorf("thumbnail system needs an asset manager and a job system")
	}
	return &ThumbnailSystem{
		config:       config,
		assetManager: am,
		jobSystem:    js,
		thumbnails:   make(map[string]*resources.Resource),
		failures:     make(map[string]error),
	}, nil
}

// LoadAll decodes every thumbnail of the assets folder on the job system and
// waits for them. Thumbnails that fail to decode are logged and remembered.
func (ts *ThumbnailSystem) LoadAll() error {
	loaded := make(map[string]*resources.Resource)
	failed := make(map[string]error)
	var mutex sync.Mutex

	params := &resources.ImageResourceParams{MaxWidth: ts.config.MaxSize, MaxHeight: ts.config.MaxSize}
	for _, path := range ts.assetManager.Thumbnails() {
		path := path
		name := catalog.PoseName(path)
		err := ts.jobSystem.Submit(JobTask{
			OnStart: func() (interface{}, error) {
				return ts.assetManager.LoadAsset(path, params)
			},
			OnComplete: func(result interface{}) {
				mutex.Lock()
				loaded[name] = result.(*resources.Resource)
				mutex.Unlock()
			},
			OnFailure: func(err error) {
				mutex.Lock()
				failed[name] = err
				mutex.Unlock()
			},
		})
		if err != nil {
			return err
		}
	}
	ts.jobSystem.Wait()

	ts.mutex.Lock()
	old := ts.thumbnails
	ts.thumbnails = loaded
	ts.failures = failed
	ts.mutex.Unlock()

	for _, res := range old {
		if err := ts.assetManager.UnloadAsset(res); err != nil {
			core.LogWarn("unable to unload thumbnail '%s': %s", res.FullPath, err)
		}
	}

	core.LogDebug("Loaded %d thumbnails (%d failed).", len(loaded), len(failed))
	return nil
}

func (ts *ThumbnailSystem) Get(name string) (*resources.ImageResourceData, bool) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	res, ok := ts.thumbnails[name]
	if !ok {
		return nil, false
	}
	data, ok := res.Data.(*resources.ImageResourceData)
	return data, ok
}

// Failure returns the decode error of a thumbnail, if any.
func (ts *ThumbnailSystem) Failure(name string) error {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return ts.failures[name]
}

func (ts *ThumbnailSystem) Count() int {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return len(ts.thumbnails)
}
