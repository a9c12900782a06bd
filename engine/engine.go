package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spaghettifunk/poser/engine/assets"
	"github.com/spaghettifunk/poser/engine/catalog"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/systems"
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
)

// Editors usually write a file in several steps; changes closer together
// than this trigger a single reload.
const reloadDelay = 150 * time.Millisecond

type Engine struct {
	mutex         sync.RWMutex
	currentStage  Stage
	gameInstance  *Game
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager

	library *poses.Store
	catalog *catalog.Catalog

	quit     chan struct{}
	quitOnce sync.Once
	// Set while this engine owns the global event system.
	ownsEvents bool
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine needs a game with an application config")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(g.ApplicationConfig.Level())

	am := assets.NewAssetManager(g.ApplicationConfig.PoseExt, g.ApplicationConfig.ThumbnailExt)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		HistorySize:   g.ApplicationConfig.HistorySize,
		ThumbnailSize: g.ApplicationConfig.ThumbnailSize,
	}, g.Adapter, am)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		assetManager:  am,
		systemManager: sm,
		quit:          make(chan struct{}),
	}, nil
}

// Initialize starts the event system, indexes the assets folder and loads
// the library. A folder without a pose file is not an error here: the
// engine starts with no library and picks one up on the next reload.
func (e *Engine) Initialize() (err error) {
	if e.Stage() != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.setStage(EngineStageInitializing)

	if !core.EventSystemInitialize() {
		e.setStage(EngineStageUninitialized)
		return fmt.Errorf("failed to initialize the event system")
	}
	e.ownsEvents = true
	defer func() {
		if err != nil {
			_ = core.EventSystemShutdown()
			e.ownsEvents = false
			e.setStage(EngineStageUninitialized)
		}
	}()
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	cfg := e.gameInstance.ApplicationConfig
	if err := e.assetManager.Initialize(cfg.AssetsDir, cfg.Watch); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	if err := e.Reload(); err != nil && !errors.Is(err, core.ErrNoPoseFile) {
		return err
	}

	e.setStage(EngineStageInitialized)
	core.LogInfo("%s initialized with assets from '%s'.", cfg.Name, cfg.AssetsDir)
	return nil
}

/**
 * @brief Loads the pose file of the assets folder into a new library and
 * rebuilds the catalog. The previous library is never modified. When the
 * pose file cannot be parsed the previous library stays active and the
 * error is returned. Returns core.ErrNoPoseFile when the folder has no pose
 * file; the library is then cleared.
 */
func (e *Engine) Reload() error {
	clock := core.NewClock()
	clock.Start()

	if err := e.assetManager.Rescan(); err != nil {
		return err
	}

	var (
		library *poses.Store
		loadErr error
	)
	path, found := e.assetManager.PoseFile()
	if !found {
		core.LogWarn("No pose file found in the assets folder '%s'.", e.assetManager.Directory())
		loadErr = core.ErrNoPoseFile
	} else {
		res, err := e.assetManager.LoadAsset(path, nil)
		if err != nil {
			core.LogError("unable to load pose file: %s", err)
			return err
		}
		library = res.Data.(*poses.Store)
		if library.IsEmpty() {
			core.LogWarn("Pose file '%s' defines no poses.", filepath.Base(path))
		}
	}

	if err := e.systemManager.ThumbnailSystem.LoadAll(); err != nil {
		core.LogError("unable to load thumbnails: %s", err)
	}

	cat := catalog.Build(e.assetManager.Thumbnails(), library, e.gameInstance.ApplicationConfig.Columns)

	e.mutex.Lock()
	e.library = library
	e.catalog = cat
	e.mutex.Unlock()

	clock.Update()
	core.LogInfo("Loaded %d poses and %d thumbnails in %s.", library.Len(), len(cat.Entries()), clock.Elapsed())
	clock.Stop()

	ctx := core.EventContext{}
	ctx.Data.C[0] = path
	ctx.Data.U32[0] = uint32(library.Len())
	core.EventFire(core.EVENT_CODE_LIBRARY_RELOADED, e, ctx)

	if e.gameInstance.FnOnReload != nil {
		if err := e.gameInstance.FnOnReload(library, cat); err != nil {
			return err
		}
	}
	return loadErr
}

// Library returns the current pose library, nil when the assets folder has
// no pose file.
func (e *Engine) Library() *poses.Store {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.library
}

func (e *Engine) Catalog() *catalog.Catalog {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.catalog
}

func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}

// ApplyPose applies the named pose of the current library to the game scene.
func (e *Engine) ApplyPose(name string) (*systems.ApplyReport, error) {
	switch e.Stage() {
	case EngineStageInitialized, EngineStageRunning:
	default:
		return nil, core.ErrNotInitialized
	}

	library := e.Library()
	if library == nil {
		return nil, core.ErrNoPoseFile
	}
	pose, ok := library.Pose(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrPoseNotFound, name)
	}

	report, err := e.systemManager.PoseSystem.Apply(pose)
	if err != nil {
		return nil, err
	}

	ctx := core.EventContext{}
	ctx.Data.C[0] = report.Pose
	ctx.Data.U32[0] = uint32(len(report.Applied))
	ctx.Data.U32[1] = uint32(len(report.Skipped))
	core.EventFire(core.EVENT_CODE_POSE_APPLIED, e, ctx)

	if e.gameInstance.FnOnPoseApply != nil {
		if err := e.gameInstance.FnOnPoseApply(report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Run blocks until the engine is asked to quit, reloading the library when
// the assets folder changes.
func (e *Engine) Run() error {
	if e.Stage() != EngineStageInitialized {
		return core.ErrNotInitialized
	}
	e.setStage(EngineStageRunning)

	events := e.assetManager.Events()
	errs := e.assetManager.Errors()
	var pending <-chan time.Time

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			core.LogDebug("Asset '%s' changed (removed: %t).", ev.Path, ev.Removed)
			ctx := core.EventContext{}
			ctx.Data.C[0] = ev.Path
			core.EventFire(core.EVENT_CODE_ASSET_CHANGED, e, ctx)
			pending = time.After(reloadDelay)

		case <-pending:
			pending = nil
			if err := e.Reload(); err != nil && !errors.Is(err, core.ErrNoPoseFile) {
				core.LogError("reload failed: %s", err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			core.LogError("assets watcher: %s", err)

		case <-e.quit:
			return nil
		}
	}
}

// Quit asks a running engine to stop. Run returns once the quit event is handled.
func (e *Engine) Quit() {
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	if e.currentStage == EngineStageShuttingDown {
		e.mutex.Unlock()
		return core.ErrAlreadyShutdown
	}
	e.currentStage = EngineStageShuttingDown
	e.mutex.Unlock()

	e.quitOnce.Do(func() { close(e.quit) })

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.assetManager.Close())
	errs = append(errs, e.systemManager.Shutdown())

	if e.ownsEvents {
		core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
		errs = append(errs, core.EventSystemShutdown())
		e.ownsEvents = false
	}

	core.LogInfo("%s shut down.", e.gameInstance.ApplicationConfig.Name)
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.currentStage
}

func (e *Engine) setStage(s Stage) {
	e.mutex.Lock()
	e.currentStage = s
	e.mutex.Unlock()
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.quitOnce.Do(func() { close(e.quit) })
		return true
	}
	return false
}
