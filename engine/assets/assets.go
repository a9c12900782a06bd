package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/poser/engine/assets/loaders"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/resources"
)

var (
	ErrClosed          = errors.New("asset manager already closed")
	ErrNotInitialized  = errors.New("asset manager not initialized")
	ErrUnknownAsset    = errors.New("unknown asset type")
	ErrLoaderNotExists = errors.New("no loader registered for asset type")
)

type AssetInfo struct {
	Path     string
	Type     resources.ResourceType
	LastSeen time.Time
}

// AssetEvent is published for every change to a known asset while watching.
type AssetEvent struct {
	Path    string
	Type    resources.ResourceType
	Removed bool
}

type AssetManager struct {
	dir          string
	poseExt      string
	thumbnailExt string

	assets  map[string]AssetInfo
	loaders map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan AssetEvent
	errors   chan error
}

// NewAssetManager creates a manager for pose files and thumbnails with the
// given extensions ("xml", "png"; a leading dot is accepted).
func NewAssetManager(poseExt, thumbnailExt string) *AssetManager {
	am := &AssetManager{
		poseExt:      normalizeExt(poseExt),
		thumbnailExt: normalizeExt(thumbnailExt),
		assets:       make(map[string]AssetInfo),
		loaders:      make(map[resources.ResourceType]Loader),
		events:       make(chan AssetEvent, 64),
		errors:       make(chan error, 8),
		done:         make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(resources.ResourceTypePose, &loaders.PoseLoader{})
	am.registerLoader(resources.ResourceTypeImage, &loaders.ThumbnailLoader{})

	return am
}

// Initialize indexes the assets folder. With watch set, changes are
// published on Events until Close is called.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if am.isClosed {
		return ErrClosed
	}
	info, err := os.Stat(assetsDir)
	if err != nil {
		return fmt.Errorf("assets folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("assets folder %s is not a directory", assetsDir)
	}
	if am.fsnotify != nil && am.dir != assetsDir {
		return fmt.Errorf("asset manager already watching '%s'", am.dir)
	}
	am.dir = assetsDir

	if err := am.Rescan(); err != nil {
		return err
	}

	// A manager watches at most one folder; initializing again keeps the watcher.
	if watch && am.fsnotify == nil {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		if err := fsWatch.Add(assetsDir); err != nil {
			fsWatch.Close()
			return err
		}
		am.fsnotify = fsWatch
		am.wg.Add(1)
		go am.start()
	}

	core.LogDebug("Asset manager indexed %d assets in '%s'.", len(am.assets), assetsDir)
	return nil
}

// Rescan rebuilds the index from the assets folder.
func (am *AssetManager) Rescan() error {
	if am.dir == "" {
		return ErrNotInitialized
	}
	entries, err := os.ReadDir(am.dir)
	if err != nil {
		return err
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.assets = make(map[string]AssetInfo)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(am.dir, e.Name())
		if t := am.determineAssetType(path); t != resources.ResourceTypeNone {
			am.assets[path] = AssetInfo{Path: path, Type: t, LastSeen: time.Now()}
		}
	}
	return nil
}

func (am *AssetManager) Directory() string {
	return am.dir
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType resources.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed paths of the given type, sorted by name.
func (am *AssetManager) Assets(assetType resources.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	paths := []string{}
	for path, info := range am.assets {
		if info.Type == assetType {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// PoseFile returns the first pose file of the folder in name order.
func (am *AssetManager) PoseFile() (string, bool) {
	files := am.Assets(resources.ResourceTypePose)
	if len(files) == 0 {
		return "", false
	}
	if len(files) > 1 {
		core.LogWarn("Found %d pose files, using '%s'.", len(files), filepath.Base(files[0]))
	}
	return files[0], true
}

func (am *AssetManager) Thumbnails() []string {
	return am.Assets(resources.ResourceTypeImage)
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, params interface{}) (*resources.Resource, error) {
	assetType := am.determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, path)
	}

	loader, loaderExists := am.loaders[assetType]
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s", ErrLoaderNotExists, assetType)
	}

	res, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: assetType, LastSeen: time.Now()}
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *resources.Resource) error {
	if asset == nil {
		return nil
	}
	loader, ok := am.loaders[asset.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLoaderNotExists, asset.Type)
	}
	return loader.Unload(asset)
}

func (am *AssetManager) Events() <-chan AssetEvent {
	return am.events
}

func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Close stops watching. It is safe to call more than once.
func (am *AssetManager) Close() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	am.wg.Wait()
	if am.fsnotify == nil {
		close(am.events)
		close(am.errors)
	}
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	defer func() {
		am.fsnotify.Close()
		close(am.events)
		close(am.errors)
	}()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleFileEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)
			select {
			case am.errors <- err:
			default:
			}

		case <-am.done:
			return
		}
	}
}

// Handle the creation, modification or removal of a file
func (am *AssetManager) handleFileEvent(e fsnotify.Event) {
	assetType := am.determineAssetType(e.Name)
	if assetType == resources.ResourceTypeNone {
		return
	}

	ev := AssetEvent{Path: e.Name, Type: assetType}
	switch {
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		am.removeAsset(e.Name)
		ev.Removed = true
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if s, err := os.Stat(e.Name); err != nil || s.IsDir() {
			return
		}
		am.mutex.Lock()
		am.assets[e.Name] = AssetInfo{Path: e.Name, Type: assetType, LastSeen: time.Now()}
		am.mutex.Unlock()
	default:
		return
	}

	select {
	case am.events <- ev:
	default:
		core.LogDebug("asset event queue full, dropping event for '%s'", e.Name)
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func (am *AssetManager) determineAssetType(path string) resources.ResourceType {
	ext := normalizeExt(filepath.Ext(path))
	switch {
	case ext == "":
		return resources.ResourceTypeNone
	case ext == am.poseExt:
		return resources.ResourceTypePose
	case ext == am.thumbnailExt:
		return resources.ResourceTypeImage
	default:
		return resources.ResourceTypeNone
	}
}

// FilesOfType lists the names (not full paths) of the files in searchDir
// with the given extension, sorted.
func FilesOfType(searchDir, ext string) ([]string, error) {
	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, err
	}
	want := normalizeExt(ext)
	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if normalizeExt(filepath.Ext(e.Name())) == want {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
