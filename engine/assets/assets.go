package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshops/engine/assets/loaders"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager loads models and materials through registered loaders and
// caches them. With watching enabled, cached assets are evicted when their
// file changes on disk.
type AssetManager struct {
	basePath string
	watch    bool

	assets  map[string]AssetInfo
	cache   map[string]*metadata.Resource
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager(cfg core.AssetsConfig) (*AssetManager, error) {
	base, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return &AssetManager{
		basePath: base,
		watch:    cfg.Watch,
		assets:   make(map[string]AssetInfo),
		cache:    make(map[string]*metadata.Resource),
		loaders:  make(map[metadata.ResourceType]Loader),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize registers the loaders and indexes the base path. A missing
// base path is not an error: assets can still be loaded by absolute path.
func (am *AssetManager) Initialize() error {
	am.registerLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{})
	am.registerLoader(metadata.ResourceTypeMaterial, &loaders.MaterialLoader{})

	if _, err := os.Stat(am.basePath); err != nil {
		core.LogWarn("Asset path '%s' is not available: %v", am.basePath, err)
		return nil
	}

	if am.watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
		go am.start()
	}
	return am.addRecursive(am.basePath)
}

// AddRecursive indexes the named directory and all sub-directories, and
// watches them when watching is enabled.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return fmt.Errorf("asset manager already closed")
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed assets of type t, sorted by path.
func (am *AssetManager) Assets(t metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var out []AssetInfo
	for _, a := range am.assets {
		if a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Resolve returns the absolute path of name, relative names being taken
// from the base path.
func (am *AssetManager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(am.basePath, name)
}

// LoadAsset loads name with the loader of its type, or returns the cached
// resource.
func (am *AssetManager) LoadAsset(name string, params interface{}) (*metadata.Resource, error) {
	path := am.Resolve(name)
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return nil, fmt.Errorf("unknown asset type for '%s': %w", name, core.ErrInvalidArgument)
	}

	am.mutex.RLock()
	res, cached := am.cache[path]
	loader, loaderExists := am.loaders[assetType]
	am.mutex.RUnlock()
	if cached {
		return res, nil
	}
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", assetType)
	}

	res, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.cache[path] = res
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()
	core.LogDebug("Loaded asset '%s' (%d bytes).", path, res.DataSize)
	return res, nil
}

func (am *AssetManager) LoadModel(name string) (*metadata.Model, error) {
	res, err := am.LoadAsset(name, nil)
	if err != nil {
		return nil, err
	}
	model, ok := res.Data.(*metadata.Model)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a model: %w", name, core.ErrInvalidArgument)
	}
	return model, nil
}

func (am *AssetManager) LoadMaterial(name string) (*metadata.Material, error) {
	res, err := am.LoadAsset(name, nil)
	if err != nil {
		return nil, err
	}
	material, ok := res.Data.(*metadata.Material)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a material: %w", name, core.ErrInvalidArgument)
	}
	return material, nil
}

// UnloadAsset drops asset from the cache.
func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	am.mutex.Lock()
	delete(am.cache, asset.FullPath)
	loader := am.loaders[asset.Type]
	am.mutex.Unlock()
	if loader == nil {
		return nil
	}
	return loader.Unload(asset)
}

// Shutdown stops watching. Cached assets stay usable.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	<-am.stopped
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("Failed to watch '%s': %v", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted directory, so just try to remove it from
			// the watch list as well.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			return
		}
	}
}

// watchRecursive indexes the files under path and, when watching, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify != nil {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.indexFile(walkPath)
		return nil
	})
}

func (am *AssetManager) indexFile(path string) bool {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, exists := am.assets[path]; !exists {
		am.assets[path] = AssetInfo{Path: path, Type: assetType}
	}
	return true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	if !am.indexFile(path) {
		return
	}
	am.evict(path)
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	_, known := am.assets[path]
	delete(am.assets, path)
	am.mutex.Unlock()
	if known {
		am.evict(path)
	}
}

func (am *AssetManager) evict(path string) {
	am.mutex.Lock()
	_, cached := am.cache[path]
	delete(am.cache, path)
	am.mutex.Unlock()
	if cached {
		core.LogInfo("Asset '%s' changed on disk, evicted from cache.", path)
	}

	var ctx core.EventContext
	ctx.Data.C[0] = path
	core.EventFire(core.EVENT_CODE_ASSET_CHANGED, am, ctx)
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".gltf", ".glb":
		return metadata.ResourceTypeModel
	case ".amt":
		return metadata.ResourceTypeMaterial
	default:
		return metadata.ResourceTypeNone
	}
}
