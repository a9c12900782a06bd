package engine

import (
	"github.com/spaghettifunk/poser/engine/catalog"
	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/scene"
	"github.com/spaghettifunk/poser/engine/systems"
)

/**
 * @brief The application driven by the engine. It owns the scene the poses
 * are applied to and can hook into the engine lifecycle. Every hook is
 * optional.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	// The scene poses are applied to.
	Adapter       scene.Adapter
	State         interface{}
	FnInitialize  Initialize
	FnOnReload    OnReload
	FnOnPoseApply OnPoseApply
	FnShutdown    Shutdown
}

type Initialize func() error

// OnReload receives the new library (nil when the folder has no pose file)
// and the catalog built from it.
type OnReload func(library *poses.Store, cat *catalog.Catalog) error
type OnPoseApply func(report *systems.ApplyReport) error
type Shutdown func() error
