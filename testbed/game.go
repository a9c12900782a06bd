package testbed

import (
	"github.com/spaghettifunk/poser/engine"
	"github.com/spaghettifunk/poser/engine/catalog"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/scene"
	"github.com/spaghettifunk/poser/engine/systems"
)

// Spine of the sample rig, root first.
var SpineChain = []string{"Hips", "Spine", "Spine1", "Neck", "Head"}

var (
	LeftArmChain  = []string{"LeftShoulder", "LeftArm", "LeftForeArm", "LeftHand"}
	RightArmChain = []string{"RightShoulder", "RightArm", "RightForeArm", "RightHand"}
)

type TestGame struct {
	*engine.Game
	Rig *scene.Scene
}

type gameState struct {
	lastPose    string
	reloadCount int
}

/**
 * @brief Builds a small humanoid rig: a root transform, the spine chain
 * and two arms hanging off Spine1.
 */
func NewRig() (*scene.Scene, error) {
	rig := scene.New()
	if _, err := rig.AddNode("Root", scene.NodeKindTransform, ""); err != nil {
		return nil, err
	}
	parent := "Root"
	for _, name := range SpineChain {
		if _, err := rig.AddNode(name, scene.NodeKindJoint, parent); err != nil {
			return nil, err
		}
		parent = name
	}
	for _, chain := range [][]string{LeftArmChain, RightArmChain} {
		parent := "Spine1"
		for _, name := range chain {
			if _, err := rig.AddNode(name, scene.NodeKindJoint, parent); err != nil {
				return nil, err
			}
			parent = name
		}
	}
	return rig, nil
}

func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	rig, err := NewRig()
	if err != nil {
		return nil, err
	}

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			Adapter:           rig,
			State:             &gameState{},
		},
		Rig: rig,
	}

	tg.FnInitialize = tg.Initialize
	tg.FnOnReload = tg.OnReload
	tg.FnOnPoseApply = tg.OnPoseApply
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("testbed rig ready with %d joints", len(g.Rig.Joints()))
	return nil
}

func (g *TestGame) OnReload(library *poses.Store, cat *catalog.Catalog) error {
	state := g.State.(*gameState)
	state.reloadCount++
	if library == nil {
		return nil
	}
	for _, name := range cat.Orphans() {
		core.LogDebug("pose '%s' has no thumbnail", name)
	}
	return nil
}

func (g *TestGame) OnPoseApply(report *systems.ApplyReport) error {
	g.State.(*gameState).lastPose = report.Pose
	return nil
}

// LastPose is the name of the last pose applied to the rig.
func (g *TestGame) LastPose() string {
	return g.State.(*gameState).lastPose
}

func (g *TestGame) Reloads() int {
	return g.State.(*gameState).reloadCount
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("shutting down testbed...")
	return nil
}
