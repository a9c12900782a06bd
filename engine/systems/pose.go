package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/poser/engine/containers"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/scene"
)

/** @brief The outcome of applying a pose to a scene. */
type ApplyReport struct {
	Pose string
	// Joints that were moved or rotated, in document order.
	Applied []string
	// Joints of the pose that do not exist in the scene.
	Skipped []string
	// Number of adapter calls made.
	Calls int
}

type PoseSystem struct {
	adapter scene.Adapter
	mutex   sync.Mutex
	history *containers.RingQueue[string]
}

func NewPoseSystem(adapter scene.Adapter, historySize int) (*PoseSystem, error) {
	if adapter == nil {
		return nil, fmt.Errorf("pose system needs a scene adapter")
	}
	return &PoseSystem{
		adapter: adapter,
		history: containers.NewRingQueue[string](historySize),
	}, nil
}

// Apply drives every joint of the pose through the scene adapter. All axis
// values are parsed before the scene is touched, so a malformed value leaves
// the scene unchanged.
func (ps *PoseSystem) Apply(pose *poses.Pose) (*ApplyReport, error) {
	if pose == nil {
		return nil, core.ErrPoseNotFound
	}

	values := make([]poses.JointValues, 0, pose.Len())
	for _, j := range pose.Joints() {
		v, err := j.Values()
		if err != nil {
			return nil, fmt.Errorf("pose %s: %w", pose.Name(), err)
		}
		values = append(values, v)
	}

	report := &ApplyReport{Pose: pose.Name()}
	for _, v := range values {
		if !ps.adapter.JointExists(v.Joint) {
			core.LogWarn("The node %s does not exist!", v.Joint)
			report.Skipped = append(report.Skipped, v.Joint)
			continue
		}
		for _, axis := range poses.TranslationAxes {
			value, ok := v.Get(axis)
			if !ok {
				continue
			}
			if err := ps.adapter.MoveJointAbsolute(v.Joint, axis, value); err != nil {
				return report, fmt.Errorf("move %s %s: %w", v.Joint, axis, err)
			}
			report.Calls++
		}
		for _, axis := range poses.RotationAxes {
			value, ok := v.Get(axis)
			if !ok {
				continue
			}
			if err := ps.adapter.RotateJointAbsolute(v.Joint, axis, value); err != nil {
				return report, fmt.Errorf("rotate %s %s: %w", v.Joint, axis, err)
			}
			report.Calls++
		}
		report.Applied = append(report.Applied, v.Joint)
	}

	ps.mutex.Lock()
	ps.history.Push(pose.Name())
	ps.mutex.Unlock()
	core.LogDebug("Applied pose '%s' to %d joints (%d skipped).", pose.Name(), len(report.Applied), len(report.Skipped))
	return report, nil
}

// History returns the names of the last applied poses, oldest first.
func (ps *PoseSystem) History() []string {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	return ps.history.Items()
}
