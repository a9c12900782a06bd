package scene

import "github.com/spaghettifunk/poser/engine/poses"

// Adapter is the narrow surface of a host scene that poses are applied through.
// Values are absolute: units for translations, degrees for rotations.
type Adapter interface {
	MoveJointAbsolute(joint string, axis poses.Axis, value float64) error
	RotateJointAbsolute(joint string, axis poses.Axis, value float64) error
	JointExists(joint string) bool
}
