package scene

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/poser/engine/math"
	"github.com/spaghettifunk/poser/engine/poses"
)

var _ Adapter = (*Scene)(nil)

func TestScene_CreateJointsChainsParents(t *testing.T) {
	s := New()
	nodes, err := s.CreateJoints("Hips", "Spine", "Spine1")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Nil(t, nodes[0].Parent)
	assert.Equal(t, nodes[0], nodes[1].Parent)
	assert.Equal(t, nodes[1], nodes[2].Parent)
	assert.NotEqual(t, uuid.Nil, nodes[2].ID)
	assert.NotEqual(t, nodes[1].ID, nodes[2].ID)
	assert.Equal(t, []string{"Hips", "Spine", "Spine1"}, s.Joints())
}

func TestScene_CreateJointsWithoutNames(t *testing.T) {
	s := New()
	nodes, err := s.CreateJoints()
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestScene_AddNodeErrors(t *testing.T) {
	s := New()
	_, err := s.AddNode("", NodeKindJoint, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = s.AddNode("Hips", NodeKindJoint, "")
	require.NoError(t, err)
	_, err = s.AddNode("Hips", NodeKindJoint, "")
	assert.ErrorIs(t, err, ErrNodeExists)

	_, err = s.AddNode("Spine", NodeKindJoint, "Root")
	assert.ErrorIs(t, err, ErrNodeMissing)
}

func TestScene_JointExistsOnlyForJoints(t *testing.T) {
	s := New()
	_, err := s.AddNode("Camera", NodeKindTransform, "")
	require.NoError(t, err)
	_, err = s.AddNode("Head", NodeKindJoint, "")
	require.NoError(t, err)

	assert.True(t, s.JointExists("Head"))
	assert.False(t, s.JointExists("Camera"))
	assert.False(t, s.JointExists("Tail"))
	assert.Equal(t, []string{"Head"}, s.Joints())
}

func TestScene_AbsoluteMoveAndRotate(t *testing.T) {
	s := New()
	_, err := s.CreateJoints("Hips", "Spine")
	require.NoError(t, err)

	require.NoError(t, s.MoveJointAbsolute("Hips", poses.AxisTY, 10))
	require.NoError(t, s.MoveJointAbsolute("Spine", poses.AxisTY, 2))
	require.NoError(t, s.MoveJointAbsolute("Spine", poses.AxisTY, 3))
	require.NoError(t, s.RotateJointAbsolute("Spine", poses.AxisRY, 48.45))

	spine, ok := s.Node("Spine")
	require.True(t, ok)
	assert.Equal(t, math.NewVec3(0, 3, 0), spine.Transform.Position)
	assert.Equal(t, math.NewVec3(0, 48.45, 0), spine.Transform.Rotation)
	assert.Equal(t, math.NewVec3(0, 13, 0), spine.Transform.GetWorldPosition())
}

func TestScene_MoveErrors(t *testing.T) {
	s := New()
	_, err := s.AddNode("Camera", NodeKindTransform, "")
	require.NoError(t, err)
	_, err = s.AddNode("Head", NodeKindJoint, "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.MoveJointAbsolute("Tail", poses.AxisTX, 1), ErrNodeMissing)
	assert.ErrorIs(t, s.RotateJointAbsolute("Camera", poses.AxisRX, 1), ErrNotAJoint)
	assert.ErrorIs(t, s.MoveJointAbsolute("Head", poses.AxisRX, 1), ErrInvalidAxis)
	assert.ErrorIs(t, s.RotateJointAbsolute("Head", poses.AxisTX, 1), ErrInvalidAxis)
}
