package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/math"
	"github.com/spaghettifunk/poser/engine/poses"
)

var (
	ErrEmptyName   = errors.New("node name is empty")
	ErrNodeExists  = errors.New("node already exists")
	ErrNodeMissing = errors.New("node does not exist")
	ErrNotAJoint   = errors.New("node is not a joint")
	ErrInvalidAxis = errors.New("invalid axis")
)

type NodeKind uint8

const (
	NodeKindTransform NodeKind = iota
	NodeKindJoint
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindJoint:
		return "joint"
	default:
		return "transform"
	}
}

type Node struct {
	ID        uuid.UUID
	Name      string
	Kind      NodeKind
	Transform *math.Transform
	Parent    *Node
}

/**
 * @brief An in-memory scene graph. Implements Adapter so poses can be
 * applied without a running host application.
 */
type Scene struct {
	mutex sync.RWMutex
	nodes map[string]*Node
}

func New() *Scene {
	return &Scene{
		nodes: make(map[string]*Node),
	}
}

// AddNode creates a node under parent. An empty parent creates a root node.
func (s *Scene) AddNode(name string, kind NodeKind, parent string) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.nodes[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrNodeExists, name)
	}
	node := &Node{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Transform: math.TransformCreate(),
	}
	if parent != "" {
		p, ok := s.nodes[parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s", ErrNodeMissing, parent)
		}
		node.Parent = p
		node.Transform.Parent = p.Transform
	}
	s.nodes[name] = node
	return node, nil
}

// CreateJoints creates one joint per name, each parented to the one before it.
func (s *Scene) CreateJoints(names ...string) ([]*Node, error) {
	if len(names) == 0 {
		core.LogWarn("You must provide names for the joints!")
		return nil, nil
	}
	created := make([]*Node, 0, len(names))
	parent := ""
	for _, name := range names {
		n, err := s.AddNode(name, NodeKindJoint, parent)
		if err != nil {
			return created, err
		}
		created = append(created, n)
		parent = name
	}
	return created, nil
}

func (s *Scene) Node(name string) (*Node, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n, ok := s.nodes[name]
	return n, ok
}

// Joints lists the joint names, sorted.
func (s *Scene) Joints() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	joints := make([]string, 0, len(s.nodes))
	for name, n := range s.nodes {
		if n.Kind == NodeKindJoint {
			joints = append(joints, name)
		}
	}
	sort.Strings(joints)
	return joints
}

func (s *Scene) JointExists(joint string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n, ok := s.nodes[joint]
	return ok && n.Kind == NodeKindJoint
}

func (s *Scene) MoveJointAbsolute(joint string, axis poses.Axis, value float64) error {
	if !axis.IsTranslation() {
		return fmt.Errorf("%w: %s is not a translation axis", ErrInvalidAxis, axis)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, err := s.joint(joint)
	if err != nil {
		return err
	}
	n.Transform.SetPositionAxis(axis.Index(), value)
	return nil
}

func (s *Scene) RotateJointAbsolute(joint string, axis poses.Axis, value float64) error {
	if !axis.IsRotation() {
		return fmt.Errorf("%w: %s is not a rotation axis", ErrInvalidAxis, axis)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, err := s.joint(joint)
	if err != nil {
		return err
	}
	n.Transform.SetRotationAxis(axis.Index(), value)
	return nil
}

func (s *Scene) joint(name string) (*Node, error) {
	n, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeMissing, name)
	}
	if n.Kind != NodeKindJoint {
		return nil, fmt.Errorf("%w: %s", ErrNotAJoint, name)
	}
	return n, nil
}
