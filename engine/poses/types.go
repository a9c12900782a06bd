package poses

import (
	"maps"
	"slices"
)

const (
	CategoryTranslations = "translations"
	CategoryRotations    = "rotations"
)

// Attributes is the verbatim attribute bag of a category element.
// Values are kept as the raw strings found in the document.
type Attributes map[string]string

/**
 * @brief A joint of a pose. Holds one attribute bag per transform category
 * found under the joint element.
 */
type Joint struct {
	name       string
	categories map[string]Attributes
	order      []string
}

func newJoint(name string) *Joint {
	return &Joint{
		name:       name,
		categories: make(map[string]Attributes),
	}
}

func (j *Joint) Name() string {
	return j.name
}

// Category returns a copy of the named attribute bag. The boolean is false
// when the joint has no values for that category.
func (j *Joint) Category(name string) (Attributes, bool) {
	attrs, ok := j.categories[name]
	if !ok {
		return nil, false
	}
	return maps.Clone(attrs), true
}

func (j *Joint) Translations() (Attributes, bool) {
	return j.Category(CategoryTranslations)
}

func (j *Joint) Rotations() (Attributes, bool) {
	return j.Category(CategoryRotations)
}

func (j *Joint) HasCategory(name string) bool {
	_, ok := j.categories[name]
	return ok
}

// Categories returns the category names in document order.
func (j *Joint) Categories() []string {
	return slices.Clone(j.order)
}

/**
 * @brief A named pose: the joints it drives, in document order.
 */
type Pose struct {
	name   string
	joints map[string]*Joint
	order  []string
}

func newPose(name string) *Pose {
	return &Pose{
		name:   name,
		joints: make(map[string]*Joint),
	}
}

func (p *Pose) Name() string {
	return p.name
}

func (p *Pose) Joint(name string) (*Joint, bool) {
	j, ok := p.joints[name]
	return j, ok
}

func (p *Pose) HasJoint(name string) bool {
	_, ok := p.joints[name]
	return ok
}

func (p *Pose) JointNames() []string {
	return slices.Clone(p.order)
}

// Joints returns the joints in document order.
func (p *Pose) Joints() []*Joint {
	joints := make([]*Joint, 0, len(p.order))
	for _, name := range p.order {
		joints = append(joints, p.joints[name])
	}
	return joints
}

func (p *Pose) Len() int {
	return len(p.order)
}

func (p *Pose) IsEmpty() bool {
	return len(p.order) == 0
}
