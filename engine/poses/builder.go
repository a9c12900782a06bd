package poses

import "slices"

// builder assembles a Store one element at a time. Structure is only
// created by explicit calls, lookups never insert.
type builder struct {
	poses map[string]*Pose
	order []string
}

func newBuilder() *builder {
	return &builder{
		poses: make(map[string]*Pose),
	}
}

// pose returns the pose with the given name, creating it on first sight.
// A repeated pose element merges into the first one.
func (b *builder) pose(name string) *Pose {
	if p, ok := b.poses[name]; ok {
		return p
	}
	p := newPose(name)
	b.poses[name] = p
	b.order = append(b.order, name)
	return p
}

// joint returns the named joint of p, creating it on first sight.
func (b *builder) joint(p *Pose, name string) *Joint {
	if j, ok := p.joints[name]; ok {
		return j
	}
	j := newJoint(name)
	p.joints[name] = j
	p.order = append(p.order, name)
	return j
}

// category stores attrs under the category name. The last element wins:
// a repeated category replaces the earlier bag, and an empty one removes it.
func (b *builder) category(j *Joint, name string, attrs Attributes) {
	if len(attrs) == 0 {
		if _, ok := j.categories[name]; ok {
			delete(j.categories, name)
			j.order = slices.DeleteFunc(j.order, func(c string) bool { return c == name })
		}
		return
	}
	if _, ok := j.categories[name]; !ok {
		j.order = append(j.order, name)
	}
	j.categories[name] = attrs
}

func (b *builder) build(path string) *Store {
	return &Store{
		path:  path,
		poses: b.poses,
		order: b.order,
	}
}
