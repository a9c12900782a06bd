package math

func TransformCreate() *Transform {
	return &Transform{}
}

func TransformFromPosition(position Vec3) *Transform {
	return &Transform{Position: position}
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
}

// SetPositionAxis moves along one axis to an absolute value, leaving the others.
func (t *Transform) SetPositionAxis(index int, value float64) {
	t.Position = t.Position.WithComponent(index, value)
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
}

func (t *Transform) SetRotation(rotation Vec3) {
	t.Rotation = rotation
}

// SetRotationAxis rotates around one axis to an absolute angle in degrees.
func (t *Transform) SetRotationAxis(index int, degrees float64) {
	t.Rotation = t.Rotation.WithComponent(index, degrees)
}

// RotationRadians returns the euler rotation converted to radians.
func (t *Transform) RotationRadians() Vec3 {
	return Vec3{X: DegToRad(t.Rotation.X), Y: DegToRad(t.Rotation.Y), Z: DegToRad(t.Rotation.Z)}
}

// GetWorldPosition accumulates the positions of the parent chain.
func (t *Transform) GetWorldPosition() Vec3 {
	if t == nil {
		return NewVec3Zero()
	}
	if t.Parent != nil {
		return t.Parent.GetWorldPosition().Add(t.Position)
	}
	return t.Position
}
