package math

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

/**
 * @brief Represents the transform of a node in the scene.
 * Transforms can have a parent whose own transform is then
 * taken into account. Rotation holds euler angles in degrees,
 * the way the host scene reports them.
 */
type Transform struct {
	/** @brief The position relative to the parent. */
	Position Vec3
	/** @brief The euler rotation in degrees. */
	Rotation Vec3
	/** @brief A pointer to a parent transform if one is assigned. Can also be nil. */
	Parent *Transform
}
