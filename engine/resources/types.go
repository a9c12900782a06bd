package resources

import "image"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the asset manager does not know how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Pose library resource type (XML pose definitions). */
	ResourceTypePose
	/** @brief Image resource type (pose thumbnails). */
	ResourceTypeImage
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypePose:
		return "pose"
	case ResourceTypeImage:
		return "image"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief The bounding box the image is scaled down to fit. Zero keeps the source size. */
	MaxWidth  int
	MaxHeight int
}

type ImageResourceData struct {
	/** @brief The size of the image as stored on disk. */
	SourceWidth  int
	SourceHeight int
	/** @brief The pixels after fitting the image into the requested box. */
	Image *image.RGBA
}

func (d *ImageResourceData) Width() int {
	return d.Image.Bounds().Dx()
}

func (d *ImageResourceData) Height() int {
	return d.Image.Bounds().Dy()
}
