package assets

import "github.com/spaghettifunk/poser/engine/resources"

type Loader interface {
	Load(path string, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take type specific parameters
	Unload(*resources.Resource) error
}
