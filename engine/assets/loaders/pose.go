package loaders

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/engine/resources"
)

type PoseLoader struct{}

// Load parses a pose library. The resource data is a *poses.Store.
func (pl *PoseLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	store, err := poses.Load(path)
	if err != nil {
		return nil, err
	}

	var size uint64
	if info, err := os.Stat(path); err == nil {
		size = uint64(info.Size())
	}

	return &resources.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     resources.ResourceTypePose,
		DataSize: size,
		Data:     store,
	}, nil
}

func (pl *PoseLoader) Unload(*resources.Resource) error {
	return nil
}
