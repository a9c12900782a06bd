package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/poser/engine/resources"
)

type ThumbnailLoader struct{}

// Load decodes a thumbnail and fits it inside the box given by
// *resources.ImageResourceParams, keeping its aspect ratio. Images are never
// scaled up. Nil params keep the source size.
func (tl *ThumbnailLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	var box resources.ImageResourceParams
	if params != nil {
		p, ok := params.(*resources.ImageResourceParams)
		if !ok {
			return nil, fmt.Errorf("failed to cast params in thumbnail loader")
		}
		box = *p
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail %s: %w", path, err)
	}

	sb := src.Bounds()
	w, h := fitInside(sb.Dx(), sb.Dy(), box.MaxWidth, box.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}

	return &resources.Resource{
		Name:     strings.TrimSpace(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
		FullPath: path,
		Type:     resources.ResourceTypeImage,
		DataSize: uint64(len(dst.Pix)),
		Data: &resources.ImageResourceData{
			SourceWidth:  sb.Dx(),
			SourceHeight: sb.Dy(),
			Image:        dst,
		},
	}, nil
}

func (tl *ThumbnailLoader) Unload(resource *resources.Resource) error {
	if resource != nil {
		resource.Data = nil
	}
	return nil
}

// fitInside scales (w, h) down to fit (maxW, maxH). A zero bound is ignored.
func fitInside(w, h, maxW, maxH int) (int, int) {
	if w == 0 || h == 0 {
		return w, h
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	if scale >= 1.0 {
		return w, h
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
