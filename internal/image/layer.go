// Package image provides the layers composited into the placement viewport:
// the user's photo and the body-outline template above it.
package image

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"outline-fit/internal/upload"
	"outline-fit/pkg/geometry"
)

// Layer is one image drawn into the viewport.
type Layer struct {
	Name      string             // For logs
	Image     image.Image        // Pixel data
	Transform geometry.Transform // Position and center scale inside the viewport
	Opacity   float64            // 0.0 - 1.0
	Backdrop  color.Color        // Optional fill under the layer's footprint
	Visible   bool
}

// NewLayer creates a visible, opaque layer at the viewport origin.
func NewLayer(name string, img image.Image) *Layer {
	return &Layer{
		Name:      name,
		Image:     img,
		Transform: geometry.Transform{Scale: 1},
		Opacity:   1.0,
		Visible:   true,
	}
}

// PhotoLayer creates the adjustable photo layer for a render transform.
func PhotoLayer(asset *upload.Asset, t geometry.Transform) *Layer {
	l := NewLayer("photo", asset.Image)
	l.Transform = t
	return l
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.NewSize(l.Width(), l.Height())
}

// LoadImageFile reads and decodes an image file through the upload decoder.
func LoadImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	asset, err := upload.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return asset.Image, nil
}
