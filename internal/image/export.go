package image

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"outline-fit/internal/upload"
	"outline-fit/pkg/geometry"

	"github.com/HugoSmits86/nativewebp"
)

// RenderPlacement composites the photo (when present) under the overlay.
// A nil asset renders only the backdrop and overlay, the same as the empty
// modal.
func RenderPlacement(viewport geometry.Size, asset *upload.Asset, t geometry.Transform, overlay *Layer) *image.RGBA {
	comp := NewComposite(viewport)
	if asset != nil {
		comp.AddLayer(PhotoLayer(asset, t))
	}
	if overlay != nil {
		comp.AddLayer(overlay)
	}
	return comp.Render()
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// Save writes img to path, choosing the encoding from the extension.
func Save(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = EncodePNG
	case ".webp":
		encode = EncodeWebP
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .webp)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
