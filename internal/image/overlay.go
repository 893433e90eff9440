package image

import (
	"image"
	"image/color"
	"math"

	"outline-fit/pkg/colorutil"
	"outline-fit/pkg/geometry"

	"golang.org/x/image/draw"
)

// Overlay defaults matching the modal design.
const (
	DefaultOverlayOpacity = 0.7
)

// DefaultBackdrop is the gray shown behind the outline template.
var DefaultBackdrop = colorutil.Backdrop

// OverlayLayer wraps a template image, stretched to the viewport, as the top
// layer of the composite.
func OverlayLayer(template image.Image, viewport geometry.Size, opacity float64, backdrop color.Color) *Layer {
	l := NewLayer("overlay", fitToViewport(template, viewport))
	l.Opacity = opacity
	l.Backdrop = backdrop
	return l
}

// LoadOverlay reads a template image from disk and fits it to the viewport.
func LoadOverlay(path string, viewport geometry.Size) (image.Image, error) {
	img, err := LoadImageFile(path)
	if err != nil {
		return nil, err
	}
	return fitToViewport(img, viewport), nil
}

// fitToViewport scales img to exactly fill the viewport.
func fitToViewport(img image.Image, viewport geometry.Size) image.Image {
	b := img.Bounds()
	if b.Dx() == viewport.Width && b.Dy() == viewport.Height && b.Min == (image.Point{}) {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, viewport.Width, viewport.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DefaultOverlay draws a simple head-and-shoulders outline used when no
// template file is configured.
func DefaultOverlay(viewport geometry.Size) image.Image {
	w, h := float64(viewport.Width), float64(viewport.Height)
	img := image.NewNRGBA(image.Rect(0, 0, viewport.Width, viewport.Height))
	line := colorutil.White
	thickness := math.Max(2, w/100)

	// Head
	headCx, headCy := w/2, h*0.30
	headRx, headRy := w*0.14, h*0.18
	// Shoulders: upper half of a wide ellipse anchored at the bottom edge
	bodyCx, bodyCy := w/2, h*1.05
	bodyRx, bodyRy := w*0.42, h*0.48

	for y := 0; y < viewport.Height; y++ {
		for x := 0; x < viewport.Width; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			onHead := nearEllipse(px, py, headCx, headCy, headRx, headRy, thickness)
			onBody := py < h && nearEllipse(px, py, bodyCx, bodyCy, bodyRx, bodyRy, thickness) &&
				!insideEllipse(px, py, headCx, headCy, headRx, headRy)
			if onHead || onBody {
				img.Set(x, y, line)
			}
		}
	}
	return img
}

func insideEllipse(x, y, cx, cy, rx, ry float64) bool {
	dx, dy := (x-cx)/rx, (y-cy)/ry
	return dx*dx+dy*dy <= 1
}

// nearEllipse reports whether (x, y) lies within thickness/2 of the ellipse
// outline, using the normalized radial distance.
func nearEllipse(x, y, cx, cy, rx, ry, thickness float64) bool {
	dx, dy := (x-cx)/rx, (y-cy)/ry
	r := math.Sqrt(dx*dx + dy*dy)
	band := thickness / 2 / math.Min(rx, ry)
	return math.Abs(r-1) <= band
}
