package image

import (
	"image"
	"image/color"

	"outline-fit/pkg/colorutil"
	"outline-fit/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Composite renders layers bottom to top into a fixed-size viewport.
type Composite struct {
	Width     int
	Height    int
	Layers    []*Layer
	BackColor color.Color
}

// NewComposite creates a new Composite with the specified dimensions.
func NewComposite(viewport geometry.Size) *Composite {
	return &Composite{
		Width:     viewport.Width,
		Height:    viewport.Height,
		BackColor: colorutil.White,
	}
}

// AddLayer appends a layer on top of the stack.
func (c *Composite) AddLayer(layer *Layer) {
	c.Layers = append(c.Layers, layer)
}

// Render produces the final composited image.
func (c *Composite) Render() *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(result, result.Bounds(), &image.Uniform{C: c.BackColor}, image.Point{}, draw.Src)

	for _, l := range c.Layers {
		if l == nil || l.Image == nil || !l.Visible || l.Opacity <= 0 {
			continue
		}
		c.compositeLayer(result, l)
	}

	return result
}

// compositeLayer draws one layer. Translucent layers are rendered into a
// scratch buffer first so the opacity applies to the layer as a whole.
func (c *Composite) compositeLayer(dst *image.RGBA, l *Layer) {
	target := dst
	if l.Opacity < 1 {
		target = image.NewRGBA(dst.Bounds())
	}

	if l.Backdrop != nil {
		c.fillFootprint(target, l)
	}
	c.transformLayer(target, l)

	if target != dst {
		mask := image.NewUniform(color.Alpha{A: uint8(clamp(l.Opacity, 0, 1)*255 + 0.5)})
		draw.DrawMask(dst, dst.Bounds(), target, image.Point{}, mask, image.Point{}, draw.Over)
	}
}

// transformLayer maps the layer into the viewport with its placement
// transform. A zero scale collapses the image, so nothing is drawn.
func (c *Composite) transformLayer(dst *image.RGBA, l *Layer) {
	if l.Transform.Scale == 0 {
		return
	}

	m := geometry.ToMatrix(l.Transform, l.Size())
	aff := f64.Aff3{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
	}

	// Source bounds may not start at the origin.
	b := l.Image.Bounds()
	if b.Min != (image.Point{}) {
		aff[2] -= aff[0]*float64(b.Min.X) + aff[1]*float64(b.Min.Y)
		aff[5] -= aff[3]*float64(b.Min.X) + aff[4]*float64(b.Min.Y)
	}

	draw.ApproxBiLinear.Transform(dst, aff, l.Image, b, draw.Over, nil)
}

// fillFootprint paints the backdrop under the area the layer covers.
func (c *Composite) fillFootprint(dst *image.RGBA, l *Layer) {
	x0, y0 := geometry.ImageToViewport(l.Transform, l.Size(), 0, 0)
	x1, y1 := geometry.ImageToViewport(l.Transform, l.Size(), float64(l.Width()), float64(l.Height()))
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	r := image.Rect(int(x0), int(y0), int(x1+0.5), int(y1+0.5)).Intersect(dst.Bounds())
	draw.Draw(dst, r, &image.Uniform{C: l.Backdrop}, image.Point{}, draw.Src)
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
