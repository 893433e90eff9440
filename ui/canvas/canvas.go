// Package canvas provides the placement preview: the photo under the outline
// template, with wheel zoom and arrow-key nudging.
package canvas

import (
	"image"
	"sync"

	"outline-fit/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Renderer produces the composited viewport image.
type Renderer interface {
	Render() *image.RGBA
	Viewport() geometry.Size
}

// PlacementCanvas shows the current placement at the viewport's pixel size.
type PlacementCanvas struct {
	widget.BaseWidget

	source Renderer
	raster *fynecanvas.Raster

	mu         sync.Mutex
	lastOutput *image.RGBA
	dirty      bool
	focused    bool

	// Callbacks
	onZoom  func(in bool)
	onNudge func(dir geometry.Direction)
	onTap   func(vx, vy float64)
}

var (
	_ fyne.Widget     = (*PlacementCanvas)(nil)
	_ fyne.Scrollable = (*PlacementCanvas)(nil)
	_ fyne.Focusable  = (*PlacementCanvas)(nil)
	_ fyne.Tappable   = (*PlacementCanvas)(nil)
)

// NewPlacementCanvas creates a canvas that draws from source.
func NewPlacementCanvas(source Renderer) *PlacementCanvas {
	pc := &PlacementCanvas{source: source, dirty: true}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	vp := source.Viewport()
	pc.raster.SetMinSize(fyne.NewSize(float32(vp.Width), float32(vp.Height)))
	pc.ExtendBaseWidget(pc)
	return pc
}

// OnZoom sets the wheel callback; in is true for wheel-up.
func (pc *PlacementCanvas) OnZoom(callback func(in bool)) {
	pc.onZoom = callback
}

// OnNudge sets the arrow-key callback.
func (pc *PlacementCanvas) OnNudge(callback func(dir geometry.Direction)) {
	pc.onNudge = callback
}

// OnTap sets the click callback, called with the viewport coordinate under
// the pointer.
func (pc *PlacementCanvas) OnTap(callback func(vx, vy float64)) {
	pc.onTap = callback
}

// Invalidate marks the cached rendering stale and redraws.
func (pc *PlacementCanvas) Invalidate() {
	pc.mu.Lock()
	pc.dirty = true
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// GetRenderedOutput returns the last image handed to the raster.
func (pc *PlacementCanvas) GetRenderedOutput() *image.RGBA {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.lastOutput
}

// draw is the raster drawing function. The viewport is rendered at its own
// pixel size and the raster scales it to the widget.
func (pc *PlacementCanvas) draw(w, h int) image.Image {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.dirty || pc.lastOutput == nil {
		pc.lastOutput = pc.source.Render()
		pc.dirty = false
	}
	return pc.lastOutput
}

// Scrolled zooms with the mouse wheel.
func (pc *PlacementCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if pc.onZoom == nil {
		return
	}
	if ev.Scrolled.DY > 0 {
		pc.onZoom(true)
	} else if ev.Scrolled.DY < 0 {
		pc.onZoom(false)
	}
}

// Tapped takes keyboard focus so the arrow keys nudge the photo, and reports
// the viewport coordinate that was clicked.
func (pc *PlacementCanvas) Tapped(ev *fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(pc); c != nil {
		c.Focus(pc)
	}
	if pc.onTap == nil {
		return
	}
	if vx, vy, ok := pc.viewportPoint(ev.Position); ok {
		pc.onTap(vx, vy)
	}
}

// viewportPoint converts a widget position into viewport units. Points in
// the letterbox around the raster are outside.
func (pc *PlacementCanvas) viewportPoint(p fyne.Position) (vx, vy float64, ok bool) {
	origin, size := pc.raster.Position(), pc.raster.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0, false
	}
	x, y := p.X-origin.X, p.Y-origin.Y
	if x < 0 || y < 0 || x >= size.Width || y >= size.Height {
		return 0, 0, false
	}
	vp := pc.source.Viewport()
	return float64(x * float32(vp.Width) / size.Width), float64(y * float32(vp.Height) / size.Height), true
}

func (pc *PlacementCanvas) FocusGained() { pc.focused = true }
func (pc *PlacementCanvas) FocusLost()   { pc.focused = false }
func (pc *PlacementCanvas) TypedRune(rune) {}

// TypedKey maps arrow keys to nudges.
func (pc *PlacementCanvas) TypedKey(ev *fyne.KeyEvent) {
	if pc.onNudge == nil {
		return
	}
	if dir := keyDirection(ev.Name); dir != geometry.DirectionNone {
		pc.onNudge(dir)
	}
}

func keyDirection(key fyne.KeyName) geometry.Direction {
	switch key {
	case fyne.KeyUp:
		return geometry.DirectionUp
	case fyne.KeyDown:
		return geometry.DirectionDown
	case fyne.KeyLeft:
		return geometry.DirectionLeft
	case fyne.KeyRight:
		return geometry.DirectionRight
	default:
		return geometry.DirectionNone
	}
}

// CreateRenderer implements fyne.Widget.
func (pc *PlacementCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &placementCanvasRenderer{canvas: pc}
}

type placementCanvasRenderer struct {
	canvas *PlacementCanvas
}

func (r *placementCanvasRenderer) Layout(size fyne.Size) {
	// Keep the viewport square-pixel by centering it at its aspect ratio.
	vp := r.canvas.source.Viewport()
	scale := min(size.Width/float32(vp.Width), size.Height/float32(vp.Height))
	w, h := float32(vp.Width)*scale, float32(vp.Height)*scale
	r.canvas.raster.Resize(fyne.NewSize(w, h))
	r.canvas.raster.Move(fyne.NewPos((size.Width-w)/2, (size.Height-h)/2))
}

func (r *placementCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *placementCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *placementCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *placementCanvasRenderer) Destroy() {}
