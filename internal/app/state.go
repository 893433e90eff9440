// Package app provides the application state shared by the window, the modal
// and the canvas, and the events they use to stay in sync.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"outline-fit/internal/config"
	fitimage "outline-fit/internal/image"
	"outline-fit/internal/placement"
	"outline-fit/internal/shopify"
	"outline-fit/internal/upload"
	"outline-fit/pkg/colorutil"
	"outline-fit/pkg/geometry"

	"go.uber.org/zap"
)

// EventType identifies different application events.
type EventType int

const (
	EventModalChanged      EventType = iota // data: bool (visible)
	EventImageLoaded                        // data: *upload.Asset
	EventImageRejected                      // data: error
	EventTransformChanged                   // data: geometry.Transform
	EventSessionReset                       // data: nil
	EventOverlayChanged                     // data: image.Image
	EventProductCreating                    // data: string (title)
	EventProductCreated                     // data: *shopify.Result
	EventProductFailed                      // data: error
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ProductCreator creates the sample product on the remote shop.
type ProductCreator interface {
	CreateSampleProduct(ctx context.Context, title, price string) (*shopify.Result, error)
}

// State holds the placement session, the overlay template and the product
// creation status.
type State struct {
	mu sync.RWMutex

	cfg      *config.Config
	logger   *zap.Logger
	session  *placement.Session
	capturer upload.Capturer
	creator  ProductCreator
	rng      *rand.Rand

	modalVisible bool
	overlay      image.Image
	backdrop     color.Color
	creating     bool
	lastProduct  *shopify.Result

	listeners map[EventType][]EventListener
}

// NewState creates the application state. creator may be nil when no shop is
// configured; CreateSampleProduct then fails.
func NewState(cfg *config.Config, creator ProductCreator, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	backdrop, err := colorutil.ParseHex(cfg.Overlay.Backdrop)
	if err != nil {
		backdrop = fitimage.DefaultBackdrop
	}

	sessionCfg := cfg.SessionConfig()
	return &State{
		cfg:       cfg,
		logger:    logger,
		session:   placement.NewSession(sessionCfg, upload.Decoder{MaxPixels: cfg.Upload.MaxPixels}, logger),
		capturer:  upload.Capturer{MaxBytes: cfg.Upload.MaxBytes},
		creator:   creator,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		overlay:   fitimage.DefaultOverlay(sessionCfg.Viewport),
		backdrop:  backdrop,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the loaded configuration.
func (s *State) Config() *config.Config {
	return s.cfg
}

// Viewport returns the placement viewport size.
func (s *State) Viewport() geometry.Size {
	return s.session.Config().Viewport
}

// ModalVisible reports whether the placement modal is open.
func (s *State) ModalVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modalVisible
}

// OpenModal shows the placement modal.
func (s *State) OpenModal() {
	s.setModal(true)
}

// CloseModal hides the placement modal and keeps the session.
func (s *State) CloseModal() {
	s.setModal(false)
}

// ToggleModal flips modal visibility.
func (s *State) ToggleModal() {
	s.setModal(!s.ModalVisible())
}

// CancelModal hides the modal and discards the session.
func (s *State) CancelModal() {
	s.Reset()
	s.setModal(false)
}

func (s *State) setModal(visible bool) {
	s.mu.Lock()
	changed := s.modalVisible != visible
	s.modalVisible = visible
	s.mu.Unlock()
	if changed {
		s.Emit(EventModalChanged, visible)
	}
}

// HasImage reports whether the session holds an image.
func (s *State) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.State() == placement.StateLoaded
}

// Transform returns the current render transform; ok is false with no image.
func (s *State) Transform() (geometry.Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.CurrentTransform()
}

// ImagePixelAt maps a viewport coordinate to the image pixel drawn there.
// ok is false with no image, for a zero scale, or when the point misses the
// image.
func (s *State) ImagePixelAt(vx, vy float64) (x, y int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, loaded := s.session.CurrentTransform()
	if !loaded {
		return 0, 0, false
	}
	size := s.session.Asset().Size()
	fx, fy, ok := geometry.ViewportToImage(t, size, vx, vy)
	if !ok {
		return 0, 0, false
	}
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= size.Width || y >= size.Height {
		return 0, 0, false
	}
	return x, y, true
}

// LoadImage decodes data into the session.
func (s *State) LoadImage(data []byte) error {
	s.mu.Lock()
	err := s.session.LoadImage(data)
	asset := s.session.Asset()
	t, _ := s.session.CurrentTransform()
	s.mu.Unlock()

	if err != nil {
		s.Emit(EventImageRejected, err)
		return err
	}
	s.Emit(EventImageLoaded, asset)
	s.Emit(EventTransformChanged, t)
	return nil
}

// LoadFile captures an image file from the picker or a drop. Files whose MIME
// type is not image/* are ignored and loaded is false.
func (s *State) LoadFile(r io.Reader, mimeType string) (loaded bool, err error) {
	data, ok, err := s.capturer.Capture(r, mimeType)
	if err != nil {
		s.Emit(EventImageRejected, err)
		return false, err
	}
	if !ok {
		s.logger.Debug("ignored non-image file", zap.String("mime", mimeType))
		return false, nil
	}
	if err := s.LoadImage(data); err != nil {
		return false, err
	}
	return true, nil
}

// LoadPath loads an image file from disk.
func (s *State) LoadPath(path string) (bool, error) {
	data, ok, err := s.capturer.CaptureFile(path)
	if err != nil {
		s.Emit(EventImageRejected, err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := s.LoadImage(data); err != nil {
		return false, err
	}
	return true, nil
}

// Nudge moves the image one step in dir.
func (s *State) Nudge(dir geometry.Direction) {
	s.mu.Lock()
	changed := s.session.Nudge(dir)
	t, _ := s.session.CurrentTransform()
	s.mu.Unlock()
	if changed {
		s.Emit(EventTransformChanged, t)
	}
}

// Zoom changes the scale by delta.
func (s *State) Zoom(delta float64) {
	s.mu.Lock()
	changed := s.session.Zoom(delta)
	t, _ := s.session.CurrentTransform()
	s.mu.Unlock()
	if changed {
		s.Emit(EventTransformChanged, t)
	}
}

// ZoomIn zooms in by the configured step.
func (s *State) ZoomIn() {
	s.Zoom(s.session.Config().ZoomStep)
}

// ZoomOut zooms out by the configured step.
func (s *State) ZoomOut() {
	s.Zoom(-s.session.Config().ZoomStep)
}

// Reset discards the session image.
func (s *State) Reset() {
	s.mu.Lock()
	had := s.session.State() == placement.StateLoaded
	s.session.Reset()
	s.mu.Unlock()
	if had {
		s.Emit(EventSessionReset, nil)
	}
}

// SetOverlay replaces the outline template.
func (s *State) SetOverlay(img image.Image) {
	s.mu.Lock()
	s.overlay = img
	s.mu.Unlock()
	s.Emit(EventOverlayChanged, img)
}

// LoadOverlayFile reads the outline template from disk.
func (s *State) LoadOverlayFile(path string) error {
	img, err := fitimage.LoadOverlay(path, s.Viewport())
	if err != nil {
		return err
	}
	s.SetOverlay(img)
	return nil
}

// Render composites the current placement into a viewport-sized image.
func (s *State) Render() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewport := s.session.Config().Viewport
	overlay := fitimage.OverlayLayer(s.overlay, viewport, s.cfg.Overlay.Opacity, s.backdrop)
	t, ok := s.session.CurrentTransform()
	if !ok {
		return fitimage.RenderPlacement(viewport, nil, t, overlay)
	}
	return fitimage.RenderPlacement(viewport, s.session.Asset(), t, overlay)
}

// Creating reports whether a product creation is in flight.
func (s *State) Creating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creating
}

// LastProduct returns the most recently created product, or nil.
func (s *State) LastProduct() *shopify.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastProduct
}

// ErrProductBusy is returned while another creation is in flight.
var ErrProductBusy = errors.New("product creation already in progress")

// ErrNoShop is returned when no shop client is configured.
var ErrNoShop = errors.New("no shop configured")

// CreateSampleProduct creates a randomly colored sample product and prices
// its first variant.
func (s *State) CreateSampleProduct(ctx context.Context) (*shopify.Result, error) {
	if s.creator == nil {
		s.Emit(EventProductFailed, ErrNoShop)
		return nil, ErrNoShop
	}

	s.mu.Lock()
	if s.creating {
		s.mu.Unlock()
		return nil, ErrProductBusy
	}
	s.creating = true
	sp := s.cfg.SampleProduct
	title := shopify.SampleTitle(s.rng, sp.Colors, sp.Noun)
	s.mu.Unlock()

	s.Emit(EventProductCreating, title)
	result, err := s.creator.CreateSampleProduct(ctx, title, sp.Price)

	s.mu.Lock()
	s.creating = false
	if err == nil {
		s.lastProduct = result
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("sample product failed", zap.String("title", title), zap.Error(err))
		s.Emit(EventProductFailed, err)
		return nil, fmt.Errorf("create sample product: %w", err)
	}

	s.logger.Info("sample product created",
		zap.String("product", result.Product.ID),
		zap.String("title", result.Product.Title))
	s.Emit(EventProductCreated, result)
	return result, nil
}
