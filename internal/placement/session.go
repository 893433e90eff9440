// Package placement holds the state of one photo-fitting session: the chosen
// image, its centering offset, the accumulated pan and the zoom scale.
package placement

import (
	"outline-fit/internal/upload"
	"outline-fit/pkg/geometry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the session lifecycle state.
type State int

const (
	StateEmpty  State = iota // No image loaded
	StateLoaded              // Image decoded and placed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "Loaded"
	default:
		return "Empty"
	}
}

// Decoder turns raw file bytes into a decoded asset.
type Decoder interface {
	Decode(data []byte) (*upload.Asset, error)
}

// Config holds the fixed placement parameters of a session.
type Config struct {
	Viewport  geometry.Size
	NudgeStep int
	ZoomStep  float64
	ZoomMin   float64
	ZoomMax   float64
}

// DefaultConfig returns the 400x400 viewport configuration.
func DefaultConfig() Config {
	return Config{
		Viewport:  geometry.NewSize(geometry.DefaultViewportSize, geometry.DefaultViewportSize),
		NudgeStep: geometry.DefaultNudgeStep,
		ZoomStep:  geometry.DefaultZoomStep,
		ZoomMin:   geometry.DefaultZoomMin,
		ZoomMax:   geometry.DefaultZoomMax,
	}
}

// Session is a single-owner placement session. It is not safe for concurrent
// use.
type Session struct {
	cfg     Config
	decoder Decoder
	logger  *zap.Logger

	id      string
	asset   *upload.Asset
	initial geometry.Offset
	pan     geometry.Pan
	scale   float64
}

// NewSession creates an empty session. A nil decoder uses upload.Decoder and
// a nil logger discards output.
func NewSession(cfg Config, decoder Decoder, logger *zap.Logger) *Session {
	if decoder == nil {
		decoder = upload.Decoder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:     cfg,
		decoder: decoder,
		logger:  logger.Named("placement"),
		scale:   geometry.DefaultScale,
	}
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// LoadImage decodes data and replaces the current image. On failure the
// session is left untouched and the decoder error (an *upload.DecodeError for
// the default decoder) is returned.
func (s *Session) LoadImage(data []byte) error {
	asset, err := s.decoder.Decode(data)
	if err != nil {
		s.logger.Warn("image rejected", zap.String("session", s.id), zap.Error(err))
		return err
	}
	s.LoadAsset(asset)
	return nil
}

// LoadAsset places an already decoded asset, resetting pan and scale and
// recomputing the centering offset.
func (s *Session) LoadAsset(asset *upload.Asset) {
	s.id = uuid.NewString()
	s.asset = asset
	s.initial = geometry.ComputeInitialOffset(asset.Size(), s.cfg.Viewport)
	s.pan = geometry.Pan{}
	s.scale = geometry.DefaultScale

	s.logger.Info("image loaded",
		zap.String("session", s.id),
		zap.String("format", asset.Format),
		zap.Int("width", asset.Width),
		zap.Int("height", asset.Height),
		zap.Float64("offset_top", s.initial.Top),
		zap.Float64("offset_left", s.initial.Left))
}

// Nudge moves the image one step. Returns false in the Empty state or for an
// unrecognized direction.
func (s *Session) Nudge(dir geometry.Direction) bool {
	if s.asset == nil || dir == geometry.DirectionNone {
		return false
	}
	next := geometry.ApplyNudge(s.pan, dir, s.cfg.NudgeStep)
	changed := next != s.pan
	s.pan = next
	return changed
}

// Zoom adds delta to the scale, clamped to the configured bounds. Returns
// false in the Empty state or when the clamp leaves the scale unchanged.
func (s *Session) Zoom(delta float64) bool {
	if s.asset == nil {
		return false
	}
	next := geometry.ApplyZoomDelta(s.scale, delta, s.cfg.ZoomMin, s.cfg.ZoomMax)
	changed := next != s.scale
	s.scale = next
	return changed
}

// ZoomIn zooms by one configured step.
func (s *Session) ZoomIn() bool {
	return s.Zoom(s.cfg.ZoomStep)
}

// ZoomOut zooms by one negative configured step.
func (s *Session) ZoomOut() bool {
	return s.Zoom(-s.cfg.ZoomStep)
}

// CurrentTransform composes the render transform. ok is false when no image
// is loaded.
func (s *Session) CurrentTransform() (t geometry.Transform, ok bool) {
	if s.asset == nil {
		return geometry.Transform{}, false
	}
	return geometry.Compose(s.initial, s.pan, s.scale), true
}

// Reset discards the image and returns to the Empty state.
func (s *Session) Reset() {
	if s.asset != nil {
		s.logger.Info("session reset", zap.String("session", s.id))
	}
	s.id = ""
	s.asset = nil
	s.initial = geometry.Offset{}
	s.pan = geometry.Pan{}
	s.scale = geometry.DefaultScale
}

// State returns the lifecycle state.
func (s *Session) State() State {
	if s.asset == nil {
		return StateEmpty
	}
	return StateLoaded
}

// Asset returns the loaded image, or nil.
func (s *Session) Asset() *upload.Asset {
	return s.asset
}

// ID identifies the current image load; empty when no image is loaded.
func (s *Session) ID() string {
	return s.id
}

// InitialOffset returns the centering offset of the loaded image.
func (s *Session) InitialOffset() geometry.Offset {
	return s.initial
}

// Pan returns the accumulated nudge offset.
func (s *Session) Pan() geometry.Pan {
	return s.pan
}

// Scale returns the current scale factor.
func (s *Session) Scale() float64 {
	return s.scale
}
