package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"outline-fit/internal/config"
	"outline-fit/internal/shopify"
	"outline-fit/internal/upload"
	"outline-fit/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCreator struct {
	titles []string
	prices []string
	err    error
}

func (f *fakeCreator) CreateSampleProduct(ctx context.Context, title, price string) (*shopify.Result, error) {
	f.titles = append(f.titles, title)
	f.prices = append(f.prices, price)
	if f.err != nil {
		return nil, f.err
	}
	return &shopify.Result{
		Product: shopify.Product{ID: "gid://shopify/Product/42", Title: title},
		Variant: []shopify.Variant{{ID: "gid://shopify/ProductVariant/7", Price: price}},
	}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestState(t *testing.T, creator ProductCreator) *State {
	t.Helper()
	return NewState(config.DefaultConfig(), creator, zaptest.NewLogger(t))
}

func TestState_ModalToggle(t *testing.T) {
	s := newTestState(t, nil)

	var seen []bool
	s.On(EventModalChanged, func(data interface{}) { seen = append(seen, data.(bool)) })

	s.ToggleModal()
	assert.True(t, s.ModalVisible())
	s.OpenModal()
	s.ToggleModal()
	assert.False(t, s.ModalVisible())
	assert.Equal(t, []bool{true, false}, seen)
}

func TestState_LoadAndAdjust(t *testing.T) {
	s := newTestState(t, nil)

	var transforms []geometry.Transform
	s.On(EventTransformChanged, func(data interface{}) {
		transforms = append(transforms, data.(geometry.Transform))
	})

	require.NoError(t, s.LoadImage(pngBytes(t, 1000, 400)))
	assert.True(t, s.HasImage())

	s.Nudge(geometry.DirectionRight)
	s.Nudge(geometry.DirectionRight)
	s.ZoomIn()
	s.ZoomIn()
	s.ZoomIn()

	got, ok := s.Transform()
	require.True(t, ok)
	assert.Equal(t, geometry.Offset{Top: 0, Left: -260}, got.Position)
	assert.Equal(t, 1.3, got.Scale)
	assert.Len(t, transforms, 6)

	s.ZoomOut()
	got, _ = s.Transform()
	assert.Equal(t, 1.2, got.Scale)
}

func TestState_ImagePixelAt(t *testing.T) {
	s := newTestState(t, nil)
	_, _, ok := s.ImagePixelAt(200, 200)
	assert.False(t, ok)

	// 1000x400 sits at left -300, so viewport x 200 shows image x 500.
	require.NoError(t, s.LoadImage(pngBytes(t, 1000, 400)))
	x, y, ok := s.ImagePixelAt(200.5, 100.5)
	require.True(t, ok)
	assert.Equal(t, []int{500, 100}, []int{x, y})

	require.NoError(t, s.LoadImage(pngBytes(t, 400, 400)))
	for i := 0; i < 10; i++ {
		s.ZoomIn()
	}
	x, y, ok = s.ImagePixelAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, []int{100, 100}, []int{x, y})
	x, y, ok = s.ImagePixelAt(201, 201)
	require.True(t, ok)
	assert.Equal(t, []int{200, 200}, []int{x, y})

	// Zoomed out to half size the corners of the viewport miss the image.
	require.NoError(t, s.LoadImage(pngBytes(t, 400, 400)))
	for i := 0; i < 5; i++ {
		s.ZoomOut()
	}
	_, _, ok = s.ImagePixelAt(10, 10)
	assert.False(t, ok)
}

func TestState_AdjustWithoutImageIsSilent(t *testing.T) {
	s := newTestState(t, nil)

	fired := false
	s.On(EventTransformChanged, func(interface{}) { fired = true })
	s.Nudge(geometry.DirectionUp)
	s.ZoomIn()

	assert.False(t, fired)
	_, ok := s.Transform()
	assert.False(t, ok)
}

func TestState_LoadImageRejected(t *testing.T) {
	s := newTestState(t, nil)

	var rejected error
	s.On(EventImageRejected, func(data interface{}) { rejected = data.(error) })

	err := s.LoadImage([]byte("not an image"))
	assert.Error(t, err)
	assert.Equal(t, err, rejected)
	assert.False(t, s.HasImage())
}

func TestState_OversizedImageKeepsSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Upload.MaxPixels = 100 * 100
	s := NewState(cfg, nil, zaptest.NewLogger(t))

	require.NoError(t, s.LoadImage(pngBytes(t, 100, 100)))
	s.Nudge(geometry.DirectionLeft)
	before, _ := s.Transform()

	err := s.LoadImage(pngBytes(t, 101, 100))
	assert.ErrorIs(t, err, upload.ErrTooManyPixels)
	after, ok := s.Transform()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestState_LoadFileIgnoresNonImages(t *testing.T) {
	s := newTestState(t, nil)

	loaded, err := s.LoadFile(strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.False(t, s.HasImage())

	loaded, err = s.LoadFile(bytes.NewReader(pngBytes(t, 10, 10)), "image/png")
	require.NoError(t, err)
	assert.True(t, loaded)
}

func TestState_LoadPath(t *testing.T) {
	s := newTestState(t, nil)
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 20, 10), 0o644))

	loaded, err := s.LoadPath(path)
	require.NoError(t, err)
	assert.True(t, loaded)

	_, err = s.LoadPath(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestState_CancelResetsUploadKeeps(t *testing.T) {
	s := newTestState(t, nil)
	s.OpenModal()
	require.NoError(t, s.LoadImage(pngBytes(t, 10, 10)))

	s.CloseModal()
	assert.True(t, s.HasImage())

	resets := 0
	s.On(EventSessionReset, func(interface{}) { resets++ })
	s.OpenModal()
	s.CancelModal()
	assert.False(t, s.ModalVisible())
	assert.False(t, s.HasImage())
	assert.Equal(t, 1, resets)
}

func TestState_RenderWithoutImage(t *testing.T) {
	s := newTestState(t, nil)
	out := s.Render()
	assert.Equal(t, image.Rect(0, 0, 400, 400), out.Bounds())
}

func TestState_SetOverlay(t *testing.T) {
	s := newTestState(t, nil)

	changed := 0
	s.On(EventOverlayChanged, func(interface{}) { changed++ })

	black := image.NewRGBA(image.Rect(0, 0, 400, 400))
	draw.Draw(black, black.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	s.SetOverlay(black)
	assert.Equal(t, 1, changed)

	// An opaque black overlay at 70% leaves little of the white background.
	r, _, _, _ := s.Render().At(200, 200).RGBA()
	assert.Less(t, r>>8, uint32(0x80))
}

func TestState_CreateSampleProduct(t *testing.T) {
	creator := &fakeCreator{}
	s := newTestState(t, creator)

	var created *shopify.Result
	s.On(EventProductCreated, func(data interface{}) { created = data.(*shopify.Result) })

	result, err := s.CreateSampleProduct(context.Background())
	require.NoError(t, err)
	assert.Same(t, result, created)
	assert.Same(t, result, s.LastProduct())
	assert.False(t, s.Creating())

	require.Len(t, creator.titles, 1)
	assert.True(t, strings.HasSuffix(creator.titles[0], " Snowboard"))
	assert.Contains(t, shopify.SampleColors, strings.TrimSuffix(creator.titles[0], " Snowboard"))
	assert.Equal(t, []string{"100.00"}, creator.prices)
}

func TestState_CreateSampleProductFailure(t *testing.T) {
	boom := errors.New("boom")
	s := newTestState(t, &fakeCreator{err: boom})

	var failed error
	s.On(EventProductFailed, func(data interface{}) { failed = data.(error) })

	_, err := s.CreateSampleProduct(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, boom, failed)
	assert.Nil(t, s.LastProduct())
	assert.False(t, s.Creating())
}

func TestState_CreateSampleProductNoShop(t *testing.T) {
	s := newTestState(t, nil)
	_, err := s.CreateSampleProduct(context.Background())
	assert.ErrorIs(t, err, ErrNoShop)
}
