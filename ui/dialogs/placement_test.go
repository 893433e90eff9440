package dialogs

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"outline-fit/internal/app"
	"outline-fit/internal/config"
	"outline-fit/internal/i18n"
	"outline-fit/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestDialog(t *testing.T) (*PlacementDialog, *app.State) {
	t.Helper()
	test.NewApp()
	win := test.NewWindow(widget.NewLabel(""))
	win.Resize(fyne.NewSize(900, 800))
	t.Cleanup(win.Close)

	logger := zaptest.NewLogger(t)
	state := app.NewState(config.DefaultConfig(), nil, logger)
	return NewPlacementDialog(state, win, i18n.New("ja"), nil, logger), state
}

// controls returns the buttons that only work with an image loaded.
func (d *PlacementDialog) controls() []*widget.Button {
	return append(append(append([]*widget.Button{}, d.nudges...), d.zooms...), d.upload)
}

func TestPlacementDialog_EmptyStateDisablesControls(t *testing.T) {
	d, state := newTestDialog(t)

	assert.Equal(t, "画像の選択", d.choose.Text)
	assert.Equal(t, "画像が選択されていません", d.status.Text)
	for _, b := range d.controls() {
		assert.True(t, b.Disabled())
	}
	assert.False(t, d.choose.Disabled())
	assert.False(t, d.cancel.Disabled())

	test.Tap(d.zooms[0])
	test.Tap(d.nudges[0])
	_, ok := state.Transform()
	assert.False(t, ok)
}

func TestPlacementDialog_LoadEnablesAdjustments(t *testing.T) {
	d, state := newTestDialog(t)
	require.NoError(t, state.LoadImage(pngBytes(t, 1000, 400)))

	assert.Equal(t, "画像を変更", d.choose.Text)
	for _, b := range d.controls() {
		assert.False(t, b.Disabled())
	}

	// Pad order is up, left, right, down.
	test.Tap(d.nudges[2])
	test.Tap(d.nudges[2])
	test.Tap(d.zooms[0])
	test.Tap(d.zooms[0])
	test.Tap(d.zooms[0])

	tr, ok := state.Transform()
	require.True(t, ok)
	assert.Equal(t, geometry.Transform{Position: geometry.Offset{Top: 0, Left: -260}, Scale: 1.3}, tr)
	assert.Equal(t, "位置 0.0, -260.0 / 倍率 1.3", d.status.Text)

	test.Tap(d.zooms[1])
	tr, _ = state.Transform()
	assert.Equal(t, 1.2, tr.Scale)
}

func TestPlacementDialog_UploadKeepsSession(t *testing.T) {
	d, state := newTestDialog(t)
	state.OpenModal()
	require.NoError(t, state.LoadImage(pngBytes(t, 300, 300)))

	test.Tap(d.upload)
	assert.False(t, state.ModalVisible())
	assert.True(t, state.HasImage())
	assert.Equal(t, "画像を変更", d.choose.Text)
}

func TestPlacementDialog_CancelResetsSession(t *testing.T) {
	d, state := newTestDialog(t)
	state.OpenModal()
	require.NoError(t, state.LoadImage(pngBytes(t, 300, 300)))

	test.Tap(d.cancel)
	assert.False(t, state.ModalVisible())
	assert.False(t, state.HasImage())
	assert.Equal(t, "画像の選択", d.choose.Text)
	assert.True(t, d.upload.Disabled())
}

func TestPlacementDialog_RejectedImageKeepsEmptyState(t *testing.T) {
	d, state := newTestDialog(t)
	state.OpenModal()

	assert.Error(t, state.LoadImage([]byte("not an image")))
	assert.False(t, state.HasImage())
	assert.True(t, d.upload.Disabled())
	assert.True(t, state.ModalVisible())
}
