// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"

	"outline-fit/internal/app"
	"outline-fit/internal/i18n"
	"outline-fit/internal/upload"
	"outline-fit/pkg/geometry"
	"outline-fit/ui/canvas"
	"outline-fit/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// PlacementDialog is the upload modal: the outline preview, the image
// picker, the nudge pad and the zoom buttons.
type PlacementDialog struct {
	state  *app.State
	window fyne.Window
	tr     *i18n.Printer
	prefs  *prefs.Prefs
	logger *zap.Logger

	dlg    *dialog.CustomDialog
	canvas *canvas.PlacementCanvas
	choose *widget.Button
	status *widget.Label
	nudges []*widget.Button
	zooms  []*widget.Button
	upload *widget.Button
	cancel *widget.Button
}

// NewPlacementDialog creates the modal and subscribes it to state events.
func NewPlacementDialog(state *app.State, window fyne.Window, tr *i18n.Printer, p *prefs.Prefs, logger *zap.Logger) *PlacementDialog {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &PlacementDialog{
		state:  state,
		window: window,
		tr:     tr,
		prefs:  p,
		logger: logger.Named("modal"),
	}
	d.build()

	state.On(app.EventModalChanged, func(data interface{}) {
		if data.(bool) {
			d.dlg.Show()
		} else {
			d.dlg.Hide()
		}
	})
	redraw := func(interface{}) { d.refresh() }
	state.On(app.EventImageLoaded, redraw)
	state.On(app.EventTransformChanged, redraw)
	state.On(app.EventSessionReset, redraw)
	state.On(app.EventOverlayChanged, redraw)
	state.On(app.EventImageRejected, func(data interface{}) {
		err, _ := data.(error)
		d.showRejected(err)
	})
	return d
}

func (d *PlacementDialog) build() {
	d.canvas = canvas.NewPlacementCanvas(d.state)
	d.canvas.OnZoom(func(in bool) {
		if in {
			d.state.ZoomIn()
		} else {
			d.state.ZoomOut()
		}
	})
	d.canvas.OnNudge(d.state.Nudge)
	d.canvas.OnTap(func(vx, vy float64) {
		if x, y, ok := d.state.ImagePixelAt(vx, vy); ok {
			d.status.SetText(d.tr.T(i18n.PixelStatus, x, y))
		}
	})

	heading := widget.NewLabelWithStyle(d.tr.T(i18n.UploadHeading), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle(d.tr.T(i18n.FitHint), fyne.TextAlignCenter, fyne.TextStyle{})
	hint.Wrapping = fyne.TextWrapWord

	d.choose = widget.NewButtonWithIcon(d.tr.T(i18n.ChooseImage), theme.FolderOpenIcon(), d.openFile)
	d.status = widget.NewLabelWithStyle(d.tr.T(i18n.NoImage), fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})

	nudge := func(icon fyne.Resource, dir geometry.Direction) *widget.Button {
		b := widget.NewButtonWithIcon("", icon, func() { d.state.Nudge(dir) })
		d.nudges = append(d.nudges, b)
		return b
	}
	up := nudge(theme.MoveUpIcon(), geometry.DirectionUp)
	left := nudge(theme.NavigateBackIcon(), geometry.DirectionLeft)
	right := nudge(theme.NavigateNextIcon(), geometry.DirectionRight)
	down := nudge(theme.MoveDownIcon(), geometry.DirectionDown)
	pad := container.NewGridWithColumns(3,
		widget.NewLabel(""), up, widget.NewLabel(""),
		left, widget.NewLabel(""), right,
		widget.NewLabel(""), down, widget.NewLabel(""),
	)

	zoomIn := widget.NewButtonWithIcon(d.tr.T(i18n.ZoomIn), theme.ZoomInIcon(), d.state.ZoomIn)
	zoomOut := widget.NewButtonWithIcon(d.tr.T(i18n.ZoomOut), theme.ZoomOutIcon(), d.state.ZoomOut)
	d.zooms = []*widget.Button{zoomIn, zoomOut}

	d.upload = widget.NewButton(d.tr.T(i18n.Upload), d.state.CloseModal)
	d.upload.Importance = widget.HighImportance
	d.cancel = widget.NewButton(d.tr.T(i18n.Cancel), d.state.CancelModal)

	controls := container.NewVBox(
		d.choose,
		container.NewCenter(pad),
		container.NewGridWithColumns(2, zoomIn, zoomOut),
	)
	content := container.NewBorder(
		container.NewVBox(heading, hint),
		container.NewVBox(d.status, container.NewGridWithColumns(2, d.cancel, d.upload)),
		nil,
		controls,
		d.canvas,
	)

	d.dlg = dialog.NewCustomWithoutButtons(d.tr.T(i18n.SelectImage), content, d.window)
	vp := d.state.Viewport()
	d.dlg.Resize(fyne.NewSize(float32(vp.Width)+260, float32(vp.Height)+220))
	d.refresh()
}

// refresh syncs the controls with the session.
func (d *PlacementDialog) refresh() {
	loaded := d.state.HasImage()
	for _, b := range append(append([]*widget.Button{}, d.nudges...), d.zooms...) {
		if loaded {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	if loaded {
		d.choose.SetText(d.tr.T(i18n.ChangeImage))
		d.upload.Enable()
	} else {
		d.choose.SetText(d.tr.T(i18n.ChooseImage))
		d.upload.Disable()
	}

	if t, ok := d.state.Transform(); ok {
		d.status.SetText(d.tr.T(i18n.TransformStatus, t.Position.Top, t.Position.Left, t.Scale))
	} else {
		d.status.SetText(d.tr.T(i18n.NoImage))
	}
	d.canvas.Invalidate()
}

func (d *PlacementDialog) openFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		uri := reader.URI()
		if d.prefs != nil {
			if dir, err := storage.Parent(uri); err == nil {
				d.prefs.SetLastDirectory(dir.Path())
			}
		}
		mime := uri.MimeType()
		if mime == "" {
			mime = upload.MIMETypeForPath(uri.Path())
		}
		if _, err := d.state.LoadFile(reader, mime); err != nil {
			d.logger.Warn("load image", zap.String("uri", uri.String()), zap.Error(err))
		}
	}, d.window)
	fd.SetFilter(storage.NewExtensionFileFilter(upload.SupportedExtensions()))
	if d.prefs != nil {
		if dir := d.prefs.LastDirectory(); dir != "" {
			if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
				fd.SetLocation(lister)
			}
		}
	}
	fd.Resize(fyne.NewSize(700, 500))
	fd.Show()
}

func (d *PlacementDialog) showRejected(err error) {
	msg := d.tr.T(i18n.ImageRejected)
	if errors.Is(err, upload.ErrTooLarge) {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	dialog.ShowInformation(d.tr.T(i18n.UploadHeading), msg, d.window)
}
