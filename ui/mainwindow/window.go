// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"outline-fit/internal/app"
	"outline-fit/internal/i18n"
	fitimage "outline-fit/internal/image"
	"outline-fit/internal/shopify"
	"outline-fit/internal/upload"
	"outline-fit/internal/version"
	"outline-fit/ui/dialogs"
	"outline-fit/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	tr     *i18n.Printer
	logger *zap.Logger

	modal     *dialogs.PlacementDialog
	preview   *fynecanvas.Image
	selectBtn *widget.Button
	createBtn *widget.Button
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, tr *i18n.Printer, logger *zap.Logger) *MainWindow {
	if logger == nil {
		logger = zap.NewNop()
	}
	win := fyneApp.NewWindow(tr.T(i18n.AppTitle))

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		tr:     tr,
		logger: logger.Named("window"),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	w, h := p.WindowSize()
	mw.Resize(fyne.NewSize(w, h))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.modal = dialogs.NewPlacementDialog(mw.state, mw.Window, mw.tr, mw.prefs, mw.logger)

	mw.preview = fynecanvas.NewImageFromImage(mw.state.Render())
	mw.preview.FillMode = fynecanvas.ImageFillContain
	mw.preview.SetMinSize(fyne.NewSize(200, 200))

	mw.selectBtn = widget.NewButtonWithIcon(mw.tr.T(i18n.SelectImage), theme.FileImageIcon(), mw.state.ToggleModal)
	mw.createBtn = widget.NewButtonWithIcon(mw.tr.T(i18n.CreateProduct), theme.ContentAddIcon(), mw.onCreateProduct)
	mw.createBtn.Importance = widget.HighImportance

	mw.statusBar = widget.NewLabel(mw.tr.T(i18n.NoImage))

	heading := widget.NewLabelWithStyle(mw.tr.T(i18n.AppTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	content := container.NewBorder(
		heading,
		container.NewPadded(mw.statusBar),
		nil,
		container.NewVBox(mw.selectBtn, mw.createBtn),
		mw.preview,
	)
	mw.SetContent(container.NewPadded(content))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem(mw.tr.T(i18n.SelectImage), mw.state.OpenModal),
		fyne.NewMenuItem("Export Placement...", mw.onExport),
	)
	shopMenu := fyne.NewMenu("Shop",
		fyne.NewMenuItem(mw.tr.T(i18n.CreateProduct), mw.onCreateProduct),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, shopMenu, helpMenu))
}

// setupEventHandlers subscribes to state events and window callbacks.
func (mw *MainWindow) setupEventHandlers() {
	refreshPreview := func(interface{}) {
		mw.preview.Image = mw.state.Render()
		mw.preview.Refresh()
		if t, ok := mw.state.Transform(); ok {
			mw.updateStatus(mw.tr.T(i18n.TransformStatus, t.Position.Top, t.Position.Left, t.Scale))
		} else {
			mw.updateStatus(mw.tr.T(i18n.NoImage))
		}
	}
	mw.state.On(app.EventTransformChanged, refreshPreview)
	mw.state.On(app.EventSessionReset, refreshPreview)
	mw.state.On(app.EventOverlayChanged, refreshPreview)

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if asset, ok := data.(*upload.Asset); ok {
			mw.selectBtn.SetText(mw.tr.T(i18n.ChangeImage))
			mw.logger.Debug("image loaded", zap.String("format", asset.Format), zap.Stringer("size", asset.Size()))
		}
	})
	mw.state.On(app.EventSessionReset, func(interface{}) {
		mw.selectBtn.SetText(mw.tr.T(i18n.SelectImage))
	})

	mw.state.On(app.EventProductCreating, func(data interface{}) {
		mw.createBtn.Disable()
		mw.updateStatus(fmt.Sprintf("%s: %v", mw.tr.T(i18n.CreateProduct), data))
	})
	mw.state.On(app.EventProductCreated, func(data interface{}) {
		mw.createBtn.Enable()
		result := data.(*shopify.Result)
		msg := fmt.Sprintf("%s (%s #%s)", mw.tr.T(i18n.ProductCreated), result.Product.Title, shopify.NumericID(result.Product.ID))
		mw.updateStatus(msg)
		mw.app.SendNotification(fyne.NewNotification(mw.tr.T(i18n.AppTitle), msg))
	})
	mw.state.On(app.EventProductFailed, func(data interface{}) {
		mw.createBtn.Enable()
		err, _ := data.(error)
		mw.updateStatus(mw.tr.T(i18n.ProductFailed))
		dialog.ShowError(fmt.Errorf("%s: %w", mw.tr.T(i18n.ProductFailed), err), mw.Window)
	})

	// Dropping an image opens the modal with it loaded.
	mw.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, uri := range uris {
			if mw.loadURI(uri) {
				mw.state.OpenModal()
				return
			}
		}
	})

	mw.SetCloseIntercept(func() {
		size := mw.Canvas().Size()
		mw.prefs.SetWindowSize(size.Width, size.Height)
		if err := mw.prefs.Save(); err != nil {
			mw.logger.Warn("save preferences", zap.Error(err))
		}
		mw.Close()
	})
}

// loadURI reads a dropped file. Non-image files are skipped.
func (mw *MainWindow) loadURI(uri fyne.URI) bool {
	mime := uri.MimeType()
	if mime == "" {
		mime = upload.MIMETypeForPath(uri.Path())
	}
	if !upload.IsImageMIME(mime) {
		return false
	}
	reader, err := storage.Reader(uri)
	if err != nil {
		mw.logger.Warn("open dropped file", zap.String("uri", uri.String()), zap.Error(err))
		return false
	}
	defer reader.Close()

	loaded, err := mw.state.LoadFile(reader, mime)
	if err != nil {
		mw.logger.Warn("load dropped file", zap.String("uri", uri.String()), zap.Error(err))
	}
	return loaded
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onCreateProduct() {
	timeout := mw.state.Config().Shop.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Failures are reported through EventProductFailed.
		_, _ = mw.state.CreateSampleProduct(ctx)
	}()
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		img := mw.state.Render()
		name := writer.URI().Name()
		if strings.EqualFold(filepath.Ext(name), ".webp") {
			err = fitimage.EncodeWebP(writer, img)
		} else {
			err = fitimage.EncodePNG(writer, img)
		}
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus(fmt.Sprintf("Exported %s", name))
	}, mw.Window)
	fd.SetFileName("placement.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".webp"}))
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s\n\n%s", mw.tr.T(i18n.AppTitle), version.String()),
		mw.Window)
}
