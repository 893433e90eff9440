// Package main provides the entry point for the outline-fit desktop application.
package main

import (
	"os"

	"outline-fit/internal/app"
	"outline-fit/internal/cli"
	"outline-fit/internal/config"
	"outline-fit/internal/i18n"
	"outline-fit/internal/shopify"
	"outline-fit/internal/version"
	"outline-fit/ui/mainwindow"
	"outline-fit/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"
)

const appID = "io.github.outlinefit"

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(runGUI)))
}

// runGUI opens the main window and blocks until it is closed.
func runGUI(cfg *config.Config, configPath string, logger *zap.Logger) error {
	logger.Info("starting", zap.String("version", version.Version), zap.String("config", configPath))

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.OutlineFitTheme{})

	var creator app.ProductCreator
	if cfg.ShopConfigured() {
		creator = shopify.NewClient(cfg.ShopifyConfig(), logger)
	} else {
		logger.Warn("shop not configured; product creation disabled")
	}

	state := app.NewState(cfg, creator, logger)
	if path := cfg.Overlay.Path; path != "" {
		if err := state.LoadOverlayFile(path); err != nil {
			logger.Warn("overlay not loaded, using built-in outline", zap.String("path", path), zap.Error(err))
		}
		stop := watchOverlay(state, path, logger)
		defer stop()
	}

	win := mainwindow.New(fyneApp, state, prefs.Load(), i18n.New(cfg.UI.Locale), logger)
	win.ShowAndRun()
	return nil
}

// watchOverlay reloads the outline template when the file changes on disk.
func watchOverlay(state *app.State, path string, logger *zap.Logger) func() {
	watcher, err := app.NewOverlayWatcher(path, logger)
	if err != nil {
		logger.Warn("overlay watcher unavailable", zap.Error(err))
		return func() {}
	}
	watcher.OnChange(func(p string) {
		if err := state.LoadOverlayFile(p); err != nil {
			logger.Warn("overlay reload failed", zap.String("path", p), zap.Error(err))
			return
		}
		logger.Info("overlay reloaded", zap.String("path", p))
	})
	if err := watcher.Start(); err != nil {
		logger.Warn("overlay watcher failed to start", zap.Error(err))
		watcher.Stop()
		return func() {}
	}
	return watcher.Stop
}
