// Package config loads the YAML configuration shared by the desktop app and
// the command line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outline-fit/internal/placement"
	"outline-fit/internal/shopify"
	"outline-fit/pkg/colorutil"
	"outline-fit/pkg/geometry"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "outline-fit"
	configFileName = "config.yaml"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration.
type Config struct {
	Shop          ShopConfig          `yaml:"shop"`
	Placement     PlacementConfig     `yaml:"placement"`
	Overlay       OverlayConfig       `yaml:"overlay"`
	Upload        UploadConfig        `yaml:"upload"`
	SampleProduct SampleProductConfig `yaml:"sample_product"`
	Logging       LoggingConfig       `yaml:"logging"`
	UI            UIConfig            `yaml:"ui"`
}

// ShopConfig holds Admin API connection settings.
type ShopConfig struct {
	Domain      string        `yaml:"domain"`
	APIVersion  string        `yaml:"api_version"`
	AccessToken string        `yaml:"access_token"`
	Timeout     time.Duration `yaml:"timeout"`
	Endpoint    string        `yaml:"endpoint,omitempty"` // Overrides the URL built from Domain
}

// PlacementConfig holds the viewport and step sizes.
type PlacementConfig struct {
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	NudgeStep      int     `yaml:"nudge_step"`
	ZoomStep       float64 `yaml:"zoom_step"`
	ZoomMin        float64 `yaml:"zoom_min"`
	ZoomMax        float64 `yaml:"zoom_max"`
}

// OverlayConfig describes the body-outline template.
type OverlayConfig struct {
	Path     string  `yaml:"path"` // Empty uses the built-in outline
	Opacity  float64 `yaml:"opacity"`
	Backdrop string  `yaml:"backdrop"` // #RRGGBB
}

// UploadConfig limits captured files.
type UploadConfig struct {
	MaxBytes  int64 `yaml:"max_bytes"`
	MaxPixels int64 `yaml:"max_pixels"` // Width*height limit checked before decoding
}

// SampleProductConfig controls the generated sample product.
type SampleProductConfig struct {
	Price  string   `yaml:"price"`
	Colors []string `yaml:"colors"`
	Noun   string   `yaml:"noun"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // Empty disables the file sink
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale string `yaml:"locale"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Shop: ShopConfig{
			APIVersion: shopify.DefaultAPIVersion,
			Timeout:    30 * time.Second,
		},
		Placement: PlacementConfig{
			ViewportWidth:  geometry.DefaultViewportSize,
			ViewportHeight: geometry.DefaultViewportSize,
			NudgeStep:      geometry.DefaultNudgeStep,
			ZoomStep:       geometry.DefaultZoomStep,
			ZoomMin:        geometry.DefaultZoomMin,
			ZoomMax:        geometry.DefaultZoomMax,
		},
		Overlay: OverlayConfig{
			Opacity:  0.7,
			Backdrop: "#808080",
		},
		Upload: UploadConfig{
			MaxBytes:  20 << 20,
			MaxPixels: 50_000_000,
		},
		SampleProduct: SampleProductConfig{
			Price:  "100.00",
			Colors: append([]string(nil), shopify.SampleColors...),
			Noun:   "Snowboard",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			Locale: "ja",
		},
	}
}

// DefaultPath returns <UserConfigDir>/outline-fit/config.yaml.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDirName, configFileName)
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHOPIFY_SHOP"); v != "" {
		c.Shop.Domain = v
	}
	if v := os.Getenv("SHOPIFY_ACCESS_TOKEN"); v != "" {
		c.Shop.AccessToken = v
	}
	if v := os.Getenv("SHOPIFY_API_VERSION"); v != "" {
		c.Shop.APIVersion = v
	}
	if v := os.Getenv("OUTLINE_FIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	p := c.Placement
	switch {
	case p.ViewportWidth <= 0 || p.ViewportHeight <= 0:
		return fmt.Errorf("config: %w: viewport must be positive, got %dx%d", ErrInvalid, p.ViewportWidth, p.ViewportHeight)
	case p.NudgeStep <= 0:
		return fmt.Errorf("config: %w: nudge_step must be positive, got %d", ErrInvalid, p.NudgeStep)
	case p.ZoomStep <= 0:
		return fmt.Errorf("config: %w: zoom_step must be positive, got %g", ErrInvalid, p.ZoomStep)
	case p.ZoomMin > p.ZoomMax:
		return fmt.Errorf("config: %w: zoom_min %g exceeds zoom_max %g", ErrInvalid, p.ZoomMin, p.ZoomMax)
	case c.Upload.MaxPixels < 0:
		return fmt.Errorf("config: %w: upload max_pixels must not be negative, got %d", ErrInvalid, c.Upload.MaxPixels)
	case c.Overlay.Opacity < 0 || c.Overlay.Opacity > 1:
		return fmt.Errorf("config: %w: overlay opacity %g outside [0,1]", ErrInvalid, c.Overlay.Opacity)
	}
	if _, err := colorutil.ParseHex(c.Overlay.Backdrop); err != nil {
		return fmt.Errorf("config: %w: overlay backdrop: %v", ErrInvalid, err)
	}
	return nil
}

// SessionConfig converts the placement section for a session.
func (c *Config) SessionConfig() placement.Config {
	return placement.Config{
		Viewport:  geometry.NewSize(c.Placement.ViewportWidth, c.Placement.ViewportHeight),
		NudgeStep: c.Placement.NudgeStep,
		ZoomStep:  c.Placement.ZoomStep,
		ZoomMin:   c.Placement.ZoomMin,
		ZoomMax:   c.Placement.ZoomMax,
	}
}

// ShopifyConfig converts the shop section for the Admin API client.
func (c *Config) ShopifyConfig() shopify.Config {
	return shopify.Config{
		ShopDomain:  c.Shop.Domain,
		APIVersion:  c.Shop.APIVersion,
		AccessToken: c.Shop.AccessToken,
		Timeout:     c.Shop.Timeout,
		Endpoint:    c.Shop.Endpoint,
	}
}

// ShopConfigured reports whether enough shop settings are present to call the
// Admin API.
func (c *Config) ShopConfigured() bool {
	return (c.Shop.Domain != "" || c.Shop.Endpoint != "") && c.Shop.AccessToken != ""
}
