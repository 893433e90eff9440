package app

import (
	"image/color"

	"outline-fit/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// OutlineFitTheme is the application theme. The primary color matches the
// upload button of the storefront modal.
type OutlineFitTheme struct{}

var _ fyne.Theme = (*OutlineFitTheme)(nil)

func (t *OutlineFitTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Brand
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Brand, 0x40)
	case theme.ColorNameOverlayBackground:
		if variant == theme.VariantLight {
			return colorutil.White
		}
		return theme.DefaultTheme().Color(name, variant)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *OutlineFitTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *OutlineFitTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *OutlineFitTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 5
	default:
		return theme.DefaultTheme().Size(name)
	}
}
