// Package i18n holds the UI label catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	AppTitle        = "Photo upload and size adjustment"
	SelectImage     = "Select image"
	ChangeImage     = "Change image"
	ChooseImage     = "Choose an image"
	UploadHeading   = "Upload image"
	FitHint         = "Fit the photo to about the size of the body outline"
	ZoomIn          = "Zoom in"
	ZoomOut         = "Zoom out"
	Upload          = "Upload"
	Cancel          = "Cancel"
	CreateProduct   = "Create sample product"
	ProductCreated  = "Product created"
	ProductFailed   = "Product creation failed"
	ImageRejected   = "The file could not be read as an image"
	NoImage         = "No image selected"
	TransformStatus = "Position %.1f, %.1f / Scale %.1f"
	PixelStatus     = "Image pixel %d, %d"
)

var japanese = map[string]string{
	AppTitle:        "画像アップロード及びサイズ調整",
	SelectImage:     "画像を選択",
	ChangeImage:     "画像を変更",
	ChooseImage:     "画像の選択",
	UploadHeading:   "画像をアップロード",
	FitHint:         "人の枠程度の大きさに合わせてください",
	ZoomIn:          "拡大",
	ZoomOut:         "縮小",
	Upload:          "アップロード",
	Cancel:          "キャンセル",
	CreateProduct:   "サンプル商品を作成",
	ProductCreated:  "商品を作成しました",
	ProductFailed:   "商品の作成に失敗しました",
	ImageRejected:   "画像として読み込めませんでした",
	NoImage:         "画像が選択されていません",
	TransformStatus: "位置 %.1f, %.1f / 倍率 %.1f",
	PixelStatus:     "画像のピクセル %d, %d",
}

func init() {
	for key, text := range japanese {
		_ = message.SetString(language.Japanese, key, text)
	}
	for key := range japanese {
		_ = message.SetString(language.English, key, key)
	}
}

// Printer formats labels for one locale.
type Printer struct {
	p *message.Printer
}

// New returns a printer for a BCP 47 locale such as "ja" or "en-US".
// Unknown or malformed locales fall back to English.
func New(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	matcher := language.NewMatcher([]language.Tag{language.English, language.Japanese})
	_, idx, _ := matcher.Match(tag)
	supported := []language.Tag{language.English, language.Japanese}
	return &Printer{p: message.NewPrinter(supported[idx])}
}

// T returns the label for key, formatting any arguments.
func (p *Printer) T(key string, args ...interface{}) string {
	return p.p.Sprintf(key, args...)
}
