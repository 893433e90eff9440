// Package upload turns raw files chosen through the picker or dropped onto the
// modal into decoded image assets.
package upload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"outline-fit/pkg/geometry"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrEmptyPayload is returned when there are no bytes to decode.
var ErrEmptyPayload = errors.New("empty image payload")

// ErrUnsupportedFormat is returned for payloads no decoder recognizes.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooManyPixels is returned when the declared dimensions exceed the limit.
var ErrTooManyPixels = errors.New("image dimensions too large")

// DefaultMaxPixels bounds width*height of a decoded image.
const DefaultMaxPixels = 50_000_000

// DecodeError reports bytes that could not be interpreted as a supported image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("upload: decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Asset is a decoded image together with its original payload.
type Asset struct {
	Data   []byte      // Raw file bytes, opaque to placement
	Image  image.Image // Decoded pixels
	Format string      // Detected encoding, e.g. "png"
	Width  int         // Natural width in pixels
	Height int         // Natural height in pixels
}

// Size returns the natural image dimensions.
func (a *Asset) Size() geometry.Size {
	return geometry.NewSize(a.Width, a.Height)
}

// Decoder decodes raw bytes into an Asset.
type Decoder struct {
	MaxPixels int64 // 0 means DefaultMaxPixels
}

// Decode implements placement.Decoder.
func (d Decoder) Decode(data []byte) (*Asset, error) {
	return DecodeLimited(data, d.MaxPixels)
}

type format struct {
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

// Formats are picked from the sniffed content type instead of relying on
// image.Decode, because the TGA format has no magic number and would shadow
// the other registered formats.
var formats = map[string]format{
	"png":  {png.Decode, png.DecodeConfig},
	"jpeg": {jpeg.Decode, jpeg.DecodeConfig},
	"gif":  {gif.Decode, gif.DecodeConfig},
	"bmp":  {bmp.Decode, bmp.DecodeConfig},
	"webp": {webp.Decode, webp.DecodeConfig},
	"tiff": {tiff.Decode, tiff.DecodeConfig},
	"tga":  {tga.Decode, tga.DecodeConfig},
}

// Decode decodes an image payload with the default pixel limit. Any failure
// is returned as *DecodeError.
func Decode(data []byte) (*Asset, error) {
	return DecodeLimited(data, DefaultMaxPixels)
}

// DecodeLimited decodes an image payload, rejecting images whose header
// declares more than maxPixels pixels before any pixel buffer is allocated.
func DecodeLimited(data []byte, maxPixels int64) (*Asset, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: ErrEmptyPayload}
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	name := sniffFormat(data)
	if name == "" {
		if !looksLikeTGA(data) {
			return nil, &DecodeError{Err: ErrUnsupportedFormat}
		}
		name = "tga"
	}
	f := formats[name]

	cfg, err := f.config(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%s: %w", name, err)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Err: fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)}
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)}
	}
	if name == "tga" {
		if err := checkTGALength(data, cfg); err != nil {
			return nil, &DecodeError{Err: err}
		}
	}

	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%s: %w", name, err)}
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, &DecodeError{Err: fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy())}
	}

	return &Asset{
		Data:   data,
		Image:  img,
		Format: name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// sniffFormat names the decoder for a payload with a magic number. TGA has
// none, so it is never returned here.
func sniffFormat(data []byte) string {
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "tiff"
	}
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/webp":
		return "webp"
	default:
		return ""
	}
}

const tgaHeaderSize = 18

// looksLikeTGA checks the fixed fields of a TGA header: color map type,
// image type and pixel depth must hold values the format defines.
func looksLikeTGA(data []byte) bool {
	if len(data) < tgaHeaderSize {
		return false
	}
	colorMapType, imageType, depth := data[1], data[2], data[16]
	if colorMapType > 1 {
		return false
	}
	switch imageType {
	case 1, 2, 3, 9, 10, 11:
	default:
		return false
	}
	switch depth {
	case 8, 15, 16, 24, 32:
	default:
		return false
	}
	return binary.LittleEndian.Uint16(data[12:]) > 0 && binary.LittleEndian.Uint16(data[14:]) > 0
}

// checkTGALength rejects payloads too short to hold the pixels their header
// declares. An RLE packet covers at most 128 pixels.
func checkTGALength(data []byte, cfg image.Config) error {
	pixels := int64(cfg.Width) * int64(cfg.Height)
	body := int64(len(data) - tgaHeaderSize - int(data[0]))

	var need int64
	if data[2]&8 != 0 {
		need = (pixels + 127) / 128
	} else {
		need = pixels * int64((int(data[16])+7)/8)
	}
	if body < need {
		return fmt.Errorf("tga: %dx%d image truncated (%d of %d bytes)", cfg.Width, cfg.Height, max(body, 0), need)
	}
	return nil
}
