package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxBytes caps a single captured file.
const DefaultMaxBytes = 20 << 20

// ErrTooLarge is returned when a captured file exceeds the size limit.
var ErrTooLarge = errors.New("image file too large")

// Capturer reads image files offered by the file picker or a drop.
type Capturer struct {
	MaxBytes int64 // 0 means DefaultMaxBytes
}

// IsImageMIME reports whether a declared MIME type is an image type.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// Capture reads the bytes of a file whose declared MIME type is mimeType.
// Non-image files are ignored: ok is false and no error is returned.
func (c Capturer) Capture(r io.Reader, mimeType string) (data []byte, ok bool, err error) {
	if !IsImageMIME(mimeType) {
		return nil, false, nil
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	data, err = io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, fmt.Errorf("upload: read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, false, fmt.Errorf("upload: %w (limit %d bytes)", ErrTooLarge, limit)
	}
	return data, true, nil
}

// CaptureFile reads an image file from disk, deriving its MIME type from the
// file extension.
func (c Capturer) CaptureFile(path string) ([]byte, bool, error) {
	mimeType := MIMETypeForPath(path)
	if !IsImageMIME(mimeType) {
		return nil, false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("upload: open %s: %w", path, err)
	}
	defer file.Close()

	return c.Capture(file, mimeType)
}

// MIMETypeForPath guesses a MIME type from a file extension.
func MIMETypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".tga":  "image/x-tga",
}

// SupportedExtensions returns the file extensions the decoder understands.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff", ".tga"}
}
