package encode

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Encoder encodes an image into output bytes.
type Encoder interface {
	// Encode encodes an image to bytes in the output format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "jpeg", "png", "webp").
	Format() string

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return newWebPEncoder(quality)
	default:
		return nil, fmt.Errorf("unsupported output format: %q (supported: jpeg, png, webp)", format)
	}
}

// FormatForPath infers the output format from a file name's extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("cannot infer output format from %q (supported: .jpg, .jpeg, .png, .webp)", path)
	}
}
