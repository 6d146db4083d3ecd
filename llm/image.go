package llm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the formats the resizer understands.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// jpegQuality is used when re-encoding resized images for the vision model.
const jpegQuality = 85

// ResizeImage downscales an image to maxWidth, preserving aspect ratio, and
// re-encodes it as JPEG. Vision prompts do not need full-resolution input and
// base64 payloads grow quickly, so everything is bounded before upload.
// A maxWidth of 0, or an image already narrower than maxWidth, skips the
// resize but still normalizes to JPEG.
func ResizeImage(data []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()

	if maxWidth <= 0 || width <= maxWidth {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode to jpeg: %w", err)
		}
		return buf.Bytes(), nil
	}

	aspect := float64(bounds.Dy()) / float64(width)
	height := uint(float64(maxWidth) * aspect)

	resized := resize.Resize(uint(maxWidth), height, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// EncodeImageDataURI reads an image file and returns it as a base64 data URI
// suitable for an OpenAI-compatible vision request. Formats the resizer can
// decode (JPEG, PNG, GIF) are downscaled first; anything else (WebP, BMP,
// TIFF) is embedded as-is with its original MIME type and left for the model
// server to handle.
func EncodeImageDataURI(path string, maxWidth int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	if resized, err := ResizeImage(data, maxWidth); err == nil {
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized), nil
	}

	mime := mimeForExtension(filepath.Ext(path))
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// mimeForExtension maps an image extension to its MIME type.
func mimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
