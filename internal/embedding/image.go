package embedding

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/kozaktomas/face-auth/internal/biometric"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MaxImageSize is the maximum dimension (width or height) sent to the extractor
	MaxImageSize = 1024

	jpegQuality = 95
)

// IsImageContentType reports whether a declared upload content type is an image type.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// Preprocess decodes an uploaded image, flattens it to RGB, shrinks it to fit
// within maxSize keeping the aspect ratio and re-encodes it as JPEG.
// Undecodable input yields an error wrapping biometric.ErrInvalidImage.
func Preprocess(data []byte, maxSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", biometric.ErrInvalidImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", biometric.ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", biometric.ErrInvalidImage)
	}

	newWidth, newHeight := width, height
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		if width > height {
			newWidth = maxSize
			newHeight = max(1, int(float64(height)*float64(maxSize)/float64(width)))
		} else {
			newHeight = maxSize
			newWidth = max(1, int(float64(width)*float64(maxSize)/float64(height)))
		}
	}

	// Drawing onto an opaque white canvas drops any alpha channel.
	rgb := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(rgb, rgb.Bounds(), image.White, image.Point{}, draw.Src)
	if newWidth == width && newHeight == height {
		draw.Draw(rgb, rgb.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(rgb, rgb.Bounds(), img, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
