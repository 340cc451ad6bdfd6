package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbnailSettings bound the size and encoding of catalog thumbnails.
type ThumbnailSettings struct {
	MaxWidth  int
	MaxHeight int
	Format    string // "png" or "jpeg"
	Quality   int    // JPEG only
}

func DefaultThumbnailSettings() ThumbnailSettings {
	return ThumbnailSettings{MaxWidth: 240, MaxHeight: 240, Format: "png", Quality: 85}
}

// ThumbnailProcessor fits game thumbnails into a bounding box.
type ThumbnailProcessor struct {
	settings ThumbnailSettings
}

func NewThumbnailProcessor(settings ThumbnailSettings) *ThumbnailProcessor {
	return &ThumbnailProcessor{settings: settings}
}

// Fit decodes an image, scales it down to fit the box keeping its aspect
// ratio, and re-encodes it. Images already small enough are not scaled.
func (p *ThumbnailProcessor) Fit(input io.Reader) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := p.calculateDimensions(bounds.Dx(), bounds.Dy())
	if width != bounds.Dx() || height != bounds.Dy() {
		img = p.resize(img, width, height)
	}

	return p.encode(img)
}

func (p *ThumbnailProcessor) FitData(data []byte) ([]byte, error) {
	return p.Fit(bytes.NewReader(data))
}

func (p *ThumbnailProcessor) calculateDimensions(width, height int) (int, int) {
	if width <= p.settings.MaxWidth && height <= p.settings.MaxHeight {
		return width, height
	}

	scale := float64(p.settings.MaxWidth) / float64(width)
	if hs := float64(p.settings.MaxHeight) / float64(height); hs < scale {
		scale = hs
	}

	newWidth := max(int(float64(width)*scale), 1)
	newHeight := max(int(float64(height)*scale), 1)
	return newWidth, newHeight
}

func (p *ThumbnailProcessor) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func (p *ThumbnailProcessor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	switch p.settings.Format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.settings.Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png", "":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", p.settings.Format)
	}

	return buf.Bytes(), nil
}

// Extension returns the file extension matching the output format.
func (p *ThumbnailProcessor) Extension() string {
	if p.settings.Format == "jpeg" || p.settings.Format == "jpg" {
		return ".jpg"
	}
	return ".png"
}
