package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor handles image processing like resizing.
type ImageProcessor struct{}

// NewImageProcessor creates a new ImageProcessor.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// GenerateThumbnail creates a thumbnail from the source image.
// maxWidth and maxHeight define the bounding box for the thumbnail.
// It returns the thumbnail content as a JPEG.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	b, err := p.fit(content, maxWidth, maxHeight, 80)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// Resize bounds the image to maxWidth x maxHeight and re-encodes it as JPEG.
// Images already inside the box keep their size.
func (p *ImageProcessor) Resize(content io.Reader, maxWidth, maxHeight int) ([]byte, error) {
	return p.fit(content, maxWidth, maxHeight, 90)
}

func (p *ImageProcessor) fit(content io.Reader, maxWidth, maxHeight, quality int) ([]byte, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// imaging.Fit never upscales
	out := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
