package capture

import (
	"fmt"
	"image"
)

// TextExtractor is a placeholder text-recognition step. No OCR engine is
// wired in; it accepts an image and reports empty text so the automation
// sequence can treat extraction as a normal, non-fatal step.
type TextExtractor struct{}

// NewTextExtractor creates a new placeholder extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the recognized text and a confidence score.
// The placeholder always returns empty text with zero confidence.
func (t *TextExtractor) ExtractText(img image.Image) (string, float64, error) {
	if img == nil || img.Bounds().Empty() {
		return "", 0, fmt.Errorf("no image data to extract text from")
	}

	return "", 0, nil
}
