// Package ocr provides text detection for medicine package photos.
//
// Two backends implement TextDetector:
//   - Google Cloud Vision TEXT_DETECTION (default)
//   - Google Document AI OCR processor
//
// Credentials are read from the environment:
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string, OR
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file
//   - Application Default Credentials as a last resort
//
// A detector performs exactly one remote call per image. An image on which
// the service finds no text yields ErrNoTextDetected; every other failure
// wraps ErrOCRFailed so callers can tell "retake the photo" apart from
// "service unavailable".
package ocr

import (
	"context"
	"time"
)

// MaxImageSizeBytes is the largest inline image accepted by the detectors (20MB).
const MaxImageSizeBytes = 20 * 1024 * 1024

// TextDetector extracts the text printed on an image.
type TextDetector interface {
	// DetectText returns the primary (full) text block detected in the image.
	DetectText(ctx context.Context, image []byte) (*Result, error)

	// Close releases the underlying client.
	Close() error
}

// Result contains the primary detected text and some metadata.
type Result struct {
	// Text is the full recognized text, taken from the first annotation.
	Text string `json:"text"`

	// Annotations is the number of annotations returned by the service.
	Annotations int `json:"annotations"`

	// Locale is the language hint reported for the primary block, if any.
	Locale string `json:"locale,omitempty"`

	// Provider names the backend that produced the result.
	Provider string `json:"provider"`

	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
}
