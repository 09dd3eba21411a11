package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/gabriel-vasile/mimetype"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"bula/internal/gcpauth"
	"bula/internal/logger"
)

const providerDocumentAI = "documentai"

// DocumentProcessor is the subset of the Document AI client used by DocumentAIDetector.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIConfig holds configuration for the Document AI OCR processor.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the ID of an OCR (Document OCR) processor.
	ProcessorID string
}

// ProcessorName returns the fully qualified processor resource name.
func (c DocumentAIConfig) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// DocumentAIDetector implements TextDetector using a Document AI OCR processor.
type DocumentAIDetector struct {
	client DocumentProcessor
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIDetector creates a detector bound to the regional Document AI endpoint.
func NewDocumentAIDetector(ctx context.Context, config DocumentAIConfig) (*DocumentAIDetector, error) {
	const op = "NewDocumentAIDetector"

	if config.ProjectID == "" || config.ProcessorID == "" {
		return nil, WrapOCRError(op, fmt.Errorf("project and processor ID are required"), "")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	opts, explicit := gcpauth.ClientOptions()
	if config.Location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		if !explicit {
			return nil, WrapOCRError(op, ErrMissingCredentials, err.Error())
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewDocumentAIDetectorWithClient(config, client), nil
}

// NewDocumentAIDetectorWithClient creates a detector with an explicit client (for testing).
func NewDocumentAIDetectorWithClient(config DocumentAIConfig, client DocumentProcessor) *DocumentAIDetector {
	return &DocumentAIDetector{
		client: client,
		config: config,
		log:    logger.WithComponent("ocr-documentai"),
	}
}

// DetectText sends the image inline to the OCR processor once.
func (d *DocumentAIDetector) DetectText(ctx context.Context, image []byte) (*Result, error) {
	const op = "DetectText"
	startTime := time.Now()

	if err := checkImage(op, image); err != nil {
		return nil, err
	}

	mimeType := mimetype.Detect(image).String()
	d.log.Debug().
		Str("processor", d.config.ProcessorName()).
		Str("mime_type", mimeType).
		Int("image_bytes", len(image)).
		Msg("Calling Document AI OCR processor")

	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.config.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  image,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}

	doc := resp.GetDocument()
	if doc.GetError() != nil && doc.GetError().GetCode() != 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %s", doc.GetError().GetMessage()))
	}
	if strings.TrimSpace(doc.GetText()) == "" {
		return nil, WrapOCRError(op, ErrNoTextDetected, "")
	}

	var locale string
	for _, page := range doc.GetPages() {
		for _, lang := range page.GetDetectedLanguages() {
			if lang.GetLanguageCode() != "" {
				locale = lang.GetLanguageCode()
				break
			}
		}
		if locale != "" {
			break
		}
	}

	result := &Result{
		Text:        doc.GetText(),
		Annotations: len(doc.GetPages()),
		Locale:      locale,
		Provider:    providerDocumentAI,
		ProcessedAt: time.Now(),
	}
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	d.log.Info().
		Int("pages", result.Annotations).
		Int("text_length", len(result.Text)).
		Dur("duration", result.ProcessingDuration).
		Msg("Document AI OCR completed")

	return result, nil
}

// Close closes the underlying Document AI client.
func (d *DocumentAIDetector) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
