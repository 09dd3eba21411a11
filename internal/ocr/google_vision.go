package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"

	"bula/internal/gcpauth"
	"bula/internal/logger"
)

const providerVision = "vision"

// ImageAnnotator is the subset of the Vision client used by VisionDetector.
// *vision.ImageAnnotatorClient satisfies it.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionDetector implements TextDetector using Google Cloud Vision API.
type VisionDetector struct {
	client ImageAnnotator
	log    zerolog.Logger
}

// NewVisionDetector creates a detector with credentials from environment.
func NewVisionDetector(ctx context.Context) (*VisionDetector, error) {
	const op = "NewVisionDetector"

	opts, explicit := gcpauth.ClientOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if !explicit {
			return nil, WrapOCRError(op, ErrMissingCredentials, err.Error())
		}
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return NewVisionDetectorWithClient(client), nil
}

// NewVisionDetectorWithClient creates a detector with an explicit client (for testing).
func NewVisionDetectorWithClient(client ImageAnnotator) *VisionDetector {
	return &VisionDetector{
		client: client,
		log:    logger.WithComponent("ocr-vision"),
	}
}

// DetectText runs TEXT_DETECTION once and returns the first annotation.
func (v *VisionDetector) DetectText(ctx context.Context, image []byte) (*Result, error) {
	const op = "DetectText"
	startTime := time.Now()

	if err := checkImage(op, image); err != nil {
		return nil, err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	v.log.Debug().Int("image_bytes", len(image)).Msg("Calling Vision text detection")

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	result, err := primaryText(resp)
	if err != nil {
		return nil, WrapOCRError(op, err, "")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	v.log.Info().
		Int("annotations", result.Annotations).
		Int("text_length", len(result.Text)).
		Dur("duration", result.ProcessingDuration).
		Msg("Vision text detection completed")

	return result, nil
}

// primaryText picks the full-text annotation out of a Vision response.
// The first annotation always spans the whole detected text.
func primaryText(resp *visionpb.BatchAnnotateImagesResponse) (*Result, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return nil, fmt.Errorf("%w: no response from Vision API", ErrOCRFailed)
	}

	imageResp := resp.Responses[0]
	if imageResp.GetError() != nil && imageResp.GetError().GetCode() != 0 {
		return nil, fmt.Errorf("%w: Vision API error: %s", ErrOCRFailed, imageResp.GetError().GetMessage())
	}

	annotations := imageResp.GetTextAnnotations()
	if len(annotations) == 0 || strings.TrimSpace(annotations[0].GetDescription()) == "" {
		return nil, ErrNoTextDetected
	}

	return &Result{
		Text:        annotations[0].GetDescription(),
		Annotations: len(annotations),
		Locale:      annotations[0].GetLocale(),
		Provider:    providerVision,
	}, nil
}

// Close closes the underlying Vision client.
func (v *VisionDetector) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
