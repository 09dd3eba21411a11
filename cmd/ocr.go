package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bula/internal/logger"
	"bula/internal/ocr"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [image-file]",
	Short: "Extract the text printed on a medicine package photo",
	Long: `Run only the text detection step on an image and print the primary
text block. Useful to check what the name extractor will see.

The backend is selected with OCR_PROVIDER (vision or documentai).

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID (Document AI only)`,
	Example: `  # Print the text found on box.jpg
  bula ocr box.jpg

  # Include metadata and output as JSON
  bula ocr box.jpg --metadata --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	Text               string    `json:"text"`
	Provider           string    `json:"provider"`
	Annotations        int       `json:"annotations,omitempty"`
	Locale             string    `json:"locale,omitempty"`
	ProcessedAt        time.Time `json:"processed_at,omitempty"`
	ProcessingDuration string    `json:"processing_duration,omitempty"`
	FileName           string    `json:"file_name"`
	FileSize           int       `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().BoolP("metadata", "m", false, "Include metadata in output")
	ocrCmd.Flags().Bool("json", false, "Output as JSON")
	ocrCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	outputPath, _ := cmd.Flags().GetString("output")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("metadata", includeMetadata).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting OCR processing")

	image, err := readImageFile(imagePath, log)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	detector, err := createDetector(ctx, cfg, log)
	if err != nil {
		return handlePipelineError(err, log)
	}
	defer func() {
		if closeErr := detector.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR client")
		}
	}()

	result, err := detector.DetectText(ctx, image)
	if err != nil {
		return handleOCRError(err, log)
	}

	log.Info().
		Str("provider", result.Provider).
		Int("annotations", result.Annotations).
		Dur("duration", result.ProcessingDuration).
		Int("text_length", len(result.Text)).
		Msg("OCR processing completed successfully")

	return outputOCRResult(result, filepath.Base(imagePath), len(image), outputPath, jsonOutput, includeMetadata, log)
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 20MB). Try a smaller photo")
	case errors.Is(err, ocr.ErrNoTextDetected):
		return fmt.Errorf("no text found on the image. Try a clearer photo of the package")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "auth:"):
		return fmt.Errorf("Google Cloud authentication failed. Please check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED") ||
		strings.Contains(errStr, "PermissionDenied"):
		return fmt.Errorf("permission denied. Please ensure your service account has the 'Cloud Vision API User' role")
	case strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("OCR API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrOCRFailed):
		return fmt.Errorf("OCR processing failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}

// outputOCRResult formats and outputs the OCR results
func outputOCRResult(result *ocr.Result, fileName string, fileSize int, outputPath string, jsonOutput, includeMetadata bool, log zerolog.Logger) error {
	if jsonOutput {
		data, err := json.MarshalIndent(OCROutput{
			Text:               result.Text,
			Provider:           result.Provider,
			Annotations:        result.Annotations,
			Locale:             result.Locale,
			ProcessedAt:        result.ProcessedAt,
			ProcessingDuration: result.ProcessingDuration.String(),
			FileName:           fileName,
			FileSize:           fileSize,
		}, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		return writeOutput(data, outputPath, log)
	}

	var output strings.Builder
	if includeMetadata {
		fmt.Fprintf(&output, "=== OCR Results for %s ===\n", fileName)
		fmt.Fprintf(&output, "File size: %d bytes\n", fileSize)
		fmt.Fprintf(&output, "Provider: %s\n", result.Provider)
		if result.Locale != "" {
			fmt.Fprintf(&output, "Language: %s\n", result.Locale)
		}
		fmt.Fprintf(&output, "Processing time: %v\n", result.ProcessingDuration)
		fmt.Fprintf(&output, "Processed at: %s\n", result.ProcessedAt.Format(time.RFC3339))
		output.WriteString("\n=== Extracted Text ===\n\n")
	}
	output.WriteString(result.Text)

	return writeOutput([]byte(output.String()), outputPath, log)
}
