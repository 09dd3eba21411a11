package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"bula/internal/bula"
	"bula/internal/config"
	"bula/internal/ocr"
	"bula/pkg/models"
)

// loadConfig loads configuration for a command.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return nil, err
	}
	return cfg, nil
}

// readImageFile checks that path is a readable image within the size limit and returns its bytes.
func readImageFile(path string, log zerolog.Logger) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Image file not found")
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing image file")
			return nil, fmt.Errorf("permission denied accessing image file: %s", path)
		}
		return nil, fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().Str("file", path).Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	if fileInfo.Size() == 0 {
		log.Error().Str("file", path).Msg("Image file is empty")
		return nil, fmt.Errorf("image file is empty: %s", path)
	}

	if fileInfo.Size() > ocr.MaxImageSizeBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int("max_size", ocr.MaxImageSizeBytes).
			Msg("Image file exceeds maximum size limit")
		return nil, fmt.Errorf("image file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), ocr.MaxImageSizeBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	if mtype := mimetype.Detect(data); !strings.HasPrefix(mtype.String(), "image/") && !mtype.Is("application/pdf") {
		log.Warn().
			Str("file", path).
			Str("mime_type", mtype.String()).
			Msg("File does not look like an image")
	}

	return data, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling request")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handlePipelineError turns a pipeline failure into a message for the terminal.
func handlePipelineError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Request failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("request was canceled")
	case errors.Is(err, bula.ErrServiceInit):
		return fmt.Errorf("%s\n\nOriginal error: %w", bula.PublicMessage(err), err)
	}

	kind := bula.KindOf(err)
	if kind == bula.KindInternal {
		return fmt.Errorf("%s: %s (%w)", kind, bula.PublicMessage(err), err)
	}
	return fmt.Errorf("%s: %s", kind, bula.PublicMessage(err))
}

// outputResult prints a summary result as text or JSON.
func outputResult(result *models.SummaryResult, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var data []byte

	if jsonOutput {
		var err error
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		var out strings.Builder
		fmt.Fprintf(&out, "=== %s (%s) ===\n\n", result.OfficialName, result.Source)
		for _, section := range []struct{ title, text string }{
			{"Contraindicações", result.Summary.Contraindications},
			{"Como usar", result.Summary.Usage},
			{"Posologia", result.Summary.Dosage},
			{"Reações adversas", result.Summary.AdverseReactions},
			{"Riscos e cuidados", result.Summary.RisksAndPrecautions},
		} {
			fmt.Fprintf(&out, "%s:\n%s\n\n", section.title, section.text)
		}
		data = []byte(out.String())
	}

	return writeOutput(data, outputPath, log)
}

func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
