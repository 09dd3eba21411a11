// Package bula turns a photo of a medicine package into a structured summary
// of its leaflet.
//
// A request runs strictly in sequence, and the first failing stage ends it:
//
//	validate -> detect text -> extract name -> resolve leaflet -> summarize
//
// Every failure is an *Error whose Kind tells callers whether the input was
// rejected, nothing usable was found, or a dependency failed.
package bula

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bula/internal/llm"
	"bula/internal/logger"
	"bula/internal/ocr"
	"bula/internal/store"
	"bula/pkg/models"
)

// ServiceConfig holds the collaborators of a Service.
type ServiceConfig struct {
	Detector  ocr.TextDetector
	Generator llm.Generator
	Store     store.LeafletStore

	// Model is passed to the generator for both prompts.
	Model string

	// Strategies overrides the leaflet lookup order. Defaults to DefaultStrategies.
	Strategies []Strategy
}

// Service runs the leaflet pipeline.
type Service struct {
	detector   ocr.TextDetector
	extractor  *NameExtractor
	resolver   *Resolver
	summarizer *Summarizer
}

// NewService wires the pipeline stages.
func NewService(cfg ServiceConfig) *Service {
	strategies := cfg.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies(cfg.Store)
	}

	return &Service{
		detector:   cfg.Detector,
		extractor:  NewNameExtractor(cfg.Generator, cfg.Model),
		resolver:   NewResolver(strategies...),
		summarizer: NewSummarizer(cfg.Store, cfg.Generator, cfg.Model),
	}
}

// ProcessImage runs the full pipeline on a base64 encoded photo.
func (s *Service) ProcessImage(ctx context.Context, imageData string) (*models.SummaryResult, error) {
	log := logger.FromContext(ctx, "pipeline")
	start := time.Now()

	result, err := s.processImage(ctx, log, imageData)
	if err != nil {
		logFailure(log, err)
		return nil, err
	}

	log.Info().
		Str("medicine", result.OfficialName).
		Str("source", result.Source).
		Dur("duration", time.Since(start)).
		Msg("Image processed")
	return result, nil
}

func (s *Service) processImage(ctx context.Context, log zerolog.Logger, imageData string) (*models.SummaryResult, error) {
	image, err := DecodeImage(imageData)
	if err != nil {
		return nil, err
	}

	log.Info().Int("bytes", len(image)).Msg("Running OCR")
	text, err := s.detectText(ctx, image)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("text", text).Msg("OCR text")

	log.Info().Msg("Extracting medicine name")
	name, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	log.Info().Str("name", name).Msg("Medicine name extracted")

	return s.lookup(ctx, name)
}

func (s *Service) detectText(ctx context.Context, image []byte) (string, error) {
	const op = "DetectText"

	res, err := s.detector.DetectText(ctx, image)
	switch {
	case errors.Is(err, ocr.ErrNoTextDetected):
		return "", notFound(op, noTextMessage, errors.Join(ErrNoTextDetected, err))
	case err != nil:
		return "", internal(op, "Erro ao processar a imagem com OCR.", err)
	case res == nil || strings.TrimSpace(res.Text) == "":
		return "", notFound(op, noTextMessage, ErrNoTextDetected)
	}
	return res.Text, nil
}

const noTextMessage = "Nenhum texto de medicamento detectado na imagem. Tente novamente com uma imagem mais clara."

// GetSummary looks up a leaflet by medicine name and returns its summary.
// It skips OCR and name extraction.
func (s *Service) GetSummary(ctx context.Context, name string) (*models.SummaryResult, error) {
	log := logger.FromContext(ctx, "pipeline")

	name = strings.TrimSpace(name)
	if name == "" {
		err := invalidArgument("GetSummary", "O nome do medicamento é obrigatório.", ErrEmptyName)
		logFailure(log, err)
		return nil, err
	}

	result, err := s.lookup(ctx, name)
	if err != nil {
		logFailure(log, err)
		return nil, err
	}
	return result, nil
}

func (s *Service) lookup(ctx context.Context, name string) (*models.SummaryResult, error) {
	rec, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.summarizer.Summarize(ctx, rec)
}

// logFailure logs diagnostics for internal failures and a short line otherwise.
func logFailure(log zerolog.Logger, err error) {
	var be *Error
	if !errors.As(err, &be) {
		log.Error().Err(err).Msg("Request failed")
		return
	}

	if be.Kind == KindInternal {
		log.Error().Err(be.Err).Str("op", be.Op).Str("kind", be.Kind.String()).Msg(be.Message)
		return
	}
	log.Info().Str("op", be.Op).Str("kind", be.Kind.String()).Msg(be.Message)
}
