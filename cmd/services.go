package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bula/internal/bula"
	"bula/internal/config"
	"bula/internal/llm"
	"bula/internal/ocr"
	"bula/internal/store"
)

// createDetector builds the text detector selected by OCR_PROVIDER.
func createDetector(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ocr.TextDetector, error) {
	var (
		detector ocr.TextDetector
		err      error
	)

	switch cfg.OCRProvider {
	case config.OCRProviderDocumentAI:
		detector, err = ocr.NewDocumentAIDetector(ctx, ocr.DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		})
	default:
		detector, err = ocr.NewVisionDetector(ctx)
	}
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.OCRProvider).Msg("Failed to create OCR detector")
		return nil, bula.Internal("NewTextDetector", "Falha ao inicializar o serviço de OCR. Verifique as permissões.", err)
	}

	log.Debug().Str("provider", cfg.OCRProvider).Msg("OCR detector created")
	return detector, nil
}

// createGenerator builds the language model client selected by LLM_PROVIDER.
func createGenerator(cfg *config.Config, log zerolog.Logger) (llm.Generator, error) {
	var (
		gen llm.Generator
		err error
	)

	apiKey := cfg.LLMAPIKey()
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		gen, err = llm.NewOpenAIGenerator(apiKey, cfg.LLMBaseURL)
	case config.LLMProviderAnthropic:
		gen, err = llm.NewAnthropicGenerator(apiKey, cfg.LLMBaseURL)
	default:
		gen, err = llm.NewGeminiGenerator(apiKey, cfg.LLMBaseURL)
	}
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.LLMProvider).Msg("Failed to create language model client")
		if errors.Is(err, llm.ErrMissingAPIKey) {
			err = fmt.Errorf("%w: set %s", err, cfg.LLMAPIKeyEnv())
		}
		return nil, bula.Internal("NewGenerator", "Serviço de linguagem não configurado. Verifique a chave da API.", err)
	}

	log.Debug().Str("provider", cfg.LLMProvider).Str("model", cfg.LLMModel).Msg("Language model client created")
	return gen, nil
}

// createStore opens the leaflet store selected by STORE_BACKEND.
func createStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.LeafletStore, error) {
	var (
		leaflets store.LeafletStore
		err      error
	)

	switch cfg.StoreBackend {
	case config.StoreMongo:
		leaflets, err = store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.LeafletCollection)
	case config.StoreMemory:
		log.Warn().Msg("Using in-memory leaflet store; records are lost on exit")
		leaflets = store.NewMemoryStore()
	default:
		leaflets, err = store.NewFirestoreStore(ctx, cfg.GoogleCloudProject, cfg.FirestoreDatabase, cfg.LeafletCollection)
	}
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open leaflet store")
		return nil, bula.Internal("NewLeafletStore", "Falha ao conectar ao banco de dados de bulas.", err)
	}

	log.Debug().Str("backend", cfg.StoreBackend).Str("collection", cfg.LeafletCollection).Msg("Leaflet store opened")
	return leaflets, nil
}

// pipeline bundles a bula.Service with the clients it owns.
type pipeline struct {
	*bula.Service
	closers []func() error
}

func (p *pipeline) Close(log zerolog.Logger) {
	for _, c := range p.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("Failed to close client")
		}
	}
}

// createPipeline wires the full service. The OCR detector is only created
// when withOCR is set, so name lookups work without Vision credentials.
func createPipeline(ctx context.Context, cfg *config.Config, withOCR bool, log zerolog.Logger) (*pipeline, error) {
	p := &pipeline{}

	var detector ocr.TextDetector
	if withOCR {
		d, err := createDetector(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		detector = d
		p.closers = append(p.closers, d.Close)
	}

	gen, err := createGenerator(cfg, log)
	if err != nil {
		p.Close(log)
		return nil, err
	}

	leaflets, err := createStore(ctx, cfg, log)
	if err != nil {
		p.Close(log)
		return nil, err
	}
	p.closers = append(p.closers, leaflets.Close)

	p.Service = bula.NewService(bula.ServiceConfig{
		Detector:  detector,
		Generator: gen,
		Store:     leaflets,
		Model:     cfg.LLMModel,
	})
	return p, nil
}
