package config

import (
	"fmt"
	"os"
	"strings"

	"bula/internal/logger"
)

// Provider and backend names accepted in the environment.
const (
	OCRProviderVision     = "vision"
	OCRProviderDocumentAI = "documentai"

	LLMProviderGemini    = "gemini"
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"

	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StoreMemory    = "memory"
)

type Config struct {
	// Google Cloud Configuration
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// OCR Configuration
	OCRProvider string

	// Language Model Configuration
	LLMProvider     string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	LLMModel        string
	LLMBaseURL      string

	// Leaflet Store Configuration
	StoreBackend      string
	FirestoreDatabase string
	LeafletCollection string
	MongoURI          string
	MongoDatabase     string

	// HTTP Server Configuration
	HTTPAddr           string
	CORSAllowedOrigins []string

	// Catalog Import Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		OCRProvider:           strings.ToLower(getEnv("OCR_PROVIDER", OCRProviderVision)),
		LLMProvider:           strings.ToLower(getEnv("LLM_PROVIDER", LLMProviderGemini)),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:       getEnv("ANTHROPIC_API_KEY", ""),
		LLMModel:              getEnv("LLM_MODEL", ""),
		LLMBaseURL:            getEnv("LLM_BASE_URL", ""),
		StoreBackend:          strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore)),
		FirestoreDatabase:     getEnv("FIRESTORE_DATABASE", "(default)"),
		LeafletCollection:     getEnv("LEAFLET_COLLECTION", "medicamentos"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnv("MONGO_DATABASE", "bula"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:  getEnv("GOOGLE_SHEET_WORKSHEET", "Bulas"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if config.LLMModel == "" {
		config.LLMModel = defaultModel(config.LLMProvider)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OCRProvider {
	case OCRProviderVision:
	case OCRProviderDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for OCR_PROVIDER=%s", c.OCRProvider)
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for OCR_PROVIDER=%s", c.OCRProvider)
		}
	default:
		return fmt.Errorf("unsupported OCR_PROVIDER %q", c.OCRProvider)
	}

	switch c.LLMProvider {
	case LLMProviderGemini, LLMProviderOpenAI, LLMProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.StoreBackend {
	case StoreFirestore:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for STORE_BACKEND=%s", c.StoreBackend)
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for STORE_BACKEND=%s", c.StoreBackend)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}

	if c.LeafletCollection == "" {
		return fmt.Errorf("LEAFLET_COLLECTION must not be empty")
	}
	return nil
}

// LLMAPIKeyEnv names the environment variable holding the selected provider's key.
func (c *Config) LLMAPIKeyEnv() string {
	switch c.LLMProvider {
	case LLMProviderOpenAI:
		return "OPENAI_API_KEY"
	case LLMProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// LLMAPIKey returns the API key matching the selected language model provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case LLMProviderGemini:
		return c.GeminiAPIKey
	case LLMProviderOpenAI:
		return c.OpenAIAPIKey
	case LLMProviderAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultModel(provider string) string {
	switch provider {
	case LLMProviderOpenAI:
		return "gpt-4o-mini"
	case LLMProviderAnthropic:
		return "claude-3-5-haiku-latest"
	}
	return "gemini-1.5-pro"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
